// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds fixtures shared by the package tests: synthetic
// decoder sources and ready-made tracks.
package audiotest

import (
	"io"
	"math"
)

// Waveform returns the value of channel ch at frame index frame.
type Waveform func(frame, ch int) float32

// MockSource is a synthetic decoder output. It satisfies audio.Source
// without importing it.
type MockSource struct {
	rate     int
	channels int
	frames   int
	pos      int
	wave     Waveform

	// ReadErr, when set, is returned by the next ReadSamples call.
	ReadErr error
	closed  bool
}

// NewMockSource returns a source of frames frames per channel generated
// by wave.
func NewMockSource(rate, channels, frames int, wave Waveform) *MockSource {
	return &MockSource{
		rate:     rate,
		channels: channels,
		frames:   frames,
		wave:     wave,
	}
}

// NewSilentSource returns a source of zeros.
func NewSilentSource(rate, channels, frames int) *MockSource {
	return NewMockSource(rate, channels, frames, func(int, int) float32 { return 0 })
}

// NewConstantSource returns a source where every sample equals value.
func NewConstantSource(rate, channels, frames int, value float32) *MockSource {
	return NewMockSource(rate, channels, frames, func(int, int) float32 { return value })
}

// NewSineSource returns a sine of freq Hz on every channel.
func NewSineSource(rate, channels, frames int, freq float64) *MockSource {
	return NewMockSource(rate, channels, frames, func(frame, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * freq * float64(frame) / float64(rate)))
	})
}

func (m *MockSource) SampleRate() int { return m.rate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Rewind restarts generation from the first frame.
func (m *MockSource) Rewind() { m.pos = 0 }

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.ReadErr != nil {
		err := m.ReadErr
		m.ReadErr = nil
		return 0, err
	}
	if m.pos >= m.frames {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.frames-m.pos)
	for f := range frames {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.wave(m.pos+f, ch)
		}
	}
	m.pos += frames

	if m.pos >= m.frames {
		return frames * m.channels, io.EOF
	}

	return frames * m.channels, nil
}

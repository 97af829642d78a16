// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC files through github.com/gopxl/beep/v2/flac.
package flac

import (
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	beepflac "github.com/gopxl/beep/v2/flac"

	"github.com/ik5/audmix/audio"
)

const bufSize = 4096

// streamer is the part of beep.StreamSeekCloser the source reads from.
type streamer interface {
	Stream(samples [][2]float64) (int, bool)
	Err() error
	Close() error
}

// source adapts beep's stereo float64 frames to interleaved float32.
// Mono files come out of beep duplicated and are folded back to one
// channel.
type source struct {
	s     streamer
	rate  int
	chans int
	buf   [][2]float64
}

func newSource(s streamer, f beep.Format) *source {
	return &source{s: s, rate: int(f.SampleRate), chans: min(max(f.NumChannels, 1), 2)}
}

func (s *source) SampleRate() int { return s.rate }
func (s *source) Channels() int   { return s.chans }
func (s *source) BufSize() int    { return bufSize }

func (s *source) Close() error {
	if err := s.s.Close(); err != nil {
		return fmt.Errorf("closing flac stream: %w", err)
	}

	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	frames := len(dst) / s.chans
	if frames == 0 {
		return 0, nil
	}
	if cap(s.buf) < frames {
		s.buf = make([][2]float64, frames)
	}
	buf := s.buf[:frames]

	n, ok := s.s.Stream(buf)
	for i, f := range buf[:n] {
		if s.chans == 1 {
			dst[i] = float32(f[0])
			continue
		}
		dst[2*i] = float32(f[0])
		dst[2*i+1] = float32(f[1])
	}

	if !ok && n == 0 {
		if err := s.s.Err(); err != nil {
			return 0, fmt.Errorf("decoding flac: %w", err)
		}
		return 0, io.EOF
	}

	return n * s.chans, nil
}

type Decoder struct{}

// Decode opens a FLAC stream. Files with more than two channels are
// reduced to their first two by beep.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	s, format, err := beepflac.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlac, err)
	}

	return newSource(s, format), nil
}

// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts go-audio integer decoders to audio.Source.
package pcm

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
)

// DefaultBufSize is the read size, in samples, reported by sources.
const DefaultBufSize = 4096

// Reader is the part of the go-audio wav and aiff decoders a Source needs.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source converts integer PCM to float32 in [-1, 1].
type Source struct {
	dec      Reader
	format   *goaudio.Format
	scale    float32
	offset   int
	buf      *goaudio.IntBuffer
	finished bool
}

// NewSource wraps dec. unsigned marks 8-bit data stored as 0..255, as in
// WAV files.
func NewSource(dec Reader, format *goaudio.Format, bitDepth int, unsigned bool) (*Source, error) {
	if format == nil || format.NumChannels < 1 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid stream format %+v", format)
	}

	scale, ok := Scale(bitDepth)
	if !ok {
		return nil, fmt.Errorf("%d-bit samples: %w", bitDepth, ErrBitDepth)
	}

	s := &Source{dec: dec, format: format, scale: scale}
	if unsigned && bitDepth == 8 {
		s.offset = 128
	}

	return s, nil
}

func (s *Source) SampleRate() int { return s.format.SampleRate }
func (s *Source) Channels() int   { return s.format.NumChannels }
func (s *Source) BufSize() int    { return DefaultBufSize }

// Close is a no-op; the caller owns the underlying reader.
func (s *Source) Close() error { return nil }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.finished {
		return 0, io.EOF
	}

	if s.buf == nil || cap(s.buf.Data) < len(dst) {
		s.buf = &goaudio.IntBuffer{Data: make([]int, len(dst)), Format: s.format}
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.buf)
	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v-s.offset) / s.scale
	}

	switch {
	case err == io.EOF || (err == nil && n < len(dst)):
		s.finished = true
		if n == 0 {
			return 0, io.EOF
		}
		return n, nil
	case err != nil:
		return n, fmt.Errorf("decoding pcm: %w", err)
	}

	return n, nil
}

// Scale returns the full-scale magnitude of a signed sample of bitDepth.
func Scale(bitDepth int) (float32, bool) {
	switch bitDepth {
	case 8:
		return 1 << 7, true
	case 16:
		return 1 << 15, true
	case 24:
		return 1 << 23, true
	case 32:
		return 1 << 31, true
	default:
		return 0, false
	}
}

// ReadSeeker returns r itself when it can seek and buffers it in memory
// otherwise; the go-audio decoders need to seek between chunks.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}

	return bytes.NewReader(data), nil
}

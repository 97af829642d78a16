// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audmix/audio"
)

const bufSize = 4096

type oggReader interface {
	SampleRate() int
	Channels() int
	// Read decodes interleaved samples into p and returns the number of
	// values written.
	Read(p []float32) (int, error)
}

type source struct {
	dec   oggReader
	rate  int
	chans int
}

func (s *source) SampleRate() int { return s.rate }
func (s *source) Channels() int   { return s.chans }
func (s *source) BufSize() int    { return bufSize }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	n := len(dst) - len(dst)%s.chans
	if n == 0 {
		return 0, nil
	}

	read, err := s.dec.Read(dst[:n])
	switch {
	case errors.Is(err, io.EOF):
		if read == 0 {
			return 0, io.EOF
		}
		return read, nil
	case err != nil:
		return read, fmt.Errorf("decoding vorbis: %w", err)
	}

	return read, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbis, err)
	}
	if dec.Channels() < 1 {
		return nil, fmt.Errorf("%w: no channels", ErrNotVorbis)
	}

	return &source{dec: dec, rate: dec.SampleRate(), chans: dec.Channels()}, nil
}

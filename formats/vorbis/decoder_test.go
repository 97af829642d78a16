// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type fakeOgg struct {
	data []float32
	err  error
}

func (f *fakeOgg) SampleRate() int { return 48000 }
func (f *fakeOgg) Channels() int   { return 2 }

func (f *fakeOgg) Read(p []float32) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if len(f.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, f.data)
	f.data = f.data[n:]

	return n, nil
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	s := &source{dec: &fakeOgg{data: []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}}, rate: 48000, chans: 2}

	buf := make([]float32, 5)
	n, err := s.ReadSamples(buf)
	if err != nil || n != 4 {
		t.Fatalf("ReadSamples(5) = %d, %v; want 4 whole-frame samples", n, err)
	}

	n, err = s.ReadSamples(buf)
	if err != nil || n != 2 || buf[1] != 0.6 {
		t.Fatalf("ReadSamples() = %d, %v, %v", n, err, buf[:n])
	}

	if _, err := s.ReadSamples(buf); !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() at end = %v, want EOF", err)
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s := &source{dec: &fakeOgg{err: boom}, rate: 48000, chans: 2}
	if _, err := s.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() = %v, want boom", err)
	}
}

func TestDecoder_NotVorbis(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("OggS but not really"))); !errors.Is(err, ErrNotVorbis) {
		t.Errorf("Decode() = %v, want ErrNotVorbis", err)
	}
}

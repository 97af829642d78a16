// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmix/utils"
)

// Resampler streams src at another sample rate using Catmull-Rom cubic
// interpolation. The channel count is preserved. When downsampling, a
// one-pole low-pass runs ahead of the interpolator.
type Resampler struct {
	src   Source
	rate  int
	step  float64 // source frames per output frame
	chans int

	// hist holds frames t-1, t, t+1 and t+2; output is taken between
	// hist[1] and hist[2]. real marks frames read from src rather than
	// repeated from the last one.
	hist [4][]float32
	real [4]bool
	pos  float64

	buf    []float32
	bufPos int
	bufLen int
	srcErr error
	primed bool

	alpha float32
	lp    []float32
}

// NewResampler returns a Resampler producing dstRate Hz. A non-positive
// dstRate keeps the source rate.
func NewResampler(src Source, dstRate int) *Resampler {
	if dstRate <= 0 {
		dstRate = src.SampleRate()
	}

	chans := max(src.Channels(), 1)
	r := &Resampler{
		src:   src,
		rate:  dstRate,
		step:  float64(src.SampleRate()) / float64(dstRate),
		chans: chans,
		buf:   make([]float32, max(src.BufSize(), 1024)/chans*chans),
		lp:    make([]float32, chans),
	}
	for i := range r.hist {
		r.hist[i] = make([]float32, chans)
	}
	if r.step > 1 {
		r.alpha = float32(1 / r.step)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.chans }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("closing resampled source: %w", err)
	}

	return nil
}

// ReadSamples writes whole frames at the target rate. len(dst) must be a
// multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.chans != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	for written < len(dst) {
		for r.pos >= 1 {
			r.pos--
			r.advance()
		}
		if !r.real[1] {
			break
		}

		x := float32(r.pos)
		for c := range r.chans {
			dst[written+c] = utils.CubicInterpolate(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], x)
		}
		written += r.chans
		r.pos += r.step
	}

	if written > 0 {
		return written, nil
	}
	if r.srcErr != nil && !errors.Is(r.srcErr, io.EOF) {
		return 0, fmt.Errorf("reading source: %w", r.srcErr)
	}

	return 0, io.EOF
}

func (r *Resampler) prime() error {
	if !r.next(r.hist[1]) {
		if r.srcErr != nil && !errors.Is(r.srcErr, io.EOF) {
			return fmt.Errorf("reading source: %w", r.srcErr)
		}
		return io.EOF
	}
	r.real[1] = true
	copy(r.hist[0], r.hist[1])
	r.real[0] = true

	for i := 2; i < 4; i++ {
		r.real[i] = r.next(r.hist[i])
		if !r.real[i] {
			copy(r.hist[i], r.hist[i-1])
		}
	}
	r.primed = true

	return nil
}

// advance shifts the history by one source frame.
func (r *Resampler) advance() {
	first := r.hist[0]
	copy(r.hist[:], r.hist[1:])
	copy(r.real[:], r.real[1:])
	r.hist[3] = first

	r.real[3] = r.next(r.hist[3])
	if !r.real[3] {
		copy(r.hist[3], r.hist[2])
	}
}

// next reads one frame into f, filtered when downsampling.
func (r *Resampler) next(f []float32) bool {
	if r.bufPos >= r.bufLen {
		if r.srcErr != nil {
			return false
		}

		n, err := r.src.ReadSamples(r.buf)
		r.bufPos, r.bufLen = 0, n-n%r.chans
		if err != nil {
			r.srcErr = err
		}
		if r.bufLen == 0 {
			if r.srcErr == nil {
				r.srcErr = io.ErrNoProgress
			}
			return false
		}
	}

	copy(f, r.buf[r.bufPos:r.bufPos+r.chans])
	r.bufPos += r.chans

	if r.alpha > 0 {
		if !r.primed && !r.real[1] {
			copy(r.lp, f)
		}
		for c := range f {
			r.lp[c] += r.alpha * (f[c] - r.lp[c])
			f[c] = r.lp[c]
		}
	}

	return true
}

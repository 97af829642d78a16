// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/oov/audio/resampler"

	"github.com/ik5/audmix/track"
)

// Quality selects the resampling algorithm used when building tracks.
type Quality int

const (
	// QualityCubic streams through Resampler.
	QualityCubic Quality = iota
	// QualitySinc runs a windowed-sinc filter over the whole buffer.
	QualitySinc
)

// SincQuality is the filter quality passed to the sinc resampler, 0..10.
const SincQuality = 10

func (q Quality) String() string {
	switch q {
	case QualityCubic:
		return "cubic"
	case QualitySinc:
		return "sinc"
	default:
		return "unknown"
	}
}

// ParseQuality accepts "cubic" (or empty) and "sinc".
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cubic":
		return QualityCubic, nil
	case "sinc":
		return QualitySinc, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownQuality, s)
	}
}

// ReadAll drains src and returns every sample it produced.
func ReadAll(src Source) ([]float32, error) {
	chans := max(src.Channels(), 1)
	size := max(src.BufSize(), 1024)
	buf := make([]float32, size-size%chans)

	var out []float32
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)

		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		if n == 0 {
			return out, io.ErrNoProgress
		}
	}
}

// ToTrack decodes src into a mono track at targetRate Hz. A targetRate of
// zero keeps the source rate. src is not closed.
func ToTrack(src Source, targetRate int, q Quality) (track.Track, error) {
	if src.SampleRate() <= 0 {
		return track.Track{}, ErrInvalidRate
	}
	if targetRate <= 0 {
		targetRate = src.SampleRate()
	}

	var mono Source = NewMonoMixer(src)
	if targetRate != src.SampleRate() && q == QualityCubic {
		mono = NewResampler(mono, targetRate)
	}

	samples, err := ReadAll(mono)
	if err != nil {
		return track.Track{}, fmt.Errorf("decoding track: %w", err)
	}

	if targetRate != src.SampleRate() && q == QualitySinc {
		samples = ResampleSinc(samples, src.SampleRate(), targetRate)
	}

	return track.New(samples, uint32(targetRate)), nil
}

// ResampleSinc converts mono samples from inRate to outRate with a
// windowed-sinc filter. The output has len(samples)*outRate/inRate
// samples aligned with the input: the filter delay is skipped at the
// start and the tail is flushed with silence.
func ResampleSinc(samples []float32, inRate, outRate int) []float32 {
	if inRate <= 0 || outRate <= 0 || inRate == outRate || len(samples) == 0 {
		return samples
	}

	want := int(int64(len(samples)) * int64(outRate) / int64(inRate))
	out := make([]float32, 0, want+1)
	chunk := make([]float32, 4096)
	r := resampler.NewWithSkipZeros(1, inRate, outRate, SincQuality)

	in := samples
	for len(in) > 0 {
		read, written := r.ProcessFloat32(0, in, chunk)
		out = append(out, chunk[:written]...)
		in = in[read:]
		if read == 0 && written == 0 {
			break
		}
	}

	// the skipped delay is owed back as zeros at the end
	zeros := make([]float32, max(256, r.InputLatency()))
	for tries := 0; len(out) < want && tries < 64; tries++ {
		_, written := r.ProcessFloat32(0, zeros, chunk)
		out = append(out, chunk[:written]...)
	}

	if len(out) > want {
		out = out[:want]
	}

	return out
}

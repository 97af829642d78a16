// SPDX-License-Identifier: EPL-2.0

package track

import "time"

// Track is a decoded mono buffer of normalized samples at SampleRate Hz.
type Track struct {
	Samples    []float32
	SampleRate uint32
}

// New builds a Track from samples at rate Hz.
func New(samples []float32, rate uint32) Track {
	return Track{Samples: samples, SampleRate: rate}
}

// Len returns the number of samples in the track.
func (t *Track) Len() int { return len(t.Samples) }

// Empty reports whether the track holds no playable data.
func (t *Track) Empty() bool { return len(t.Samples) == 0 || t.SampleRate == 0 }

// Duration returns the playing time of one pass at the source rate.
func (t *Track) Duration() time.Duration {
	if t.SampleRate == 0 {
		return 0
	}

	return time.Duration(len(t.Samples)) * time.Second / time.Duration(t.SampleRate)
}

// SPDX-License-Identifier: EPL-2.0

package audiotest

import "github.com/ik5/audmix/track"

// ConstantTrack returns n samples of value at rate Hz.
func ConstantTrack(n int, rate uint32, value float32) track.Track {
	s := make([]float32, n)
	for i := range s {
		s[i] = value
	}

	return track.New(s, rate)
}

// RampTrack returns samples 0, step, 2*step, ... at rate Hz. Ramps make
// cursor positions directly observable in mixed output.
func RampTrack(n int, rate uint32, step float32) track.Track {
	s := make([]float32, n)
	for i := range s {
		s[i] = float32(i) * step
	}

	return track.New(s, rate)
}

// Ptr returns a pointer to a copy of t, for APIs taking *track.Track.
func Ptr(t track.Track) *track.Track { return &t }

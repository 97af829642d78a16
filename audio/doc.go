// SPDX-License-Identifier: EPL-2.0

// Package audio turns decoded PCM streams into mixer tracks.
//
// Every decoder in formats/ produces a Source of interleaved float32
// samples in [-1, 1]. Sources chain:
//
//	mono := audio.NewMonoMixer(src)
//	res := audio.NewResampler(mono, 48000)
//
// ToTrack runs that pipeline to completion and returns a track.Track ready
// for command.AddMono. With QualitySinc the whole buffer is resampled
// through a windowed-sinc filter instead of the streaming cubic
// Resampler.
//
// Registry maps file extensions to decoders; the loader package fills one
// with every built-in format.
package audio

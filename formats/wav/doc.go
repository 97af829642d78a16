// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes WAV files with github.com/go-audio/wav.
//
// Decoder accepts integer PCM at 8, 16, 24 or 32 bits with any channel
// count and sample rate:
//
//	f, _ := os.Open("click.wav")
//	src, err := wav.Decoder{}.Decode(f)
//
// Writer streams mixed float32 output to a seekable file as 16-bit PCM.
// WriteWAV16 writes a whole buffer to any io.Writer, including pipes.
package wav

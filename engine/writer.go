// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"github.com/ik5/audmix/command"
	"github.com/ik5/audmix/sample"
)

// Fill writes whole interleaved frames into dst, applying the general
// volume and converting to S. A trailing partial frame is silence.
func Fill[S sample.Sample](e *Engine, dst []S) {
	chans := e.registry.Channels()
	gain := e.volume
	n := len(dst) - len(dst)%chans

	for off := 0; off < n; off += chans {
		for c, v := range e.registry.NextFrame() {
			dst[off+c] = sample.Convert[S](v, gain)
		}
	}

	for i := n; i < len(dst); i++ {
		dst[i] = sample.Silence[S]()
	}
}

// FillBytes is Fill for a little-endian byte buffer in format f.
// Unknown formats produce zeroed output.
func (e *Engine) FillBytes(dst []byte, f sample.Format) {
	switch f {
	case sample.S16:
		fillBytes[int16](e, dst)
	case sample.U8:
		fillBytes[uint8](e, dst)
	case sample.F32:
		fillBytes[float32](e, dst)
	default:
		clear(dst)
	}
}

func fillBytes[S sample.Sample](e *Engine, dst []byte) {
	size := sample.FormatOf[S]().Size()
	frame := size * e.registry.Channels()
	n := len(dst) - len(dst)%frame
	gain := e.volume

	for off := 0; off < n; {
		for _, v := range e.registry.NextFrame() {
			sample.Put(dst[off:], sample.Convert[S](v, gain))
			off += size
		}
	}

	sample.FillSilence(dst[n:], sample.FormatOf[S]())
}

// Process runs one callback cycle: apply a pending reconfiguration, drain
// the queue, then mix into dst. When the drain ends the engine the buffer
// is filled with silence instead of a partial mix.
func (e *Engine) Process(rx *command.Receiver, dst []byte, f sample.Format) DrainResult {
	e.ApplyPending()

	res := e.Drain(rx)
	if res != Running {
		sample.FillSilence(dst, f)
		return res
	}

	e.FillBytes(dst, f)

	return res
}

// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/device/null"
	"github.com/ik5/audmix/engine"
	"github.com/ik5/audmix/sample"
)

// NewOffline returns a mixer on a null device in cfg. Output is produced
// only when Render asks for it. A zero Format means f32.
func NewOffline(opts Options, cfg device.Config) (*Mixer, error) {
	if cfg.Format == sample.FormatUnknown {
		cfg.Format = sample.F32
	}

	h := null.New(cfg)
	opts.Host = h
	opts.DeviceID = ""

	m, err := New(opts)
	if err != nil {
		return nil, err
	}
	m.offline = h

	return m, nil
}

// Render mixes frames frames and passes them to w one period at a time as
// interleaved float32. The slice is reused between calls. Commands sent
// before Render are applied before the first period. Render stops with
// ErrNotPlaying once a Close command is applied and with
// engine.ErrDisconnected once the sender shut down; the silent period
// that ended the engine is not written.
func (m *Mixer) Render(frames int, w func([]float32) error) error {
	if m.offline == nil {
		return ErrNotOffline
	}

	s := m.offline.Active()
	if s == nil {
		return engine.ErrNotStarted
	}

	cfg := s.Config()
	period := cfg.PeriodFrames
	if period < 1 {
		period = int(cfg.SampleRate / 100)
	}

	buf := make([]float32, 0, period*cfg.Channels)
	for frames > 0 {
		n := min(period, frames)

		out, ok := s.Pump(n)
		if !ok {
			return ErrNotPlaying
		}
		if done, reason := m.runner.Terminated(); done {
			if reason != nil {
				return reason
			}
			return ErrNotPlaying
		}

		buf = sample.AppendFloat32s(buf[:0], out, cfg.Format)
		if err := w(buf); err != nil {
			return err
		}
		frames -= n
	}

	return nil
}

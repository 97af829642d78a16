// SPDX-License-Identifier: EPL-2.0

// Package miniaudio is the default output backend, built on malgo
// (miniaudio bindings). It enumerates playback devices, opens streams on a
// chosen device and reports an unexpected device stop as device loss.
package miniaudio

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"

	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/sample"
)

// Options configures a Host.
type Options struct {
	// PeriodFrames is the preferred callback size; 0 lets miniaudio pick.
	PeriodFrames int
	Logger       *slog.Logger
}

// Host wraps a malgo context.
type Host struct {
	ctx    *malgo.AllocatedContext
	log    *slog.Logger
	period int

	mu  sync.Mutex
	ids map[string]malgo.DeviceID
}

// New initializes a malgo context on the platform's preferred backends.
// Backend diagnostics are logged at debug level.
func New(opts Options) (*Host, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "miniaudio")

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(msg string) {
		log.Debug("malgo", "msg", msg)
	})
	if err != nil {
		return nil, fmt.Errorf("initializing audio context: %w", err)
	}

	return &Host{ctx: ctx, log: log, period: max(opts.PeriodFrames, 0), ids: make(map[string]malgo.DeviceID)}, nil
}

func (h *Host) Name() string { return "miniaudio" }

func (h *Host) OutputDevices() ([]device.Info, error) {
	infos, err := h.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("enumerating playback devices: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]device.Info, 0, len(infos))
	for i := range infos {
		d := &infos[i]
		id := d.ID.String()
		h.ids[id] = d.ID
		out = append(out, device.Info{ID: id, Name: d.Name(), Default: d.IsDefault != 0})
	}

	return out, nil
}

func (h *Host) DefaultOutputDevice() (device.Info, error) {
	infos, err := h.OutputDevices()
	if err != nil {
		return device.Info{}, err
	}

	for _, d := range infos {
		if d.Default {
			return d, nil
		}
	}

	// some backends never flag a default
	if len(infos) > 0 {
		return infos[0], nil
	}

	return device.Info{}, device.ErrNoDevice
}

// DefaultOutputConfig opens the device with native settings to learn its
// format, then releases it.
func (h *Host) DefaultOutputConfig(id string) (device.Config, error) {
	cfg, err := h.deviceConfig(id, device.Config{})
	if err != nil {
		return device.Config{}, err
	}

	dev, err := malgo.InitDevice(h.ctx.Context, cfg, malgo.DeviceCallbacks{})
	if err != nil {
		return device.Config{}, fmt.Errorf("%w: probing %s: %w", device.ErrDeviceUnavailable, id, err)
	}
	defer dev.Uninit()

	format := FromMalgo(dev.PlaybackFormat())
	if format == sample.FormatUnknown {
		// the device converts from f32 for S24 and S32 hardware
		format = sample.F32
	}

	return device.Config{
		SampleRate:   dev.SampleRate(),
		Channels:     int(dev.PlaybackChannels()),
		Format:       format,
		PeriodFrames: h.period,
	}, nil
}

func (h *Host) OpenOutput(id string, cfg device.Config, data device.DataFunc, onErr device.ErrorFunc) (device.Stream, error) {
	if ToMalgo(cfg.Format) == malgo.FormatUnknown || cfg.Channels < 1 || cfg.SampleRate == 0 {
		return nil, fmt.Errorf("%w: %s", device.ErrUnsupportedFormat, cfg)
	}

	dc, err := h.deviceConfig(id, cfg)
	if err != nil {
		return nil, err
	}
	if onErr == nil {
		onErr = func(error) {}
	}

	s := &Stream{id: id, onErr: onErr}
	frame := cfg.FrameSize()

	dev, err := malgo.InitDevice(h.ctx.Context, dc, malgo.DeviceCallbacks{
		Data: func(out, _ []byte, frames uint32) {
			n := min(int(frames)*frame, len(out))
			data(out[:n])
		},
		Stop: s.stopped,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", device.ErrDeviceUnavailable, id, err)
	}
	s.dev = dev

	return s, nil
}

// Close releases the malgo context. Streams must be closed first.
func (h *Host) Close() error {
	err := h.ctx.Uninit()
	h.ctx.Free()

	return err
}

func (h *Host) deviceConfig(id string, cfg device.Config) (malgo.DeviceConfig, error) {
	dc := malgo.DefaultDeviceConfig(malgo.Playback)
	dc.Playback.Format = ToMalgo(cfg.Format)
	dc.Playback.Channels = uint32(cfg.Channels)
	dc.SampleRate = cfg.SampleRate
	dc.PeriodSizeInFrames = uint32(cfg.PeriodFrames)

	if id == "" {
		return dc, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	devID, ok := h.ids[id]
	if !ok {
		return dc, fmt.Errorf("%w: %q", device.ErrNoDevice, id)
	}
	dc.Playback.DeviceID = devID.Pointer()

	return dc, nil
}

// Stream is an open malgo playback device.
type Stream struct {
	id    string
	dev   *malgo.Device
	onErr device.ErrorFunc

	mu      sync.Mutex
	closed  bool
	halting atomic.Bool
}

func (s *Stream) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return device.ErrDeviceUnavailable
	}
	if s.dev.IsStarted() {
		return nil
	}
	s.halting.Store(false)

	return s.dev.Start()
}

func (s *Stream) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.dev.IsStarted() {
		return nil
	}
	s.halting.Store(true)

	return s.dev.Stop()
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.halting.Store(true)
	s.dev.Uninit()

	return nil
}

// stopped runs on the audio thread whenever the device stops. A stop we
// did not request means the device went away.
func (s *Stream) stopped() {
	if s.halting.Load() {
		return
	}

	s.onErr(fmt.Errorf("%s: %w", s.id, device.ErrDeviceUnavailable))
}

// ToMalgo maps a sample format to its malgo equivalent.
func ToMalgo(f sample.Format) malgo.FormatType {
	switch f {
	case sample.U8:
		return malgo.FormatU8
	case sample.S16:
		return malgo.FormatS16
	case sample.F32:
		return malgo.FormatF32
	default:
		return malgo.FormatUnknown
	}
}

// FromMalgo maps a malgo format back. Formats the mixer cannot write
// report sample.FormatUnknown.
func FromMalgo(f malgo.FormatType) sample.Format {
	switch f {
	case malgo.FormatU8:
		return sample.U8
	case malgo.FormatS16:
		return sample.S16
	case malgo.FormatF32:
		return sample.F32
	default:
		return sample.FormatUnknown
	}
}

var _ device.Host = (*Host)(nil)

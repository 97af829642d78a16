// SPDX-License-Identifier: EPL-2.0

// Package oto is a portable output backend built on ebitengine/oto. Oto
// exposes only the system default device and allows one context per
// process, so the host reports a single device whose format is fixed when
// the host is created.
package oto

import (
	"fmt"
	"sync"
	"time"

	ebioto "github.com/ebitengine/oto/v3"

	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/sample"
)

// DeviceID is the ID of the only device.
const DeviceID = "default"

var (
	ctxOnce sync.Once
	ctx     *ebioto.Context
	ctxCfg  device.Config
	ctxErr  error
)

// Host exposes the system default output through oto.
type Host struct {
	cfg device.Config
}

// New returns a host that opens streams in cfg. Zero fields default to
// 48 kHz stereo f32.
func New(cfg device.Config) *Host {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 48000
	}
	if cfg.Channels < 1 {
		cfg.Channels = 2
	}
	if cfg.Format == sample.FormatUnknown {
		cfg.Format = sample.F32
	}

	return &Host{cfg: cfg}
}

func (h *Host) Name() string { return "oto" }

func (h *Host) OutputDevices() ([]device.Info, error) {
	return []device.Info{h.info()}, nil
}

func (h *Host) DefaultOutputDevice() (device.Info, error) {
	return h.info(), nil
}

func (h *Host) DefaultOutputConfig(id string) (device.Config, error) {
	if id != DeviceID {
		return device.Config{}, fmt.Errorf("%w: %q", device.ErrNoDevice, id)
	}

	return h.cfg, nil
}

// OpenOutput creates the process-wide oto context on first use. Later
// streams must use the same format.
func (h *Host) OpenOutput(id string, cfg device.Config, data device.DataFunc, _ device.ErrorFunc) (device.Stream, error) {
	if id != DeviceID {
		return nil, fmt.Errorf("%w: %q", device.ErrNoDevice, id)
	}

	c, err := sharedContext(cfg)
	if err != nil {
		return nil, err
	}

	r := &reader{data: data, frame: cfg.FrameSize(), format: cfg.Format}

	return &Stream{player: c.NewPlayer(r)}, nil
}

// Close is a no-op; oto contexts live for the whole process.
func (h *Host) Close() error { return nil }

func (h *Host) info() device.Info {
	return device.Info{ID: DeviceID, Name: "System default", Default: true}
}

func sharedContext(cfg device.Config) (*ebioto.Context, error) {
	format, ok := ToOto(cfg.Format)
	if !ok || cfg.Channels < 1 || cfg.SampleRate == 0 {
		return nil, fmt.Errorf("%w: %s", device.ErrUnsupportedFormat, cfg)
	}

	ctxOnce.Do(func() {
		var ready chan struct{}
		ctx, ready, ctxErr = ebioto.NewContext(&ebioto.NewContextOptions{
			SampleRate:   int(cfg.SampleRate),
			ChannelCount: cfg.Channels,
			Format:       format,
			BufferSize:   time.Duration(cfg.PeriodFrames) * time.Second / time.Duration(cfg.SampleRate),
		})
		if ctxErr != nil {
			ctxErr = fmt.Errorf("%w: %w", device.ErrDeviceUnavailable, ctxErr)
			return
		}
		<-ready
		ctxCfg = cfg
	})

	if ctxErr != nil {
		return nil, ctxErr
	}
	if ctxCfg.SampleRate != cfg.SampleRate || ctxCfg.Channels != cfg.Channels || ctxCfg.Format != cfg.Format {
		return nil, fmt.Errorf("%w: %s, context already running at %s", device.ErrUnsupportedFormat, cfg, ctxCfg)
	}

	return ctx, nil
}

// reader adapts a DataFunc to the io.Reader oto pulls from.
type reader struct {
	data   device.DataFunc
	frame  int
	format sample.Format
}

func (r *reader) Read(p []byte) (int, error) {
	n := len(p) - len(p)%r.frame
	if n == 0 {
		sample.FillSilence(p, r.format)
		return len(p), nil
	}

	r.data(p[:n])

	return n, nil
}

// Stream wraps an oto player.
type Stream struct {
	mu     sync.Mutex
	player *ebioto.Player
	closed bool
}

func (s *Stream) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return device.ErrDeviceUnavailable
	}
	s.player.Play()

	return s.player.Err()
}

func (s *Stream) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.player.Pause()
	}

	return nil
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	return s.player.Close()
}

// ToOto maps a sample format to the oto wire format.
func ToOto(f sample.Format) (ebioto.Format, bool) {
	switch f {
	case sample.U8:
		return ebioto.FormatUnsignedInt8, true
	case sample.S16:
		return ebioto.FormatSignedInt16LE, true
	case sample.F32:
		return ebioto.FormatFloat32LE, true
	default:
		return 0, false
	}
}

var _ device.Host = (*Host)(nil)

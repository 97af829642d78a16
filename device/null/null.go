// SPDX-License-Identifier: EPL-2.0

// Package null is an in-memory output backend. Streams are driven by
// calling Pump, or by Run on a ticker, and devices can be removed to
// exercise device-loss handling.
package null

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/sample"
)

// DefaultID is the ID of the device created by New.
const DefaultID = "null"

type entry struct {
	info device.Info
	cfg  device.Config
}

// Host is a device.Host without real hardware.
type Host struct {
	mu      sync.Mutex
	devices []entry
	streams []*Stream
	closed  bool
}

// New returns a host with one default device using cfg.
func New(cfg device.Config) *Host {
	h := &Host{}
	h.AddDevice(device.Info{ID: DefaultID, Name: "Null Output"}, cfg)

	return h
}

// AddDevice registers an output device. The first device added becomes
// the default.
func (h *Host) AddDevice(info device.Info, cfg device.Config) {
	h.mu.Lock()
	defer h.mu.Unlock()

	info.Default = len(h.devices) == 0
	h.devices = append(h.devices, entry{info: info, cfg: cfg})
}

// Disconnect removes a device. Open streams on it report
// device.ErrDeviceUnavailable and the next device, if any, becomes the
// default.
func (h *Host) Disconnect(id string) {
	h.mu.Lock()
	i := slices.IndexFunc(h.devices, func(e entry) bool { return e.info.ID == id })
	if i < 0 {
		h.mu.Unlock()
		return
	}

	wasDefault := h.devices[i].info.Default
	h.devices = slices.Delete(h.devices, i, i+1)
	if wasDefault && len(h.devices) > 0 {
		h.devices[0].info.Default = true
	}

	var lost []*Stream
	for _, s := range h.streams {
		if s.id == id {
			lost = append(lost, s)
		}
	}
	h.mu.Unlock()

	for _, s := range lost {
		s.onErr(fmt.Errorf("%s: %w", id, device.ErrDeviceUnavailable))
	}
}

// Fail reports err on every open stream.
func (h *Host) Fail(err error) {
	h.mu.Lock()
	streams := slices.Clone(h.streams)
	h.mu.Unlock()

	for _, s := range streams {
		s.onErr(err)
	}
}

// Active returns the most recently opened stream that is still open.
func (h *Host) Active() *Stream {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.streams) == 0 {
		return nil
	}

	return h.streams[len(h.streams)-1]
}

func (h *Host) Name() string { return "null" }

func (h *Host) OutputDevices() ([]device.Info, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]device.Info, len(h.devices))
	for i, e := range h.devices {
		out[i] = e.info
	}

	return out, nil
}

func (h *Host) DefaultOutputDevice() (device.Info, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, e := range h.devices {
		if e.info.Default {
			return e.info, nil
		}
	}

	return device.Info{}, device.ErrNoDevice
}

func (h *Host) DefaultOutputConfig(id string) (device.Config, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, e := range h.devices {
		if e.info.ID == id {
			return e.cfg, nil
		}
	}

	return device.Config{}, fmt.Errorf("%w: %q", device.ErrNoDevice, id)
}

func (h *Host) OpenOutput(id string, cfg device.Config, data device.DataFunc, onErr device.ErrorFunc) (device.Stream, error) {
	if cfg.SampleRate == 0 || cfg.Channels < 1 || cfg.Format.Size() == 0 {
		return nil, fmt.Errorf("%w: %s", device.ErrUnsupportedFormat, cfg)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, device.ErrNoDevice
	}
	if !slices.ContainsFunc(h.devices, func(e entry) bool { return e.info.ID == id }) {
		return nil, fmt.Errorf("%w: %q", device.ErrNoDevice, id)
	}

	if onErr == nil {
		onErr = func(error) {}
	}

	s := &Stream{host: h, id: id, cfg: cfg, data: data, onErr: onErr}
	h.streams = append(h.streams, s)

	return s, nil
}

// Close closes every open stream.
func (h *Host) Close() error {
	h.mu.Lock()
	h.closed = true
	streams := slices.Clone(h.streams)
	h.mu.Unlock()

	for _, s := range streams {
		s.Close()
	}

	return nil
}

func (h *Host) forget(s *Stream) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if i := slices.Index(h.streams, s); i >= 0 {
		h.streams = slices.Delete(h.streams, i, i+1)
	}
}

// Stream is an open null output stream.
type Stream struct {
	host  *Host
	id    string
	cfg   device.Config
	data  device.DataFunc
	onErr device.ErrorFunc

	mu      sync.Mutex
	playing bool
	closed  bool
	buf     []byte
}

// DeviceID returns the device the stream is bound to.
func (s *Stream) DeviceID() string { return s.id }

// Config returns the stream format.
func (s *Stream) Config() device.Config { return s.cfg }

func (s *Stream) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return device.ErrDeviceUnavailable
	}
	s.playing = true

	return nil
}

func (s *Stream) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playing = false

	return nil
}

// Playing reports whether the stream would currently request data.
func (s *Stream) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.playing && !s.closed
}

// Close stops the stream. It waits for an in-flight Pump to return.
func (s *Stream) Close() error {
	s.mu.Lock()
	already := s.closed
	s.closed = true
	s.playing = false
	s.mu.Unlock()

	if !already {
		s.host.forget(s)
	}

	return nil
}

// Pump requests frames frames from the data callback and returns the
// filled buffer, valid until the next Pump. It returns false, without
// calling back, when the stream is paused or closed.
func (s *Stream) Pump(frames int) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing || s.closed {
		return nil, false
	}

	n := frames * s.cfg.FrameSize()
	if cap(s.buf) < n {
		s.buf = make([]byte, n)
	}
	s.buf = s.buf[:n]
	s.data(s.buf)

	return s.buf, true
}

// Run pumps one period every tick until ctx is done or the stream closes.
// A PeriodFrames of 0 pumps 10 ms per tick.
func (s *Stream) Run(ctx context.Context) {
	frames := s.cfg.PeriodFrames
	if frames < 1 {
		frames = int(s.cfg.SampleRate / 100)
	}
	period := time.Duration(frames) * time.Second / time.Duration(s.cfg.SampleRate)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return
			}
			s.Pump(frames)
		}
	}
}

// Silence reports whether buf, in format f, is entirely silent.
func Silence(buf []byte, f sample.Format) bool {
	want := byte(0)
	if f == sample.U8 {
		want = 128
	}
	for _, b := range buf {
		if b != want {
			return false
		}
	}

	return true
}

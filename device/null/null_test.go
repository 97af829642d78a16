// SPDX-License-Identifier: EPL-2.0

package null

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/sample"
)

var cfg = device.Config{SampleRate: 8000, Channels: 2, Format: sample.S16, PeriodFrames: 8}

func TestHost_Devices(t *testing.T) {
	t.Parallel()

	h := New(cfg)
	h.AddDevice(device.Info{ID: "usb", Name: "USB"}, cfg)

	infos, err := h.OutputDevices()
	if err != nil {
		t.Fatalf("OutputDevices(): %v", err)
	}
	if len(infos) != 2 || !infos[0].Default || infos[1].Default {
		t.Fatalf("OutputDevices() = %v", infos)
	}

	h.Disconnect(DefaultID)

	def, err := h.DefaultOutputDevice()
	if err != nil || def.ID != "usb" {
		t.Errorf("DefaultOutputDevice() = %v, %v; want usb", def, err)
	}

	h.Disconnect("usb")
	if _, err := h.DefaultOutputDevice(); !errors.Is(err, device.ErrNoDevice) {
		t.Errorf("DefaultOutputDevice() on empty host = %v", err)
	}
}

func TestHost_OpenOutputValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   string
		cfg  device.Config
		want error
	}{
		{name: "zero rate", id: DefaultID, cfg: device.Config{Channels: 2, Format: sample.S16}, want: device.ErrUnsupportedFormat},
		{name: "no channels", id: DefaultID, cfg: device.Config{SampleRate: 8000, Format: sample.S16}, want: device.ErrUnsupportedFormat},
		{name: "unknown format", id: DefaultID, cfg: device.Config{SampleRate: 8000, Channels: 1}, want: device.ErrUnsupportedFormat},
		{name: "unknown device", id: "nope", cfg: cfg, want: device.ErrNoDevice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := New(cfg)
			if _, err := h.OpenOutput(tt.id, tt.cfg, func([]byte) {}, nil); !errors.Is(err, tt.want) {
				t.Errorf("OpenOutput() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStream_Pump(t *testing.T) {
	t.Parallel()

	h := New(cfg)
	calls := 0
	s, err := h.OpenOutput(DefaultID, cfg, func(out []byte) {
		calls++
		for i := range out {
			out[i] = 1
		}
	}, nil)
	if err != nil {
		t.Fatalf("OpenOutput(): %v", err)
	}
	ns := s.(*Stream)

	if _, ok := ns.Pump(4); ok {
		t.Error("new stream pumped before Play")
	}

	s.Play()
	buf, ok := ns.Pump(4)
	if !ok || len(buf) != 4*cfg.FrameSize() {
		t.Fatalf("Pump(4) = %d bytes, %v", len(buf), ok)
	}
	if Silence(buf, sample.S16) {
		t.Error("buffer not written by callback")
	}

	s.Close()
	if _, ok := ns.Pump(1); ok {
		t.Error("closed stream pumped")
	}
	if err := s.Play(); err == nil {
		t.Error("Play() on closed stream succeeded")
	}
	if calls != 1 || h.Active() != nil {
		t.Errorf("calls = %d, active = %v", calls, h.Active())
	}
}

func TestHost_DisconnectReportsUnavailable(t *testing.T) {
	t.Parallel()

	h := New(cfg)
	var got error
	if _, err := h.OpenOutput(DefaultID, cfg, func([]byte) {}, func(err error) { got = err }); err != nil {
		t.Fatalf("OpenOutput(): %v", err)
	}

	h.Disconnect(DefaultID)

	if !errors.Is(got, device.ErrDeviceUnavailable) {
		t.Errorf("error callback got %v, want ErrDeviceUnavailable", got)
	}
}

func TestStream_Run(t *testing.T) {
	t.Parallel()

	h := New(cfg)
	var calls atomic.Int32
	s, _ := h.OpenOutput(DefaultID, cfg, func([]byte) { calls.Add(1) }, nil)
	s.Play()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.(*Stream).Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done

	if calls.Load() < 2 {
		t.Errorf("Run pumped %d periods", calls.Load())
	}
}

func TestSilence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		buf    []byte
		format sample.Format
		want   bool
	}{
		{name: "s16 zero", buf: []byte{0, 0}, format: sample.S16, want: true},
		{name: "s16 signal", buf: []byte{0, 1}, format: sample.S16},
		{name: "u8 midpoint", buf: []byte{128, 128}, format: sample.U8, want: true},
		{name: "u8 zero", buf: []byte{0}, format: sample.U8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Silence(tt.buf, tt.format); got != tt.want {
				t.Errorf("Silence() = %v, want %v", got, tt.want)
			}
		})
	}
}

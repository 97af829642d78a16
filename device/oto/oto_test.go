// SPDX-License-Identifier: EPL-2.0

package oto

import (
	"errors"
	"testing"

	ebioto "github.com/ebitengine/oto/v3"

	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/sample"
)

func TestToOto(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format sample.Format
		want   ebioto.Format
		ok     bool
	}{
		{name: "u8", format: sample.U8, want: ebioto.FormatUnsignedInt8, ok: true},
		{name: "s16", format: sample.S16, want: ebioto.FormatSignedInt16LE, ok: true},
		{name: "f32", format: sample.F32, want: ebioto.FormatFloat32LE, ok: true},
		{name: "unknown", format: sample.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ToOto(tt.format)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("ToOto(%v) = %v, %v", tt.format, got, ok)
			}
		})
	}
}

func TestHost_SingleDevice(t *testing.T) {
	t.Parallel()

	h := New(device.Config{})

	def, err := h.DefaultOutputDevice()
	if err != nil || def.ID != DeviceID || !def.Default {
		t.Fatalf("DefaultOutputDevice() = %v, %v", def, err)
	}

	cfg, err := h.DefaultOutputConfig(DeviceID)
	if err != nil {
		t.Fatalf("DefaultOutputConfig(): %v", err)
	}
	if cfg.SampleRate != 48000 || cfg.Channels != 2 || cfg.Format != sample.F32 {
		t.Errorf("DefaultOutputConfig() = %v", cfg)
	}

	if _, err := h.DefaultOutputConfig("hdmi"); !errors.Is(err, device.ErrNoDevice) {
		t.Errorf("DefaultOutputConfig(hdmi) = %v", err)
	}
	if _, err := h.OpenOutput("hdmi", cfg, func([]byte) {}, nil); !errors.Is(err, device.ErrNoDevice) {
		t.Errorf("OpenOutput(hdmi) = %v", err)
	}
}

func TestReader_WholeFrames(t *testing.T) {
	t.Parallel()

	var got int
	r := &reader{data: func(out []byte) { got = len(out) }, frame: 4, format: sample.S16}

	n, err := r.Read(make([]byte, 10))
	if err != nil || n != 8 || got != 8 {
		t.Errorf("Read(10) = %d, %v; callback saw %d bytes", n, err, got)
	}

	p := []byte{1, 2}
	r.format = sample.U8
	if n, _ := r.Read(p); n != 2 || p[0] != 128 || p[1] != 128 {
		t.Errorf("short Read = %d, %v; want u8 silence", n, p)
	}
}

// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"

	"github.com/ik5/audmix/sample"
)

// Info describes an output device.
type Info struct {
	ID      string
	Name    string
	Default bool
}

func (i Info) String() string {
	if i.Default {
		return fmt.Sprintf("%s (%s, default)", i.Name, i.ID)
	}

	return fmt.Sprintf("%s (%s)", i.Name, i.ID)
}

// Config is a negotiated stream format.
type Config struct {
	SampleRate uint32
	Channels   int
	Format     sample.Format
	// PeriodFrames is the preferred callback size in frames; 0 lets the
	// backend choose.
	PeriodFrames int
}

// FrameSize returns the number of bytes in one interleaved frame.
func (c Config) FrameSize() int { return c.Channels * c.Format.Size() }

func (c Config) String() string {
	return fmt.Sprintf("%d Hz, %d ch, %s", c.SampleRate, c.Channels, c.Format)
}

// DataFunc fills out with interleaved samples in the stream's format. It
// runs on the backend's real-time thread and must not block.
type DataFunc func(out []byte)

// ErrorFunc receives asynchronous stream failures. Device loss is reported
// as an error wrapping ErrDeviceUnavailable.
type ErrorFunc func(err error)

// Host is an audio backend able to enumerate and open output devices.
type Host interface {
	Name() string
	OutputDevices() ([]Info, error)
	// DefaultOutputDevice returns ErrNoDevice when no output exists.
	DefaultOutputDevice() (Info, error)
	DefaultOutputConfig(id string) (Config, error)
	OpenOutput(id string, cfg Config, data DataFunc, onErr ErrorFunc) (Stream, error)
	Close() error
}

// Stream is an open output stream. New streams start paused.
type Stream interface {
	Play() error
	Pause() error
	Close() error
}

// Find returns the device with the given ID from host.
func Find(host Host, id string) (Info, error) {
	devices, err := host.OutputDevices()
	if err != nil {
		return Info{}, fmt.Errorf("listing %s devices: %w", host.Name(), err)
	}

	for _, d := range devices {
		if d.ID == id {
			return d, nil
		}
	}

	return Info{}, fmt.Errorf("%w: %q", ErrNoDevice, id)
}

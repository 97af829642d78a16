// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"sync/atomic"

	"github.com/ik5/audmix/command"
	"github.com/ik5/audmix/playback"
	"github.com/ik5/audmix/track"
)

const (
	DefaultSlots            = 64
	DefaultPlaylistCapacity = 128
	DefaultSampleRate       = 48000
	DefaultChannels         = 2
)

// Options configures a new Engine. Zero values take the defaults above.
type Options struct {
	Slots            int
	PlaylistCapacity int
	SampleRate       uint32
	Channels         int
	Interpolation    playback.Interpolation
}

// Settings is a snapshot of the engine-wide mixing parameters.
type Settings struct {
	GeneralVolume    float32
	SampleRate       uint32
	Channels         int
	Slots            int
	PlaylistCapacity int
}

// DrainResult tells the callback whether to keep running.
type DrainResult int

const (
	Running DrainResult = iota
	// Closed means a Close command was applied.
	Closed
	// Disconnected means the command sender shut down.
	Disconnected
)

func (r DrainResult) String() string {
	switch r {
	case Running:
		return "running"
	case Closed:
		return "closed"
	default:
		return "disconnected"
	}
}

type reconfig struct {
	rate     uint32
	channels int
}

// Engine owns track storage, the playback registry and the master gain.
// Every method except RequestReconfigure must be called from the goroutine
// running the audio callback, or before the stream starts.
type Engine struct {
	storage  *track.Storage
	registry *playback.Registry
	volume   float32

	pending atomic.Pointer[reconfig]
}

// New returns an engine with empty storage and playlist and a general
// volume of 1.
func New(opts Options) *Engine {
	if opts.Slots < 1 {
		opts.Slots = DefaultSlots
	}
	if opts.PlaylistCapacity < 1 {
		opts.PlaylistCapacity = DefaultPlaylistCapacity
	}
	if opts.SampleRate == 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.Channels < 1 {
		opts.Channels = DefaultChannels
	}

	return &Engine{
		storage: track.NewStorage(opts.Slots),
		registry: playback.NewRegistry(playback.Options{
			Capacity:      opts.PlaylistCapacity,
			Slots:         opts.Slots,
			SampleRate:    opts.SampleRate,
			Channels:      opts.Channels,
			Interpolation: opts.Interpolation,
		}),
		volume: 1,
	}
}

func (e *Engine) Storage() *track.Storage { return e.storage }

func (e *Engine) Registry() *playback.Registry { return e.registry }

// Settings returns the current mixing parameters.
func (e *Engine) Settings() Settings {
	return Settings{
		GeneralVolume:    e.volume,
		SampleRate:       e.registry.SampleRate(),
		Channels:         e.registry.Channels(),
		Slots:            e.storage.Capacity(),
		PlaylistCapacity: e.registry.Capacity(),
	}
}

// SetGeneralVolume sets the master gain directly.
func (e *Engine) SetGeneralVolume(v float32) { e.volume = v }

// RequestReconfigure hands a new output rate and channel count to the
// callback goroutine, which applies it before its next drain. It is safe
// to call from any goroutine.
func (e *Engine) RequestReconfigure(rate uint32, channels int) {
	e.pending.Store(&reconfig{rate: rate, channels: channels})
}

// ApplyPending applies a reconfiguration requested with RequestReconfigure.
func (e *Engine) ApplyPending() bool {
	p := e.pending.Swap(nil)
	if p == nil {
		return false
	}

	e.registry.SetSampleRate(p.rate)
	e.registry.SetChannels(p.channels)

	return true
}

// Drain applies the commands that were queued when it was called, in
// order. Commands arriving during the drain wait for the next one.
func (e *Engine) Drain(rx *command.Receiver) DrainResult {
	for range rx.Pending() {
		cmd, res := rx.TryReceive()
		if res != command.Received {
			break
		}
		if !e.Apply(cmd) {
			return Closed
		}
	}

	if rx.Disconnected() {
		return Disconnected
	}

	return Running
}

// NextFrame mixes one interleaved frame before the general volume.
func (e *Engine) NextFrame() []float32 {
	return e.registry.NextFrame()
}

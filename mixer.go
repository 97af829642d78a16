// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ik5/audmix/command"
	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/device/null"
	"github.com/ik5/audmix/engine"
)

// Options configures a Mixer.
type Options struct {
	Engine engine.Options
	// QueueSize bounds the command queue; 0 uses command.DefaultSize.
	QueueSize int
	Host      device.Host
	// DeviceID selects the output device; empty uses the host default.
	DeviceID string
	Logger   *slog.Logger
}

// Mixer ties a command queue, an engine and its device runner together.
// The embedded Sender carries every command method and may be shared by
// any number of goroutines.
type Mixer struct {
	*command.Sender

	id      uuid.UUID
	engine  *engine.Engine
	runner  *engine.Runner
	host    device.Host
	offline *null.Host
	log     *slog.Logger
}

// New builds a mixer. Nothing is opened until Start.
func New(opts Options) (*Mixer, error) {
	if opts.Host == nil {
		return nil, ErrNoHost
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	id := uuid.New()
	log = log.With("mixer", id.String())

	e := engine.New(opts.Engine)
	tx, rx := command.New(opts.QueueSize)

	return &Mixer{
		Sender: tx,
		id:     id,
		engine: e,
		runner: engine.NewRunner(e, rx, engine.RunnerOptions{
			Host:     opts.Host,
			DeviceID: opts.DeviceID,
			Logger:   log,
		}),
		host: opts.Host,
		log:  log,
	}, nil
}

// ID identifies the mixer in logs.
func (m *Mixer) ID() uuid.UUID { return m.id }

// Host returns the output host the mixer was built with.
func (m *Mixer) Host() device.Host { return m.host }

// Start opens the output stream. It stays paused until Play.
func (m *Mixer) Start() error {
	if err := m.runner.Start(); err != nil {
		return err
	}

	info, cfg := m.runner.Device()
	m.log.Info("mixer started", "device", info.Name, "config", cfg.String())

	return nil
}

// Run supervises the output stream until a Close command, a sender
// Shutdown, an unrecoverable device error or ctx cancellation. See
// engine.Runner.Run for the return values.
func (m *Mixer) Run(ctx context.Context) error {
	err := m.runner.Run(ctx)
	m.log.Info("mixer stopped", "err", err)

	return err
}

// Play resumes the output stream, now and after any device switch.
func (m *Mixer) Play() error { return m.runner.Handle().Play() }

// Pause stops the output stream from requesting data. Playback cursors
// do not advance while paused.
func (m *Mixer) Pause() error { return m.runner.Handle().Pause() }

// Playing reports the last requested play state.
func (m *Mixer) Playing() bool { return m.runner.Handle().ShouldPlay() }

// Device returns the output device and format in use.
func (m *Mixer) Device() (device.Info, device.Config) { return m.runner.Device() }

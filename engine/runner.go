// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ik5/audmix/command"
	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/sample"
)

// streamError is a backend error tagged with the stream generation that
// reported it, so errors from a replaced stream are ignored.
type streamError struct {
	gen uint64
	err error
}

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	Host   device.Host
	Handle *device.Handle
	// DeviceID selects the initial output device. Empty uses the host
	// default. Recovery after device loss always uses the default.
	DeviceID string
	Logger   *slog.Logger
}

// Runner binds an Engine to an output device. It owns the stream lifecycle:
// opening, device-loss recovery and shutdown.
type Runner struct {
	engine *Engine
	rx     *command.Receiver
	host   device.Host
	handle *device.Handle
	devID  string
	log    *slog.Logger

	gen        atomic.Uint64
	terminated atomic.Bool
	reason     atomic.Pointer[error]
	exit       chan error
	errs       chan streamError

	mu      sync.Mutex
	started bool
	current device.Info
	config  device.Config
}

// NewRunner returns a Runner that drains rx into e.
func NewRunner(e *Engine, rx *command.Receiver, opts RunnerOptions) *Runner {
	if opts.Handle == nil {
		opts.Handle = device.NewHandle()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Runner{
		engine: e,
		rx:     rx,
		host:   opts.Host,
		handle: opts.Handle,
		devID:  opts.DeviceID,
		log:    opts.Logger.With("component", "runner", "host", opts.Host.Name()),
		exit:   make(chan error, 1),
		errs:   make(chan streamError, 8),
	}
}

// Handle returns the stream handle shared with control code.
func (r *Runner) Handle() *device.Handle { return r.handle }

// Device returns the device and format currently in use.
func (r *Runner) Device() (device.Info, device.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.current, r.config
}

// Start opens the output stream and publishes it to the handle. The
// stream plays if the handle was asked to play.
func (r *Runner) Start() error {
	info, err := r.pick(r.devID)
	if err != nil {
		return err
	}

	if err := r.open(info); err != nil {
		return err
	}

	r.mu.Lock()
	r.started = true
	r.mu.Unlock()

	return nil
}

// Run supervises the stream until the engine terminates or ctx is done.
// It returns nil after a Close command, ErrDisconnected when the sender
// shut down, and a wrapped error for unrecoverable backend failures. The
// stream is closed on every exit path.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	started := r.started
	r.mu.Unlock()
	if !started {
		return ErrNotStarted
	}

	for {
		select {
		case <-ctx.Done():
			r.shutdown()
			return ctx.Err()

		case reason := <-r.exit:
			r.shutdown()
			return reason

		case se := <-r.errs:
			if se.gen != r.gen.Load() {
				r.log.Debug("ignoring error from replaced stream", "err", se.err)
				continue
			}

			if !errors.Is(se.err, device.ErrDeviceUnavailable) {
				r.log.Error("output stream failed", "err", se.err)
				r.shutdown()
				return fmt.Errorf("%w: %w", ErrStreamFailed, se.err)
			}

			if err := r.recoverDevice(se.err); err != nil {
				r.log.Error("device recovery failed", "err", err)
				r.shutdown()
				return err
			}
		}
	}
}

// recoverDevice replaces a lost stream with one on the new default device.
func (r *Runner) recoverDevice(cause error) error {
	old, _ := r.Device()
	r.log.Warn("output device lost", "device", old.Name, "err", cause)

	if s := r.handle.Swap(nil); s != nil {
		if err := s.Close(); err != nil {
			r.log.Debug("closing lost stream", "err", err)
		}
	}

	info, err := r.host.DefaultOutputDevice()
	if err != nil {
		if errors.Is(err, device.ErrNoDevice) {
			return fmt.Errorf("%w: %w", ErrNoReplacementDevice, err)
		}
		return fmt.Errorf("%w: querying default device: %w", ErrStreamFailed, err)
	}

	if err := r.open(info); err != nil {
		return fmt.Errorf("%w: %w", ErrStreamFailed, err)
	}

	_, cfg := r.Device()
	r.log.Info("switched output device", "device", info.Name, "id", info.ID, "config", cfg.String())

	return nil
}

// pick resolves the initial device.
func (r *Runner) pick(id string) (device.Info, error) {
	if id != "" {
		return device.Find(r.host, id)
	}

	info, err := r.host.DefaultOutputDevice()
	if err != nil {
		return device.Info{}, fmt.Errorf("default output device: %w", err)
	}

	return info, nil
}

// open builds a stream on info with its default format, hands the format
// to the engine and publishes the stream.
func (r *Runner) open(info device.Info) error {
	cfg, err := r.host.DefaultOutputConfig(info.ID)
	if err != nil {
		return fmt.Errorf("default config for %s: %w", info.Name, err)
	}

	r.engine.RequestReconfigure(cfg.SampleRate, cfg.Channels)

	gen := r.gen.Add(1)
	stream, err := r.host.OpenOutput(info.ID, cfg, r.dataFunc(cfg.Format), r.errorFunc(gen))
	if err != nil {
		return fmt.Errorf("opening %s: %w", info.Name, err)
	}

	r.mu.Lock()
	r.current, r.config = info, cfg
	r.mu.Unlock()

	old, err := r.handle.Publish(stream)
	if old != nil {
		old.Close()
	}
	if err != nil {
		return fmt.Errorf("starting %s: %w", info.Name, err)
	}

	r.log.Debug("stream opened", "device", info.Name, "config", cfg.String())

	return nil
}

func (r *Runner) dataFunc(f sample.Format) device.DataFunc {
	return func(out []byte) {
		if r.terminated.Load() {
			sample.FillSilence(out, f)
			return
		}

		switch r.engine.Process(r.rx, out, f) {
		case Closed:
			r.terminate(nil)
		case Disconnected:
			r.terminate(ErrDisconnected)
		}
	}
}

func (r *Runner) errorFunc(gen uint64) device.ErrorFunc {
	return func(err error) {
		select {
		case r.errs <- streamError{gen: gen, err: err}:
		default:
		}
	}
}

func (r *Runner) terminate(reason error) {
	if r.terminated.CompareAndSwap(false, true) {
		r.reason.Store(&reason)
		r.exit <- reason
	}
}

// Terminated reports whether the engine stopped mixing, and why: nil
// after a Close command, ErrDisconnected after a sender shutdown. A
// runner stopped by Run's context or a stream failure reports no reason.
func (r *Runner) Terminated() (bool, error) {
	if !r.terminated.Load() {
		return false, nil
	}
	if p := r.reason.Load(); p != nil {
		return true, *p
	}

	return true, nil
}

func (r *Runner) shutdown() {
	r.terminated.Store(true)
	r.rx.Stop()

	if s := r.handle.Swap(nil); s != nil {
		if err := s.Close(); err != nil {
			r.log.Warn("closing stream", "err", err)
		}
	}
}

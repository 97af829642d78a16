// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/command"
	"github.com/ik5/audmix/loader"
)

// playFlags are shared by play and render.
type playFlags struct {
	repeats  uint32
	volume   float32
	channels []int
}

func (f *playFlags) register(cmd *cobra.Command) {
	cmd.Flags().Uint32VarP(&f.repeats, "repeat", "r", 1, "times to play each track (0 loops forever)")
	cmd.Flags().Float32Var(&f.volume, "volume", 1, "volume of each playback")
	cmd.Flags().IntSliceVarP(&f.channels, "channels", "c", nil, "output channels to play on (default all)")
}

// queue loads every track into its own slot and starts one playback of
// each on the chosen channels.
func (f *playFlags) queue(m *audmix.Mixer, entries []loader.Entry, outChannels int, volume float32) error {
	channels := f.channels
	if len(channels) == 0 {
		channels = allChannels(outChannels)
	}

	if err := m.SetGeneralVolume(volume); err != nil {
		return err
	}

	adds := make([]command.AddMono, len(entries))
	plays := make([]command.PlayMonoOnChannels, len(entries))
	for i, e := range entries {
		adds[i] = command.AddMono{Slot: i, Track: e.Track}
		plays[i] = command.PlayMonoOnChannels{Slot: i, Channels: channels, Repeats: f.repeats, Volume: f.volume}
		slog.Info("queued track", "slot", i, "name", e.Name, "duration", e.Track.Duration())
	}

	if err := m.AddMonos(adds...); err != nil {
		return err
	}
	_, err := m.PlayMonosOnChannels(plays...)

	return err
}

var playOpts playFlags

// playCmd plays files on the output device
var playCmd = &cobra.Command{
	Use:   "play FILE|DIR...",
	Short: "Play audio files",
	Long: `Play audio files together on the output device. Each file is loaded as a
mono track into its own slot. Directories are scanned for supported files.

Playback stops when the longest track finishes, or on SIGINT or SIGTERM.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlay,
}

func init() {
	playOpts.register(playCmd)
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, closer, err := setup()
	if err != nil {
		return err
	}
	defer closer.Close()

	entries, err := loadTracks(loader.New(cfg.LoaderOptions(slog.Default())), args)
	if err != nil {
		return err
	}
	if len(entries) > cfg.Engine.Slots {
		return fmt.Errorf("%d tracks do not fit in %d slots", len(entries), cfg.Engine.Slots)
	}

	host, err := openHost(cfg, slog.Default())
	if err != nil {
		return err
	}
	defer host.Close()

	m, err := audmix.New(audmix.Options{
		Engine:    cfg.EngineOptions(),
		QueueSize: cfg.Engine.QueueSize,
		Host:      host,
		DeviceID:  cfg.Device.ID,
	})
	if err != nil {
		return err
	}
	if err := m.Start(); err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	pace(ctx, host)

	_, dc := m.Device()
	if err := playOpts.queue(m, entries, dc.Channels, float32(cfg.Engine.GeneralVolume)); err != nil {
		return err
	}
	if err := m.Play(); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}

	var timeout <-chan time.Time
	if playOpts.repeats > 0 {
		// a little slack for the device buffer to drain
		timeout = time.After(playTime(entries, playOpts.repeats) + 250*time.Millisecond)
	}

	select {
	case <-timeout:
		if err := m.Close(); err != nil {
			slog.Warn("close command not delivered", "err", err)
			stop()
		}
		err = <-done
	case err = <-done:
	}

	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(cmd.ErrOrStderr(), "\nInterrupted, shutting down")
		return nil
	}

	return err
}

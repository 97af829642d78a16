// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/loader"
	"github.com/ik5/audmix/sample"
	"github.com/ik5/audmix/utils"
)

var (
	renderOpts     playFlags
	renderOutput   string
	renderRate     int
	renderChannels int
	renderLength   time.Duration
)

// renderCmd mixes files offline into a WAV file
var renderCmd = &cobra.Command{
	Use:   "render -o OUT.wav FILE|DIR...",
	Short: "Mix audio files into a WAV file",
	Long: `Mix audio files offline, as fast as possible, and write the result as
16-bit WAV. An output of "-" writes to standard output.

The mix lasts as long as the longest track unless --length is given. A
track that loops forever needs --length.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	renderOpts.register(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output WAV file, or - for stdout")
	renderCmd.Flags().IntVar(&renderRate, "rate", 0, "output sample rate (default device.sample_rate)")
	renderCmd.Flags().IntVar(&renderChannels, "out-channels", 0, "output channel count (default device.channels)")
	renderCmd.Flags().DurationVarP(&renderLength, "length", "l", 0, "mix length (default longest track)")
	renderCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, closer, err := setup()
	if err != nil {
		return err
	}
	defer closer.Close()

	dc := cfg.DeviceConfig()
	dc.Format = sample.F32
	if renderRate > 0 {
		dc.SampleRate = uint32(renderRate)
	}
	if renderChannels > 0 {
		dc.Channels = renderChannels
	}

	length := renderLength
	if length <= 0 && renderOpts.repeats == 0 {
		return errors.New("a looping mix needs --length")
	}

	entries, err := loadTracks(loader.New(cfg.LoaderOptions(slog.Default())), args)
	if err != nil {
		return err
	}
	if len(entries) > cfg.Engine.Slots {
		return fmt.Errorf("%d tracks do not fit in %d slots", len(entries), cfg.Engine.Slots)
	}
	if length <= 0 {
		length = playTime(entries, renderOpts.repeats)
	}

	m, err := audmix.NewOffline(audmix.Options{
		Engine:    cfg.EngineOptions(),
		QueueSize: cfg.Engine.QueueSize,
	}, dc)
	if err != nil {
		return err
	}
	if err := m.Start(); err != nil {
		return err
	}
	if err := m.Play(); err != nil {
		return fmt.Errorf("failed to start rendering: %w", err)
	}

	if err := renderOpts.queue(m, entries, dc.Channels, float32(cfg.Engine.GeneralVolume)); err != nil {
		return err
	}

	frames := int(length.Seconds() * float64(dc.SampleRate))
	slog.Info("rendering", "frames", frames, "length", length, "config", dc.String())

	if renderOutput == "-" {
		return renderPipe(m, dc, frames)
	}

	return renderFile(m, dc, frames, renderOutput)
}

// renderFile streams the mix into a seekable file.
func renderFile(m *audmix.Mixer, dc device.Config, frames int, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := wav.NewWriter(f, int(dc.SampleRate), dc.Channels)
	if err != nil {
		return err
	}
	if err := m.Render(frames, w.Write); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finishing %s: %w", path, err)
	}

	return f.Close()
}

// renderPipe buffers the whole mix, since the WAV header needs its size.
func renderPipe(m *audmix.Mixer, dc device.Config, frames int) error {
	pcm := make([]int16, 0, frames*dc.Channels)
	err := m.Render(frames, func(p []float32) error {
		for _, v := range p {
			pcm = append(pcm, utils.Float32ToInt16(v))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	return wav.WriteWAV16(os.Stdout, int(dc.SampleRate), dc.Channels, pcm)
}

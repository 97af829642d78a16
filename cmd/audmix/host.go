// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/device/miniaudio"
	"github.com/ik5/audmix/device/null"
	"github.com/ik5/audmix/device/oto"
	"github.com/ik5/audmix/internal/config"
	"github.com/ik5/audmix/loader"
)

// openHost creates the configured output backend.
func openHost(cfg *config.Config, log *slog.Logger) (device.Host, error) {
	dc := cfg.DeviceConfig()

	switch cfg.Device.Backend {
	case config.BackendMiniaudio:
		h, err := miniaudio.New(miniaudio.Options{PeriodFrames: dc.PeriodFrames, Logger: log})
		if err != nil {
			return nil, err
		}
		return h, nil
	case config.BackendOto:
		return oto.New(dc), nil
	case config.BackendNull:
		return null.New(dc), nil
	}

	return nil, fmt.Errorf("unknown backend %q", cfg.Device.Backend)
}

// pace drives a null host in real time; other hosts have their own clock.
func pace(ctx context.Context, h device.Host) {
	if n, ok := h.(*null.Host); ok {
		if s := n.Active(); s != nil {
			go s.Run(ctx)
		}
	}
}

// loadTracks loads every file and every supported file in every
// directory named in paths. Directory entries that fail are logged and
// skipped.
func loadTracks(l *loader.Loader, paths []string) ([]loader.Entry, error) {
	var out []loader.Entry

	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}

		if fi.IsDir() {
			entries, err := l.LoadDir(p)
			if err != nil {
				slog.Warn("some files were skipped", "dir", p, "err", err)
			}
			out = append(out, entries...)
			continue
		}

		t, err := l.LoadFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, loader.Entry{Name: p, Path: p, Track: t})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no playable tracks in %v", paths)
	}

	return out, nil
}

// playTime is how long the longest track takes when played repeats times.
func playTime(entries []loader.Entry, repeats uint32) time.Duration {
	var d time.Duration
	for _, e := range entries {
		d = max(d, e.Track.Duration())
	}

	return d * time.Duration(repeats)
}

// allChannels returns 0..n-1.
func allChannels(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}

// SPDX-License-Identifier: EPL-2.0

package loader_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/loader"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func writeWAV(t *testing.T, path string, rate, chans, frames int) {
	t.Helper()

	samples := make([]int16, frames*chans)
	for i := range samples {
		samples[i] = 8192
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := wav.WriteWAV16(f, rate, chans, samples); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	want := []string{"aif", "aiff", "flac", "mp3", "oga", "ogg", "wav", "wave"}
	got := loader.DefaultRegistry().Formats()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}

func TestLoader_LoadFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		target  int
		quality audio.Quality
		rate    uint32
		length  int
	}{
		{name: "native rate", target: 0, rate: 8000, length: 800},
		{name: "cubic to 16k", target: 16000, quality: audio.QualityCubic, rate: 16000, length: 1600},
		{name: "sinc to 16k", target: 16000, quality: audio.QualitySinc, rate: 16000, length: 1600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "tone.WAV")
			writeWAV(t, path, 8000, 2, 800)

			l := loader.New(loader.Options{TargetRate: tt.target, Quality: tt.quality, Logger: quiet})
			tr, err := l.LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile(): %v", err)
			}
			if tr.SampleRate != tt.rate || tr.Len() != tt.length {
				t.Errorf("track = %d samples at %d Hz, want %d at %d", tr.Len(), tr.SampleRate, tt.length, tt.rate)
			}
			if tt.quality == audio.QualityCubic && tr.Samples[10] != 0.25 {
				t.Errorf("sample = %v, want 0.25", tr.Samples[10])
			}
		})
	}
}

func TestLoader_Unsupported(t *testing.T) {
	t.Parallel()

	l := loader.New(loader.Options{Logger: quiet})

	if _, err := l.LoadFile("song.xm"); !errors.Is(err, loader.ErrUnsupportedFormat) {
		t.Errorf("LoadFile(xm) = %v", err)
	}
	if _, err := l.Load("midi", bytes.NewReader(nil)); !errors.Is(err, loader.ErrUnsupportedFormat) {
		t.Errorf("Load(midi) = %v", err)
	}
	if _, err := l.LoadFile(filepath.Join(t.TempDir(), "missing.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFile(missing) = %v", err)
	}
}

func TestLoader_LoadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "b.wav"), 8000, 1, 10)
	writeWAV(t, filepath.Join(dir, "a.wav"), 8000, 1, 20)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o600)
	os.WriteFile(filepath.Join(dir, "broken.wav"), []byte("not a wav"), 0o600)
	os.Mkdir(filepath.Join(dir, "sub.wav"), 0o700)

	entries, err := loader.New(loader.Options{Logger: quiet}).LoadDir(dir)
	if !errors.Is(err, wav.ErrNotWavFile) {
		t.Errorf("LoadDir() error = %v, want the broken file reported", err)
	}
	if len(entries) != 2 {
		t.Fatalf("LoadDir() = %d entries, want 2", len(entries))
	}
	if entries[0].Name != "a" || entries[0].Track.Len() != 20 || entries[1].Name != "b" {
		t.Errorf("entries = %+v", entries)
	}
}

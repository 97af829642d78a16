// SPDX-License-Identifier: EPL-2.0

// Package loader decodes audio files into mixer tracks. It picks a decoder
// by file extension and converts the result to mono at the output rate.
package loader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/aiff"
	"github.com/ik5/audmix/formats/flac"
	"github.com/ik5/audmix/formats/mp3"
	"github.com/ik5/audmix/formats/vorbis"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/track"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// DefaultRegistry returns a registry with every built-in decoder under its
// usual extensions.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	for _, ext := range []string{"wav", "wave"} {
		r.Register(ext, wav.Decoder{})
	}
	for _, ext := range []string{"aif", "aiff"} {
		r.Register(ext, aiff.Decoder{})
	}
	for _, ext := range []string{"ogg", "oga"} {
		r.Register(ext, vorbis.Decoder{})
	}
	r.Register("mp3", mp3.Decoder{})
	r.Register("flac", flac.Decoder{})

	return r
}

// Options configures a Loader.
type Options struct {
	// TargetRate is the track sample rate; 0 keeps each file's rate.
	TargetRate int
	Quality    audio.Quality
	// Registry defaults to DefaultRegistry.
	Registry *audio.Registry
	Logger   *slog.Logger
}

type Loader struct {
	reg     *audio.Registry
	rate    int
	quality audio.Quality
	log     *slog.Logger
}

func New(opts Options) *Loader {
	if opts.Registry == nil {
		opts.Registry = DefaultRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Loader{
		reg:     opts.Registry,
		rate:    opts.TargetRate,
		quality: opts.Quality,
		log:     opts.Logger.With("component", "loader"),
	}
}

// Supports reports whether path has a registered extension.
func (l *Loader) Supports(path string) bool {
	_, ok := l.reg.Get(filepath.Ext(path))
	return ok
}

// Load decodes r as format, a registry key such as "wav".
func (l *Loader) Load(format string, r io.Reader) (track.Track, error) {
	dec, ok := l.reg.Get(format)
	if !ok {
		return track.Track{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	src, err := dec.Decode(r)
	if err != nil {
		return track.Track{}, fmt.Errorf("decoding %s: %w", format, err)
	}
	defer src.Close()

	return audio.ToTrack(src, l.rate, l.quality)
}

// LoadFile decodes the file at path, choosing the decoder by extension.
func (l *Loader) LoadFile(path string) (track.Track, error) {
	ext := filepath.Ext(path)
	if !l.Supports(path) {
		return track.Track{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return track.Track{}, err
	}
	defer f.Close()

	t, err := l.Load(ext, f)
	if err != nil {
		return track.Track{}, fmt.Errorf("%s: %w", path, err)
	}

	l.log.Debug("loaded track", "path", path, "samples", t.Len(), "rate", t.SampleRate, "duration", t.Duration())

	return t, nil
}

// Entry is one file loaded by LoadDir.
type Entry struct {
	Name  string
	Path  string
	Track track.Track
}

// LoadDir loads every supported file directly inside dir, sorted by name.
// Files that fail to decode are skipped and their errors joined into the
// returned error alongside the entries that loaded.
func (l *Loader) LoadDir(dir string) ([]Entry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var (
		out  []Entry
		errs []error
	)
	for _, it := range items {
		if it.IsDir() || !l.Supports(it.Name()) {
			continue
		}

		path := filepath.Join(dir, it.Name())
		t, err := l.LoadFile(path)
		if err != nil {
			l.log.Warn("skipping file", "path", path, "err", err)
			errs = append(errs, err)
			continue
		}

		name := strings.TrimSuffix(it.Name(), filepath.Ext(it.Name()))
		out = append(out, Entry{Name: name, Path: path, Track: t})
	}

	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Path, b.Path) })

	return out, errors.Join(errs...)
}

// SPDX-License-Identifier: EPL-2.0

// Package config loads audmix settings from defaults, a YAML file, the
// environment and bound command line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/command"
	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/engine"
	"github.com/ik5/audmix/internal/logger"
	"github.com/ik5/audmix/loader"
	"github.com/ik5/audmix/playback"
	"github.com/ik5/audmix/sample"
)

// Output backends accepted in device.backend.
const (
	BackendMiniaudio = "miniaudio"
	BackendOto       = "oto"
	BackendNull      = "null"
)

// Backends lists the valid device.backend values.
var Backends = []string{BackendMiniaudio, BackendOto, BackendNull}

// Config holds all configuration for the application.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Device  DeviceConfig  `mapstructure:"device"`
	Loader  LoaderConfig  `mapstructure:"loader"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// EngineConfig sizes the mixer.
type EngineConfig struct {
	Slots            int     `mapstructure:"slots"`
	PlaylistCapacity int     `mapstructure:"playlist_capacity"`
	QueueSize        int     `mapstructure:"queue_size"`
	GeneralVolume    float64 `mapstructure:"general_volume"`
	Interpolation    string  `mapstructure:"interpolation"`
}

// DeviceConfig selects the output backend and its preferred format.
type DeviceConfig struct {
	Backend string `mapstructure:"backend"`
	// ID picks an output device; empty means the default device.
	ID         string `mapstructure:"id"`
	SampleRate int    `mapstructure:"sample_rate"`
	Channels   int    `mapstructure:"channels"`
	Format     string `mapstructure:"format"`
	PeriodMS   int    `mapstructure:"period_ms"`
}

// LoaderConfig controls how files become tracks.
type LoaderConfig struct {
	TargetRate      int    `mapstructure:"target_rate"`
	ResampleQuality string `mapstructure:"resample_quality"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
	File   string `mapstructure:"file"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("engine.slots", engine.DefaultSlots)
	v.SetDefault("engine.playlist_capacity", engine.DefaultPlaylistCapacity)
	v.SetDefault("engine.queue_size", command.DefaultSize)
	v.SetDefault("engine.general_volume", 1.0)
	v.SetDefault("engine.interpolation", "linear")

	v.SetDefault("device.backend", BackendMiniaudio)
	v.SetDefault("device.id", "")
	v.SetDefault("device.sample_rate", engine.DefaultSampleRate)
	v.SetDefault("device.channels", engine.DefaultChannels)
	v.SetDefault("device.format", "f32")
	v.SetDefault("device.period_ms", 10)

	v.SetDefault("loader.target_rate", 0)
	v.SetDefault("loader.resample_quality", "cubic")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
}

// Load reads configuration into a Config. A missing config file is not an
// error; defaults and AUDMIX_* environment variables still apply.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	v.SetConfigName("audmix")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.audmix")
	v.AddConfigPath("/etc/audmix")

	v.SetEnvPrefix("AUDMIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Debug("No config file found, using defaults and environment variables")
	} else {
		slog.Debug("Using config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return &cfg, nil
}

// Validate checks every field and reports the first bad one.
func (c *Config) Validate() error {
	switch {
	case c.Engine.Slots < 1:
		return &ConfigError{Field: "engine.slots", Message: "must be at least 1"}
	case c.Engine.PlaylistCapacity < 1:
		return &ConfigError{Field: "engine.playlist_capacity", Message: "must be at least 1"}
	case c.Engine.QueueSize < 1:
		return &ConfigError{Field: "engine.queue_size", Message: "must be at least 1"}
	case c.Engine.GeneralVolume < 0:
		return &ConfigError{Field: "engine.general_volume", Message: "must not be negative"}
	}
	if _, err := playback.ParseInterpolation(c.Engine.Interpolation); err != nil {
		return &ConfigError{Field: "engine.interpolation", Message: err.Error()}
	}

	if !slices.Contains(Backends, c.Device.Backend) {
		return &ConfigError{Field: "device.backend", Message: fmt.Sprintf("must be one of %v", Backends)}
	}
	switch {
	case c.Device.SampleRate < 1:
		return &ConfigError{Field: "device.sample_rate", Message: "must be positive"}
	case c.Device.Channels < 1:
		return &ConfigError{Field: "device.channels", Message: "must be at least 1"}
	case c.Device.PeriodMS < 0:
		return &ConfigError{Field: "device.period_ms", Message: "must not be negative"}
	}
	if _, err := sample.ParseFormat(c.Device.Format); err != nil {
		return &ConfigError{Field: "device.format", Message: err.Error()}
	}

	if c.Loader.TargetRate < 0 {
		return &ConfigError{Field: "loader.target_rate", Message: "must not be negative"}
	}
	if _, err := audio.ParseQuality(c.Loader.ResampleQuality); err != nil {
		return &ConfigError{Field: "loader.resample_quality", Message: err.Error()}
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return &ConfigError{Field: "logging.level", Message: err.Error()}
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return &ConfigError{Field: "logging.format", Message: "must be text or json"}
	}

	return nil
}

// EngineOptions converts the engine and device sections. Call Validate
// first; unparsable names fall back to the defaults.
func (c *Config) EngineOptions() engine.Options {
	interp, _ := playback.ParseInterpolation(c.Engine.Interpolation)
	dev := c.DeviceConfig()

	return engine.Options{
		Slots:            c.Engine.Slots,
		PlaylistCapacity: c.Engine.PlaylistCapacity,
		SampleRate:       dev.SampleRate,
		Channels:         dev.Channels,
		Interpolation:    interp,
	}
}

// DeviceConfig returns the preferred stream format. The period is
// converted from milliseconds to frames at the configured rate.
func (c *Config) DeviceConfig() device.Config {
	format, _ := sample.ParseFormat(c.Device.Format)

	return device.Config{
		SampleRate:   uint32(max(c.Device.SampleRate, 0)),
		Channels:     c.Device.Channels,
		Format:       format,
		PeriodFrames: max(c.Device.PeriodMS, 0) * max(c.Device.SampleRate, 0) / 1000,
	}
}

// LoaderOptions converts the loader section.
func (c *Config) LoaderOptions(log *slog.Logger) loader.Options {
	q, _ := audio.ParseQuality(c.Loader.ResampleQuality)

	return loader.Options{
		TargetRate: c.Loader.TargetRate,
		Quality:    q,
		Logger:     log,
	}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ik5/audmix/internal/config"
	"github.com/ik5/audmix/internal/logger"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  "Commands for showing and validating audmix configuration.",
}

// configValidateCmd validates the current configuration
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  "Validate the current configuration file, environment variables and flags.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := logger.Setup("info", "text", ""); err != nil {
			return fmt.Errorf("failed to setup logging: %w", err)
		}

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if err := cfg.Validate(); err != nil {
			slog.Error("Configuration validation failed", slog.Any("error", err))
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
		return nil
	},
}

// configShowCmd shows the current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the configuration values after defaults, file, environment and flags are merged.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := logger.Setup("info", "text", ""); err != nil {
			return fmt.Errorf("failed to setup logging: %w", err)
		}

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Current Configuration:")
		if f := viper.ConfigFileUsed(); f != "" {
			fmt.Fprintf(out, "  File: %s\n", f)
		}
		fmt.Fprintf(out, "  Engine:\n")
		fmt.Fprintf(out, "    Slots: %d\n", cfg.Engine.Slots)
		fmt.Fprintf(out, "    Playlist capacity: %d\n", cfg.Engine.PlaylistCapacity)
		fmt.Fprintf(out, "    Queue size: %d\n", cfg.Engine.QueueSize)
		fmt.Fprintf(out, "    General volume: %g\n", cfg.Engine.GeneralVolume)
		fmt.Fprintf(out, "    Interpolation: %s\n", cfg.Engine.Interpolation)
		fmt.Fprintf(out, "  Device:\n")
		fmt.Fprintf(out, "    Backend: %s\n", cfg.Device.Backend)
		fmt.Fprintf(out, "    ID: %s\n", orDefault(cfg.Device.ID))
		fmt.Fprintf(out, "    Format: %d Hz, %d ch, %s\n", cfg.Device.SampleRate, cfg.Device.Channels, cfg.Device.Format)
		fmt.Fprintf(out, "    Period: %d ms\n", cfg.Device.PeriodMS)
		fmt.Fprintf(out, "  Loader:\n")
		fmt.Fprintf(out, "    Target rate: %s\n", rateOrNative(cfg.Loader.TargetRate))
		fmt.Fprintf(out, "    Resample quality: %s\n", cfg.Loader.ResampleQuality)
		fmt.Fprintf(out, "  Logging:\n")
		fmt.Fprintf(out, "    Level: %s\n", cfg.Logging.Level)
		fmt.Fprintf(out, "    Format: %s\n", cfg.Logging.Format)
		fmt.Fprintf(out, "    File: %s\n", orDefault(cfg.Logging.File))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}

func rateOrNative(rate int) string {
	if rate == 0 {
		return "native"
	}
	return fmt.Sprintf("%d Hz", rate)
}

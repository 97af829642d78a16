// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// devicesCmd lists the output devices of the configured backend
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List output devices",
	Long:  "List the output devices of the configured backend with their default formats.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closer, err := setup()
		if err != nil {
			return err
		}
		defer closer.Close()

		host, err := openHost(cfg, slog.Default())
		if err != nil {
			return err
		}
		defer host.Close()

		infos, err := host.OutputDevices()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s output devices:\n", host.Name())
		for _, info := range infos {
			mark := " "
			if info.Default {
				mark = "*"
			}

			format := "unavailable"
			if dc, err := host.DefaultOutputConfig(info.ID); err == nil {
				format = dc.String()
			} else {
				slog.Debug("probing device", "device", info.Name, "err", err)
			}
			fmt.Fprintf(out, "%s %s\t%s\t%s\n", mark, info.ID, info.Name, format)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

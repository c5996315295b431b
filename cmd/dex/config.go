package main

import (
	"fmt"

	"github.com/Sternrassler/dex-explorer/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := opts.config.Render(config.Format(format))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	show.Flags().StringVarP(&format, "format", "f", string(config.FormatYAML), "output format (yaml, toml)")

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file := opts.viper.ConfigFileUsed()
			if file == "" {
				file = "(none, using defaults)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), file)
			return nil
		},
	}

	cmd.AddCommand(show, path)
	return cmd
}

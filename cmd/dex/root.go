package main

import (
	"github.com/Sternrassler/dex-explorer/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// options is the state shared by all subcommands.
type options struct {
	configFile string
	viper      *viper.Viper
	config     config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "dex",
		Short:         "Browse the species catalog",
		Long:          "dex assembles the species catalog, merges alternate forms with their base entry, and lets you search, filter, sort and page through it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default dex.yaml or dex.toml)")
	flags.String("log-level", "", "log level (debug, info, warn, error, disabled)")
	flags.Bool("log-pretty", false, "human-readable log output")
	flags.String("api-url", "", "API base URL")
	flags.String("prefs", "", "preference backend (sqlite, redis, memory)")

	root.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newTypesCmd(opts),
		newGenerationCmd(opts),
		newThemeCmd(opts),
		newServeCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// flagKeys maps persistent flags to config keys.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-pretty": "log.pretty",
	"api-url":    "api.base_url",
	"prefs":      "prefs.backend",
}

func (o *options) load(cmd *cobra.Command) error {
	v, err := config.New(o.configFile)
	if err != nil {
		return err
	}
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	o.viper = v
	o.config = cfg
	return nil
}

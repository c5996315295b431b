package main

import (
	"fmt"

	"github.com/Sternrassler/dex-explorer/pkg/state"
	"github.com/spf13/cobra"
)

func newThemeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light|toggle]",
		Short:     "Show or change the persisted color theme",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{state.ThemeDark, state.ThemeLight, "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts.config)
			if err != nil {
				return err
			}
			defer a.Close()

			store, err := a.store(ctx)
			if err != nil {
				return err
			}

			current := store.State().DarkMode
			if len(args) == 1 {
				want := !current
				if args[0] != "toggle" {
					want = args[0] == state.ThemeDark
				}
				if want != current {
					s, err := store.Dispatch(ctx, state.ToggleDarkMode{})
					if err != nil {
						return fmt.Errorf("save theme: %w", err)
					}
					current = s.DarkMode
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), themeName(current))
			return nil
		},
	}
}

func themeName(dark bool) string {
	if dark {
		return state.ThemeDark
	}
	return state.ThemeLight
}

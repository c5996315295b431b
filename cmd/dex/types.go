package main

import (
	"fmt"
	"strings"

	"github.com/Sternrassler/dex-explorer/pkg/format"
	"github.com/spf13/cobra"
)

func newTypesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "types [type]",
		Short: "List the type categories, or the members of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts.config)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				categories, err := a.client.FetchCategories(ctx)
				if err != nil {
					return err
				}
				for _, c := range categories {
					fmt.Fprintf(out, "%-10s %s\n", c, format.TypeColor(c))
				}
				return nil
			}

			members, err := a.client.FetchCategoryMembers(ctx, strings.ToLower(args[0]))
			if err != nil {
				return err
			}
			for _, m := range members {
				fmt.Fprintln(out, m)
			}
			return nil
		},
	}
}

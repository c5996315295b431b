package main

import (
	"fmt"
	"strconv"

	"github.com/Sternrassler/dex-explorer/pkg/query"
	"github.com/spf13/cobra"
)

func newGenerationCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "generation <n>",
		Aliases: []string{"gen"},
		Short:   "List the species introduced in a generation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid generation %q", args[0])
			}
			r, ok := query.GenerationRange(n)
			if !ok {
				return fmt.Errorf("generation must be between 1 and %d", query.Generations())
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, opts.config)
			if err != nil {
				return err
			}
			defer a.Close()

			names, err := a.client.FetchGeneration(ctx, n)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generation %d (ids %d-%d, %d species)\n", n, r.Min, r.Max, len(names))
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Sternrassler/dex-explorer/pkg/client"
	"github.com/Sternrassler/dex-explorer/pkg/format"
	"github.com/Sternrassler/dex-explorer/pkg/lineage"
	"github.com/spf13/cobra"
)

func newShowCmd(opts *options) *cobra.Command {
	var moves int

	cmd := &cobra.Command{
		Use:   "show <name-or-id>",
		Short: "Show one entry with stats and lineage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), cmd.OutOrStdout(), opts, strings.ToLower(args[0]), moves)
		},
	}
	cmd.Flags().IntVar(&moves, "moves", 10, "number of moves to list (0 for none)")
	return cmd
}

func runShow(ctx context.Context, out io.Writer, opts *options, name string, moves int) error {
	a, err := newApp(ctx, opts.config)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.client.FetchDetail(ctx, name)
	if client.IsNotFound(err) {
		return fmt.Errorf("%q not found", name)
	}
	if err != nil {
		return err
	}

	root, err := a.client.FetchLineage(ctx, p.SpeciesID())
	if err != nil {
		a.logger.Warn().Err(err).Str("name", name).Msg("Lineage fetch failed")
	}

	printDetail(out, p, root, moves)
	return nil
}

func printDetail(w io.Writer, p *client.Pokemon, root *lineage.Node, moves int) {
	fmt.Fprintf(w, "#%d %s\n", p.ID, format.Name(p.Name))
	fmt.Fprintf(w, "Types:   %s\n", strings.Join(p.Types, ", "))
	fmt.Fprintf(w, "Height:  %.1f m\n", float64(p.Height)/10)
	fmt.Fprintf(w, "Weight:  %.1f kg\n", float64(p.Weight)/10)

	if len(p.Abilities) > 0 {
		names := make([]string, len(p.Abilities))
		for i, ab := range p.Abilities {
			names[i] = ab.Name
			if ab.Hidden {
				names[i] += " (hidden)"
			}
		}
		fmt.Fprintf(w, "Ability: %s\n", strings.Join(names, ", "))
	}

	fmt.Fprintln(w, "\nStats")
	for _, s := range p.Stats {
		fmt.Fprintf(w, "  %-6s %3d\n", format.StatLabel(s.Name), s.Value)
	}
	fmt.Fprintf(w, "  %-6s %3d\n", "Total", p.StatTotal())

	if steps := lineage.Flatten(root); len(steps) > 1 {
		fmt.Fprintln(w, "\nLineage")
		for _, step := range steps {
			fmt.Fprintf(w, "  %s%s%s\n", strings.Repeat("  ", step.Depth), format.Name(step.Node.Species), transition(step.Node.Transition))
		}
	}

	if moves > 0 && len(p.Moves) > 0 {
		fmt.Fprintln(w, "\nMoves")
		for i, m := range p.Moves {
			if i == moves {
				fmt.Fprintf(w, "  ... and %d more\n", len(p.Moves)-moves)
				break
			}
			fmt.Fprintf(w, "  %s\n", m.Name)
		}
	}
}

func transition(t *lineage.Transition) string {
	if t == nil {
		return ""
	}
	switch {
	case t.MinLevel != nil:
		return fmt.Sprintf(" (level %d)", *t.MinLevel)
	case t.Item != "":
		return fmt.Sprintf(" (%s)", t.Item)
	case t.Trigger != "":
		return fmt.Sprintf(" (%s)", t.Trigger)
	}
	return ""
}

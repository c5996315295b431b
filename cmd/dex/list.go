package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Sternrassler/dex-explorer/pkg/client"
	"github.com/Sternrassler/dex-explorer/pkg/format"
	"github.com/Sternrassler/dex-explorer/pkg/query"
	"github.com/Sternrassler/dex-explorer/pkg/state"
	"github.com/spf13/cobra"
)

type listFlags struct {
	search     string
	types      []string
	generation int
	minTotal   int
	maxTotal   int
	sort       string
	page       int
	asJSON     bool
}

func newListCmd(opts *options) *cobra.Command {
	f := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search, filter, sort and page through the catalog",
		Example: `  dex list --type fire --type flying --sort bst-desc
  dex list --search chu --gen 1 --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), cmd, opts, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.search, "search", "s", "", "case-insensitive name substring")
	flags.StringSliceVarP(&f.types, "type", "t", nil, "required type (repeatable, all must match)")
	flags.IntVarP(&f.generation, "gen", "g", 0, "generation 1-9")
	flags.IntVar(&f.minTotal, "min-total", query.DefaultMinTotal, "minimum stat total")
	flags.IntVar(&f.maxTotal, "max-total", query.DefaultMaxTotal, "maximum stat total")
	flags.StringVar(&f.sort, "sort", string(query.SortIDAsc), "sort key: "+sortKeyList())
	flags.IntVarP(&f.page, "page", "p", 1, "page number")
	flags.BoolVar(&f.asJSON, "json", false, "print the page as JSON")
	return cmd
}

func sortKeyList() string {
	keys := make([]string, len(query.SortKeys))
	for i, k := range query.SortKeys {
		keys[i] = string(k)
	}
	return strings.Join(keys, ", ")
}

// actions translates flags into store actions, in the order a user would
// apply them interactively.
func (f *listFlags) actions() ([]state.Action, error) {
	key, err := query.ParseSortKey(f.sort)
	if err != nil {
		return nil, err
	}

	actions := []state.Action{state.SetSearch{Query: f.search}}
	for _, t := range f.types {
		actions = append(actions, state.ToggleType{Type: strings.ToLower(t)})
	}
	actions = append(actions,
		state.SetGeneration{Generation: f.generation},
		state.SetTotalRange{Min: f.minTotal, Max: f.maxTotal},
		state.SetSort{Key: key},
		state.SetPage{Page: f.page},
	)
	return actions, nil
}

func runList(ctx context.Context, cmd *cobra.Command, opts *options, f *listFlags) error {
	actions, err := f.actions()
	if err != nil {
		return err
	}

	a, err := newApp(ctx, opts.config)
	if err != nil {
		return err
	}
	defer a.Close()

	store := state.NewStore(ctx, nil)
	for _, action := range actions {
		if _, err := store.Dispatch(ctx, action); err != nil {
			return err
		}
	}
	criteria := store.Criteria()
	if err := criteria.Validate(); err != nil {
		return err
	}

	entities, err := a.catalog.Load(ctx)
	if err != nil {
		return fmt.Errorf("results unavailable: %w", err)
	}
	result := query.Run(entities, a.catalog.Index(), criteria)

	out := cmd.OutOrStdout()
	if f.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return printPage(out, result)
}

func printPage(w io.Writer, result query.Result) error {
	if result.Total == 0 {
		_, err := fmt.Fprintln(w, "No entries match the current filters.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPES\tTOTAL\tSPEED")
	for _, p := range result.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n",
			p.ID, format.Name(p.Name), strings.Join(p.Types, "/"), p.StatTotal(), p.Stat(client.StatSpeed))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\npage %d of %d (%d matches)\n", result.Page, result.Pages, result.Total)
	return err
}

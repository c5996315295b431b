// Package state holds the browser's current query selections and UI toggles.
//
// Every change is an Action applied by the pure function Reduce. Store wraps
// the current State for concurrent callers and persists the theme.
package state

import (
	"slices"

	"github.com/Sternrassler/dex-explorer/pkg/query"
)

// State is a snapshot of all selections. Treat it as a value: Reduce never
// modifies its input.
type State struct {
	Search     string        `json:"search"`
	Types      []string      `json:"types"`
	Generation int           `json:"generation"`
	MinTotal   int           `json:"min_total"`
	MaxTotal   int           `json:"max_total"`
	SortBy     query.SortKey `json:"sort_by"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	DarkMode   bool          `json:"dark_mode"`
}

// Initial returns the start-of-session state.
func Initial(darkMode bool) State {
	c := query.DefaultCriteria()
	return State{
		MinTotal: c.MinTotal,
		MaxTotal: c.MaxTotal,
		SortBy:   c.SortBy,
		Page:     1,
		PerPage:  c.PerPage,
		DarkMode: darkMode,
	}
}

// Criteria projects the state onto query criteria.
func (s State) Criteria() query.Criteria {
	return query.Criteria{
		Search:     s.Search,
		Types:      slices.Clone(s.Types),
		Generation: s.Generation,
		MinTotal:   s.MinTotal,
		MaxTotal:   s.MaxTotal,
		SortBy:     s.SortBy,
		Page:       s.Page,
		PerPage:    s.PerPage,
	}
}

func (s State) clone() State {
	s.Types = slices.Clone(s.Types)
	return s
}

// Action is a state transition understood by Reduce.
type Action interface {
	isAction()
}

// SetSearch replaces the free-text search.
type SetSearch struct{ Query string }

// ToggleType adds the type to the selection, or removes it when present.
type ToggleType struct{ Type string }

// ClearTypes empties the type selection.
type ClearTypes struct{}

// SetGeneration selects a generation; 0 clears the selection.
type SetGeneration struct{ Generation int }

// SetTotalRange sets the inclusive stat-total bounds.
type SetTotalRange struct{ Min, Max int }

// SetSort selects the sort key.
type SetSort struct{ Key query.SortKey }

// SetPage navigates to a 1-based page without touching filters.
type SetPage struct{ Page int }

// ToggleDarkMode flips the theme.
type ToggleDarkMode struct{}

// ResetFilters restores every filter and the sort to their defaults.
type ResetFilters struct{}

func (SetSearch) isAction()      {}
func (ToggleType) isAction()     {}
func (ClearTypes) isAction()     {}
func (SetGeneration) isAction()  {}
func (SetTotalRange) isAction()  {}
func (SetSort) isAction()        {}
func (SetPage) isAction()        {}
func (ToggleDarkMode) isAction() {}
func (ResetFilters) isAction()   {}

// Reduce returns the state after applying a. Filter and sort changes go back
// to page 1; SetPage and ToggleDarkMode keep the current page.
func Reduce(s State, a Action) State {
	next := s.clone()

	switch a := a.(type) {
	case SetSearch:
		next.Search = a.Query
		next.Page = 1
	case ToggleType:
		if i := slices.Index(next.Types, a.Type); i >= 0 {
			next.Types = slices.Delete(next.Types, i, i+1)
		} else {
			next.Types = append(next.Types, a.Type)
		}
		next.Page = 1
	case ClearTypes:
		next.Types = nil
		next.Page = 1
	case SetGeneration:
		next.Generation = a.Generation
		next.Page = 1
	case SetTotalRange:
		next.MinTotal, next.MaxTotal = a.Min, a.Max
		next.Page = 1
	case SetSort:
		next.SortBy = a.Key
		next.Page = 1
	case SetPage:
		next.Page = a.Page
	case ToggleDarkMode:
		next.DarkMode = !s.DarkMode
	case ResetFilters:
		next = Initial(s.DarkMode)
		next.PerPage = s.PerPage
	}
	return next
}

// Package query filters, sorts and pages the assembled catalog.
//
// Evaluation is a pure function of the collection, the variant index and
// the criteria. Nothing is cached between calls.
package query

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Defaults applied by DefaultCriteria.
const (
	DefaultPerPage  = 20
	DefaultMinTotal = 0
	DefaultMaxTotal = 800

	// MaxPage is the largest Page that Validate accepts.
	MaxPage = 1_000_000
)

// SortKey selects the primary sort field and direction.
type SortKey string

// Supported sort keys.
const (
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
	SortIDAsc     SortKey = "id-asc"
	SortIDDesc    SortKey = "id-desc"
	SortTotalAsc  SortKey = "bst-asc"
	SortTotalDesc SortKey = "bst-desc"
	SortSpeedAsc  SortKey = "speed-asc"
	SortSpeedDesc SortKey = "speed-desc"
)

// SortKeys lists every supported key in display order.
var SortKeys = []SortKey{
	SortIDAsc, SortIDDesc,
	SortNameAsc, SortNameDesc,
	SortTotalAsc, SortTotalDesc,
	SortSpeedAsc, SortSpeedDesc,
}

// ParseSortKey validates s as a sort key. Empty input yields SortIDAsc.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortIDAsc, nil
	}
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// field returns the key without its direction.
func (k SortKey) field() string {
	f, _, _ := strings.Cut(string(k), "-")
	return f
}

// descending reports whether the primary key sorts high to low.
func (k SortKey) descending() bool {
	return strings.HasSuffix(string(k), "-desc")
}

// IDRange is an inclusive id range.
type IDRange struct {
	Min int
	Max int
}

// Contains reports whether id lies within the range.
func (r IDRange) Contains(id int) bool {
	return id >= r.Min && id <= r.Max
}

// generations maps generation n to generations[n-1].
var generations = []IDRange{
	{1, 151},
	{152, 251},
	{252, 386},
	{387, 493},
	{494, 649},
	{650, 721},
	{722, 809},
	{810, 905},
	{906, 1025},
}

// Generations returns the number of known generations.
func Generations() int {
	return len(generations)
}

// GenerationRange returns the id range of generation n (1-based).
func GenerationRange(n int) (IDRange, bool) {
	if n < 1 || n > len(generations) {
		return IDRange{}, false
	}
	return generations[n-1], true
}

// Criteria is one query over the catalog.
type Criteria struct {
	// Search is a case-insensitive substring of the name.
	Search string `json:"search,omitempty"`

	// Types must all be present on a match.
	Types []string `json:"types,omitempty" validate:"dive,required"`

	// Generation restricts ids to a generation range; 0 disables it.
	Generation int `json:"generation,omitempty" validate:"gte=0,lte=9"`

	// MinTotal and MaxTotal bound the stat total, inclusive.
	MinTotal int `json:"min_total" validate:"gte=0"`
	MaxTotal int `json:"max_total" validate:"gtefield=MinTotal"`

	SortBy SortKey `json:"sort_by" validate:"oneof=name-asc name-desc id-asc id-desc bst-asc bst-desc speed-asc speed-desc"`

	// Page is 1-based.
	Page    int `json:"page" validate:"gte=1,lte=1000000"`
	PerPage int `json:"per_page" validate:"gte=1,lte=200"`
}

// DefaultCriteria returns the criteria of a fresh session.
func DefaultCriteria() Criteria {
	return Criteria{
		MinTotal: DefaultMinTotal,
		MaxTotal: DefaultMaxTotal,
		SortBy:   SortIDAsc,
		Page:     1,
		PerPage:  DefaultPerPage,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks criteria received from outside the process.
func (c Criteria) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid criteria: %w", err)
	}
	return nil
}

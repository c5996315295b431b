package query

import (
	"sort"
	"strings"

	"github.com/Sternrassler/dex-explorer/pkg/client"
	"github.com/Sternrassler/dex-explorer/pkg/variant"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Result is one evaluated page.
type Result struct {
	Items []*client.Pokemon `json:"items"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Pages int               `json:"pages"`
}

// Run filters, sorts and pages collection. idx must be built from the full
// collection, not a filtered subset, so cluster keys stay stable.
func Run(collection []*client.Pokemon, idx *variant.Index, c Criteria) Result {
	perPage := c.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	matched := Filter(collection, c)
	Sort(matched, idx, c.SortBy)

	return Result{
		Items: Paginate(matched, c.Page, perPage),
		Total: len(matched),
		Page:  c.Page,
		Pages: pageCount(len(matched), perPage),
	}
}

// Filter returns the entities passing every active filter, in input order.
func Filter(collection []*client.Pokemon, c Criteria) []*client.Pokemon {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	genRange, byGeneration := GenerationRange(c.Generation)

	matched := make([]*client.Pokemon, 0, len(collection))
	for _, p := range collection {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if byGeneration && !genRange.Contains(p.ID) {
			continue
		}
		if !hasAllTypes(p, c.Types) {
			continue
		}
		if total := p.StatTotal(); total < c.MinTotal || total > c.MaxTotal {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

func hasAllTypes(p *client.Pokemon, types []string) bool {
	for _, t := range types {
		if !p.HasType(t) {
			return false
		}
	}
	return true
}

// Sort orders items in place by key, then cluster, then variant rank, then
// id. Distinct ids never compare equal.
func Sort(items []*client.Pokemon, idx *variant.Index, key SortKey) {
	cmp := newComparator(idx, key)
	sort.SliceStable(items, func(i, j int) bool {
		return cmp.compare(items[i], items[j]) < 0
	})
}

type comparator struct {
	idx      *variant.Index
	field    string
	desc     bool
	collator *collate.Collator
}

func newComparator(idx *variant.Index, key SortKey) *comparator {
	if key == "" {
		key = SortIDAsc
	}
	return &comparator{
		idx:      idx,
		field:    key.field(),
		desc:     key.descending(),
		collator: collate.New(language.English),
	}
}

// compare returns a negative, zero or positive result.
func (c *comparator) compare(a, b *client.Pokemon) int {
	if r := c.primary(a, b); r != 0 {
		if c.desc {
			return -r
		}
		return r
	}
	if r := c.idx.BaseID(a) - c.idx.BaseID(b); r != 0 {
		return r
	}
	if r := variant.Rank(a.Name) - variant.Rank(b.Name); r != 0 {
		return r
	}
	return a.ID - b.ID
}

func (c *comparator) primary(a, b *client.Pokemon) int {
	switch c.field {
	case "name":
		return c.collator.CompareString(variant.StripSuffix(a.Name), variant.StripSuffix(b.Name))
	case "bst":
		return a.StatTotal() - b.StatTotal()
	case "speed":
		return a.Stat(client.StatSpeed) - b.Stat(client.StatSpeed)
	default:
		return c.idx.BaseID(a) - c.idx.BaseID(b)
	}
}

// Paginate returns the 1-based page of items. Pages outside the data yield
// an empty, non-nil slice; page is never clamped.
func Paginate(items []*client.Pokemon, page, perPage int) []*client.Pokemon {
	if page < 1 || perPage < 1 || page > pageCount(len(items), perPage) {
		return []*client.Pokemon{}
	}
	// page <= pageCount keeps start below len(items), so nothing overflows.
	start := (page - 1) * perPage
	end := start + min(perPage, len(items)-start)
	return items[start:end]
}

// pageCount returns the number of pages needed for n items.
func pageCount(n, perPage int) int {
	pages := n / perPage
	if n%perPage != 0 {
		pages++
	}
	return pages
}

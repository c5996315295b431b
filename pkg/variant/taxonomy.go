// Package variant clusters canonical entities with their alternate forms.
//
// A variant is recognised by a name suffix from Taxonomy. Stripping the
// longest matching suffix yields the entity's base identity; names without a
// recognised suffix fall back to the part before the first "-". Entities that
// share a base identity form one cluster.
package variant

import (
	"sort"
	"strings"
)

// Variant ranks. Lower ranks sort first within a cluster.
const (
	RankCanonical  = 0
	RankMega       = 1
	RankGigantamax = 2
	RankRegional   = 3
)

// Suffix is one recognised variant name suffix.
type Suffix struct {
	Pattern string
	Rank    int
}

// Taxonomy lists every recognised suffix.
var Taxonomy = []Suffix{
	{"-mega-x", RankMega},
	{"-mega-y", RankMega},
	{"-mega", RankMega},
	{"-gmax", RankGigantamax},
	{"-gigantamax", RankGigantamax},
	{"-alola", RankRegional},
	{"-galar", RankRegional},
	{"-hisui", RankRegional},
	{"-paldea", RankRegional},
}

// longestFirst is Taxonomy ordered by descending pattern length, so the
// first match in a scan is always the longest one.
var longestFirst = func() []Suffix {
	s := append([]Suffix(nil), Taxonomy...)
	sort.SliceStable(s, func(i, j int) bool { return len(s[i].Pattern) > len(s[j].Pattern) })
	return s
}()

// Match returns the longest recognised suffix of name.
func Match(name string) (Suffix, bool) {
	name = strings.ToLower(name)
	for _, s := range longestFirst {
		if len(name) > len(s.Pattern) && strings.HasSuffix(name, s.Pattern) {
			return s, true
		}
	}
	return Suffix{}, false
}

// HasSuffix reports whether name carries a recognised variant suffix.
func HasSuffix(name string) bool {
	_, ok := Match(name)
	return ok
}

// Rank returns the variant rank of name; RankCanonical when unrecognised.
func Rank(name string) int {
	if s, ok := Match(name); ok {
		return s.Rank
	}
	return RankCanonical
}

// BaseIdentity returns the clustering key for name.
func BaseIdentity(name string) string {
	name = strings.ToLower(name)
	if s, ok := Match(name); ok {
		return name[:len(name)-len(s.Pattern)]
	}
	if i := strings.IndexByte(name, '-'); i > 0 {
		return name[:i]
	}
	return name
}

// StripSuffix removes the recognised variant suffix from name, if any.
// Unlike BaseIdentity it never falls back to the first name segment.
func StripSuffix(name string) string {
	name = strings.ToLower(name)
	if s, ok := Match(name); ok {
		return name[:len(name)-len(s.Pattern)]
	}
	return name
}

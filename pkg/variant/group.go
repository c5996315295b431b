package variant

import (
	"sort"

	"github.com/Sternrassler/dex-explorer/pkg/client"
)

// cluster is the set of entities sharing one base identity.
type cluster struct {
	base    string
	key     int
	members []*client.Pokemon
}

// clusters buckets entities by base identity and orders buckets and members.
func clusters(entities []*client.Pokemon) []*cluster {
	byBase := make(map[string]*cluster)
	order := make([]*cluster, 0)

	for _, p := range entities {
		if p == nil {
			continue
		}
		base := BaseIdentity(p.Name)
		c, ok := byBase[base]
		if !ok {
			c = &cluster{base: base}
			byBase[base] = c
			order = append(order, c)
		}
		c.members = append(c.members, p)
	}

	for _, c := range order {
		sortMembers(c.members)
		c.key = clusterKey(c.members)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].key != order[j].key {
			return order[i].key < order[j].key
		}
		return order[i].base < order[j].base
	})
	return order
}

// sortMembers puts non-suffixed entities first by id, then suffixed ones by
// rank and id.
func sortMembers(members []*client.Pokemon) {
	sort.SliceStable(members, func(i, j int) bool {
		a, b := members[i], members[j]
		sa, aok := Match(a.Name)
		sb, bok := Match(b.Name)
		if aok != bok {
			return !aok
		}
		if aok && sa.Rank != sb.Rank {
			return sa.Rank < sb.Rank
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.Name < b.Name
	})
}

// clusterKey is the minimum id among canonical members, or among all members
// when the cluster has no canonical one. members must already be sorted.
func clusterKey(members []*client.Pokemon) int {
	if !HasSuffix(members[0].Name) {
		return members[0].ID
	}
	key := members[0].ID
	for _, p := range members[1:] {
		key = min(key, p.ID)
	}
	return key
}

// Group returns entities ordered cluster by cluster. The result depends only
// on the input multiset, not its order, and Group(Group(xs)) equals Group(xs).
func Group(entities []*client.Pokemon) []*client.Pokemon {
	ordered := make([]*client.Pokemon, 0, len(entities))
	for _, c := range clusters(entities) {
		ordered = append(ordered, c.members...)
	}
	return ordered
}

// Index resolves names to their cluster over a full collection. The query
// engine uses it so sorting agrees with grouping.
type Index struct {
	keys map[string]int
}

// NewIndex builds an index over the complete collection.
func NewIndex(entities []*client.Pokemon) *Index {
	idx := &Index{keys: make(map[string]int)}
	for _, c := range clusters(entities) {
		idx.keys[c.base] = c.key
	}
	return idx
}

// BaseID returns the cluster key of p. Entities whose base identity is not
// indexed are their own cluster, keyed by their id.
func (i *Index) BaseID(p *client.Pokemon) int {
	if i != nil {
		if key, ok := i.keys[BaseIdentity(p.Name)]; ok {
			return key
		}
	}
	return p.ID
}

// Len returns the number of clusters.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.keys)
}

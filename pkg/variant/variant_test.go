package variant

import (
	"math/rand"
	"testing"

	"github.com/Sternrassler/dex-explorer/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mon(id int, name string) *client.Pokemon {
	return &client.Pokemon{ID: id, Name: name}
}

func namesOf(ps []*client.Pokemon) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestMatch_LongestSuffixWins(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		rank    int
		base    string
	}{
		{"charizard-mega-x", "-mega-x", RankMega, "charizard"},
		{"mewtwo-mega-y", "-mega-y", RankMega, "mewtwo"},
		{"venusaur-mega", "-mega", RankMega, "venusaur"},
		{"pikachu-gmax", "-gmax", RankGigantamax, "pikachu"},
		{"urshifu-rapid-strike-gmax", "-gmax", RankGigantamax, "urshifu-rapid-strike"},
		{"Raichu-Alola", "-alola", RankRegional, "raichu"},
		{"growlithe-hisui", "-hisui", RankRegional, "growlithe"},
		{"wooper-paldea", "-paldea", RankRegional, "wooper"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := Match(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.pattern, s.Pattern)
			assert.Equal(t, tt.rank, Rank(tt.name))
			assert.Equal(t, tt.base, BaseIdentity(tt.name))
			assert.True(t, HasSuffix(tt.name))
		})
	}
}

func TestBaseIdentity_Fallback(t *testing.T) {
	tests := map[string]string{
		"bulbasaur":                 "bulbasaur",
		"mr-mime":                   "mr",
		"darmanitan-galar-standard": "darmanitan",
		"MEGA":                      "mega",
		"-mega":                     "-mega",
	}
	for name, want := range tests {
		assert.Equal(t, want, BaseIdentity(name), name)
		assert.Equal(t, RankCanonical, Rank(name), name)
		assert.False(t, HasSuffix(name), name)
	}
}

func TestTaxonomy_TotalRanks(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range Taxonomy {
		assert.False(t, seen[s.Pattern], "duplicate suffix %s", s.Pattern)
		seen[s.Pattern] = true
		assert.Contains(t, []int{RankMega, RankGigantamax, RankRegional}, s.Rank)
	}
	for i := 1; i < len(longestFirst); i++ {
		assert.GreaterOrEqual(t, len(longestFirst[i-1].Pattern), len(longestFirst[i].Pattern))
	}
}

func TestGroup_Singleton(t *testing.T) {
	for _, p := range []*client.Pokemon{mon(6, "charizard"), mon(10034, "charizard-mega-x")} {
		got := Group([]*client.Pokemon{p})
		require.Len(t, got, 1)
		assert.Same(t, p, got[0])
	}
	assert.Empty(t, Group(nil))
}

func TestGroup_ClusterOrdering(t *testing.T) {
	bulbasaur := mon(1, "bulbasaur")
	pikachu := mon(25, "pikachu")
	pikachuGmax := mon(10199, "pikachu-gmax")

	got := Group([]*client.Pokemon{pikachuGmax, pikachu, bulbasaur})

	assert.Equal(t, []*client.Pokemon{bulbasaur, pikachu, pikachuGmax}, got)
}

func TestGroup_WithinCluster(t *testing.T) {
	input := []*client.Pokemon{
		mon(10035, "charizard-mega-y"),
		mon(10196, "charizard-gmax"),
		mon(6, "charizard"),
		mon(10034, "charizard-mega-x"),
		mon(3, "venusaur"),
		mon(10033, "venusaur-mega"),
		mon(26, "raichu"),
		mon(10100, "raichu-alola"),
	}

	got := namesOf(Group(input))

	assert.Equal(t, []string{
		"venusaur", "venusaur-mega",
		"charizard", "charizard-mega-x", "charizard-mega-y", "charizard-gmax",
		"raichu", "raichu-alola",
	}, got)
}

func TestGroup_ClusterWithoutCanonicalMember(t *testing.T) {
	// Only the variant was fetched; the cluster keys on its own id.
	got := namesOf(Group([]*client.Pokemon{
		mon(10100, "raichu-alola"),
		mon(200, "misdreavus"),
		mon(10001, "deoxys"),
	}))

	assert.Equal(t, []string{"misdreavus", "deoxys", "raichu-alola"}, got)
}

func TestGroup_CanonicalPrecedesSuffixed(t *testing.T) {
	got := Group([]*client.Pokemon{
		mon(10100, "meowth-alola"),
		mon(10161, "meowth-galar"),
		mon(52, "meowth"),
		mon(10158, "meowth-gmax"),
	})

	seenSuffixed := false
	for _, p := range got {
		if HasSuffix(p.Name) {
			seenSuffixed = true
			continue
		}
		assert.False(t, seenSuffixed, "%s appears after a suffixed member", p.Name)
	}
	assert.Equal(t, []string{"meowth", "meowth-gmax", "meowth-alola", "meowth-galar"}, namesOf(got))
}

func sample() []*client.Pokemon {
	return []*client.Pokemon{
		mon(1, "bulbasaur"),
		mon(3, "venusaur"),
		mon(10033, "venusaur-mega"),
		mon(10195, "venusaur-gmax"),
		mon(6, "charizard"),
		mon(10034, "charizard-mega-x"),
		mon(10035, "charizard-mega-y"),
		mon(52, "meowth"),
		mon(10107, "meowth-alola"),
		mon(10161, "meowth-galar"),
		mon(122, "mr-mime"),
		mon(10168, "mr-mime-galar"),
		mon(785, "tapu-koko"),
		mon(786, "tapu-lele"),
		mon(555, "darmanitan-standard"),
		mon(10177, "darmanitan-galar-standard"),
	}
}

func TestGroup_PermutationIndependent(t *testing.T) {
	want := Group(sample())
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		xs := sample()
		rng.Shuffle(len(xs), func(a, b int) { xs[a], xs[b] = xs[b], xs[a] })
		assert.Equal(t, namesOf(want), namesOf(Group(xs)))
	}
}

func TestGroup_Idempotent(t *testing.T) {
	once := Group(sample())
	assert.Equal(t, namesOf(once), namesOf(Group(once)))
}

func TestGroup_DoesNotMutateInput(t *testing.T) {
	xs := []*client.Pokemon{mon(10034, "charizard-mega-x"), mon(6, "charizard")}
	Group(xs)
	assert.Equal(t, []string{"charizard-mega-x", "charizard"}, namesOf(xs))
}

func TestIndex_BaseID(t *testing.T) {
	idx := NewIndex(sample())

	assert.Equal(t, 6, idx.BaseID(mon(10034, "charizard-mega-x")))
	assert.Equal(t, 6, idx.BaseID(mon(6, "charizard")))
	// mr-mime-galar strips to "mr-mime", a different cluster than "mr".
	assert.Equal(t, 10168, idx.BaseID(mon(10168, "mr-mime-galar")))
	assert.Equal(t, 122, idx.BaseID(mon(122, "mr-mime")))
	assert.Equal(t, 785, idx.BaseID(mon(786, "tapu-lele")))
	assert.Equal(t, 999, idx.BaseID(mon(999, "unknown")))

	var nilIdx *Index
	assert.Equal(t, 7, nilIdx.BaseID(mon(7, "squirtle")))
	assert.Equal(t, 0, nilIdx.Len())
}

func TestStripSuffix(t *testing.T) {
	tests := map[string]string{
		"charizard-mega-x": "charizard",
		"mr-mime-galar":    "mr-mime",
		"mr-mime":          "mr-mime",
		"Tapu-Koko":        "tapu-koko",
	}
	for name, want := range tests {
		assert.Equal(t, want, StripSuffix(name), name)
	}
}

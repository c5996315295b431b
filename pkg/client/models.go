package client

import (
	"net/url"
	"strconv"
	"strings"
)

// StatSpeed is the stat name used by the speed sort.
const StatSpeed = "speed"

// Stat is one entry of a stat block.
type Stat struct {
	Name  string `json:"name" validate:"required"`
	Value int    `json:"value" validate:"gte=0"`
}

// Ability is an ability a species may have.
type Ability struct {
	Name   string `json:"name"`
	Hidden bool   `json:"hidden,omitempty"`
}

// Move is a learnable move with its first listed learn method.
type Move struct {
	Name        string `json:"name"`
	LearnMethod string `json:"learn_method,omitempty"`
	Level       int    `json:"level,omitempty"`
}

// Pokemon is an enriched catalog entity. Values are treated as immutable once
// returned by the client.
type Pokemon struct {
	ID         int       `json:"id" validate:"gt=0"`
	Name       string    `json:"name" validate:"required"`
	Types      []string  `json:"types" validate:"dive,required"`
	Stats      []Stat    `json:"stats" validate:"dive"`
	Abilities  []Ability `json:"abilities,omitempty"`
	Height     int       `json:"height" validate:"gte=0"`
	Weight     int       `json:"weight" validate:"gte=0"`
	Artwork    string    `json:"artwork,omitempty" validate:"omitempty,url"`
	SpeciesURL string    `json:"species_url,omitempty" validate:"omitempty,url"`
	Moves      []Move    `json:"moves,omitempty"`
}

// StatTotal returns the sum of all stat values.
func (p *Pokemon) StatTotal() int {
	total := 0
	for _, s := range p.Stats {
		total += s.Value
	}
	return total
}

// Stat returns the value of the named stat, or 0 when absent.
func (p *Pokemon) Stat(name string) int {
	for _, s := range p.Stats {
		if s.Name == name {
			return s.Value
		}
	}
	return 0
}

// HasType reports whether the entity carries the given type.
func (p *Pokemon) HasType(typeName string) bool {
	for _, t := range p.Types {
		if t == typeName {
			return true
		}
	}
	return false
}

// SpeciesID extracts the numeric species id from SpeciesURL, or 0.
func (p *Pokemon) SpeciesID() int {
	return IDFromURL(p.SpeciesURL)
}

// IDFromURL returns the last numeric path segment of a resource URL,
// e.g. 25 for ".../pokemon-species/25/". Returns 0 when there is none.
func IDFromURL(raw string) int {
	u, err := url.Parse(raw)
	if err != nil {
		return 0
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if id, err := strconv.Atoi(segments[i]); err == nil {
			return id
		}
	}
	return 0
}

// ListItem is a name/reference pair from a list endpoint.
type ListItem struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListPage is one page of the entity list.
type ListPage struct {
	Count   int        `json:"count"`
	Results []ListItem `json:"results"`
}

// Names returns the names of every item on the page.
func (p *ListPage) Names() []string {
	names := make([]string, len(p.Results))
	for i, item := range p.Results {
		names[i] = item.Name
	}
	return names
}

// Wire formats of the upstream API.

type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type apiPokemon struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Types []struct {
		Slot int           `json:"slot"`
		Type namedResource `json:"type"`
	} `json:"types"`
	Sprites struct {
		Other map[string]struct {
			FrontDefault *string `json:"front_default"`
		} `json:"other"`
	} `json:"sprites"`
	Stats []struct {
		BaseStat int           `json:"base_stat"`
		Stat     namedResource `json:"stat"`
	} `json:"stats"`
	Abilities []struct {
		Ability  namedResource `json:"ability"`
		IsHidden bool          `json:"is_hidden"`
	} `json:"abilities"`
	Height int `json:"height"`
	Weight int `json:"weight"`
	Moves  []struct {
		Move                namedResource `json:"move"`
		VersionGroupDetails []struct {
			LevelLearnedAt  int           `json:"level_learned_at"`
			MoveLearnMethod namedResource `json:"move_learn_method"`
		} `json:"version_group_details"`
	} `json:"moves"`
	Species namedResource `json:"species"`
}

func (a *apiPokemon) toPokemon() *Pokemon {
	p := &Pokemon{
		ID:         a.ID,
		Name:       a.Name,
		Height:     a.Height,
		Weight:     a.Weight,
		SpeciesURL: a.Species.URL,
		Types:      make([]string, 0, len(a.Types)),
		Stats:      make([]Stat, 0, len(a.Stats)),
	}
	for _, t := range a.Types {
		p.Types = append(p.Types, t.Type.Name)
	}
	for _, s := range a.Stats {
		p.Stats = append(p.Stats, Stat{Name: s.Stat.Name, Value: s.BaseStat})
	}
	for _, ab := range a.Abilities {
		p.Abilities = append(p.Abilities, Ability{Name: ab.Ability.Name, Hidden: ab.IsHidden})
	}
	if art, ok := a.Sprites.Other["official-artwork"]; ok && art.FrontDefault != nil {
		p.Artwork = *art.FrontDefault
	}
	for _, m := range a.Moves {
		move := Move{Name: m.Move.Name}
		if len(m.VersionGroupDetails) > 0 {
			move.LearnMethod = m.VersionGroupDetails[0].MoveLearnMethod.Name
			move.Level = m.VersionGroupDetails[0].LevelLearnedAt
		}
		p.Moves = append(p.Moves, move)
	}
	return p
}

type apiType struct {
	Name    string `json:"name"`
	Pokemon []struct {
		Pokemon namedResource `json:"pokemon"`
	} `json:"pokemon"`
}

type apiNamedList struct {
	Count   int             `json:"count"`
	Results []namedResource `json:"results"`
}

type apiGeneration struct {
	ID             int             `json:"id"`
	PokemonSpecies []namedResource `json:"pokemon_species"`
}

type apiSpecies struct {
	EvolutionChain *struct {
		URL string `json:"url"`
	} `json:"evolution_chain"`
}

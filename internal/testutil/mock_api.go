// Package testutil provides a configurable in-process stand-in for the
// species data API.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// APIRoot is the path prefix served by MockAPI.
const APIRoot = "/api/v2"

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// PokemonFixture describes an entity served by the mock.
type PokemonFixture struct {
	ID        int
	Name      string
	Types     []string
	Stats     map[string]int
	SpeciesID int
}

// MockAPI is a configurable mock API server for testing.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.Mutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	pokemon  []PokemonFixture
	delay    time.Duration

	requests    map[string]int
	conditional int
	inFlight    int
	peak        int
}

// NewMockAPI creates and starts a mock API server.
func NewMockAPI() *MockAPI {
	m := &MockAPI{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		requests: make(map[string]int),
	}

	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.requests[r.URL.Path]++
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			m.conditional++
		}
		m.inFlight++
		if m.inFlight > m.peak {
			m.peak = m.inFlight
		}
		handler, ok := m.handlers[r.URL.Path]
		delay := m.delay
		m.mu.Unlock()

		defer func() {
			m.mu.Lock()
			m.inFlight--
			m.mu.Unlock()
		}()

		if delay > 0 {
			time.Sleep(delay)
		}
		if ok {
			handler(w, r)
			return
		}
		if r.URL.Path == APIRoot+"/pokemon" {
			m.listHandler(w, r)
			return
		}
		http.NotFound(w, r)
	}))

	return m
}

// URL returns the server root URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// BaseURL returns the API root to configure clients with.
func (m *MockAPI) BaseURL() string {
	return m.server.URL + APIRoot
}

// Close shuts down the server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// SetDelay makes every response wait d before being written.
func (m *MockAPI) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// SetHandler sets a custom handler for a path below APIRoot.
func (m *MockAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[APIRoot+"/"+strings.TrimLeft(path, "/")] = handler
}

// SetResponse configures a fixed response for a path below APIRoot.
func (m *MockAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetJSON serves v as a 200 JSON response for a path below APIRoot.
func (m *MockAPI) SetJSON(path string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("marshal fixture: %v", err))
	}
	m.SetResponse(path, MockResponse{
		StatusCode: http.StatusOK,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	})
}

// AddPokemon registers an entity under both its name and id, and appends it
// to the list endpoint when listed is true.
func (m *MockAPI) AddPokemon(f PokemonFixture, listed bool) {
	doc := pokemonDocument(f, m.BaseURL())
	m.SetJSON("pokemon/"+f.Name, doc)
	m.SetJSON("pokemon/"+strconv.Itoa(f.ID), doc)

	if listed {
		m.mu.Lock()
		m.pokemon = append(m.pokemon, f)
		m.mu.Unlock()
	}
}

// AddType registers a type membership document.
func (m *MockAPI) AddType(name string, members ...string) {
	entries := make([]map[string]any, 0, len(members))
	for _, member := range members {
		entries = append(entries, map[string]any{
			"pokemon": map[string]string{"name": member, "url": m.BaseURL() + "/pokemon/" + member + "/"},
		})
	}
	m.SetJSON("type/"+name, map[string]any{"name": name, "pokemon": entries})
}

// AddLineage registers a species document pointing at chain document chainID.
func (m *MockAPI) AddLineage(speciesID, chainID int, chain string) {
	m.SetJSON("pokemon-species/"+strconv.Itoa(speciesID), map[string]any{
		"evolution_chain": map[string]string{
			"url": fmt.Sprintf("https://pokeapi.co/api/v2/evolution-chain/%d/", chainID),
		},
	})
	m.SetResponse(fmt.Sprintf("evolution-chain/%d/", chainID), MockResponse{
		StatusCode: http.StatusOK,
		Body:       chain,
	})
}

// RequestCount returns the number of requests received for a path below
// APIRoot, or in total when path is empty.
func (m *MockAPI) RequestCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if path == "" {
		total := 0
		for _, n := range m.requests {
			total += n
		}
		return total
	}
	return m.requests[APIRoot+"/"+strings.TrimLeft(path, "/")]
}

// ConditionalCount returns the number of conditional requests received.
func (m *MockAPI) ConditionalCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conditional
}

// PeakInFlight returns the highest number of concurrent requests observed.
func (m *MockAPI) PeakInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peak
}

// Reset clears all tracking counters.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = make(map[string]int)
	m.conditional = 0
	m.peak = 0
}

func (m *MockAPI) listHandler(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	listed := append([]PokemonFixture(nil), m.pokemon...)
	m.mu.Unlock()

	sort.Slice(listed, func(i, j int) bool { return listed[i].ID < listed[j].ID })

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 || offset > len(listed) {
		offset = len(listed)
	}
	end := offset + limit
	if end > len(listed) {
		end = len(listed)
	}

	results := make([]map[string]string, 0, end-offset)
	for _, f := range listed[offset:end] {
		results = append(results, map[string]string{
			"name": f.Name,
			"url":  fmt.Sprintf("%s/pokemon/%d/", m.BaseURL(), f.ID),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"count": len(listed), "results": results})
}

func pokemonDocument(f PokemonFixture, baseURL string) map[string]any {
	types := make([]map[string]any, 0, len(f.Types))
	for i, t := range f.Types {
		types = append(types, map[string]any{"slot": i + 1, "type": map[string]string{"name": t}})
	}

	statNames := make([]string, 0, len(f.Stats))
	for name := range f.Stats {
		statNames = append(statNames, name)
	}
	sort.Strings(statNames)
	stats := make([]map[string]any, 0, len(statNames))
	for _, name := range statNames {
		stats = append(stats, map[string]any{"base_stat": f.Stats[name], "stat": map[string]string{"name": name}})
	}

	speciesID := f.SpeciesID
	if speciesID == 0 {
		speciesID = f.ID
	}
	artwork := fmt.Sprintf("https://img.example.test/artwork/%d.png", f.ID)

	return map[string]any{
		"id":     f.ID,
		"name":   f.Name,
		"height": 7,
		"weight": 69,
		"types":  types,
		"stats":  stats,
		"sprites": map[string]any{
			"other": map[string]any{"official-artwork": map[string]any{"front_default": artwork}},
		},
		"abilities": []map[string]any{{"ability": map[string]string{"name": "overgrow"}, "is_hidden": false}},
		"moves": []map[string]any{{
			"move": map[string]string{"name": "tackle"},
			"version_group_details": []map[string]any{{
				"level_learned_at":  1,
				"move_learn_method": map[string]string{"name": "level-up"},
			}},
		}},
		"species": map[string]string{"name": f.Name, "url": fmt.Sprintf("%s/pokemon-species/%d/", baseURL, speciesID)},
	}
}

// Package client is the HTTP client for the species data API. It adds
// response caching, request pacing, typed errors and ingestion validation on
// top of plain GETs. It never retries; callers decide how to treat failures.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/dex-explorer/pkg/cache"
	"github.com/Sternrassler/dex-explorer/pkg/lineage"
	"github.com/Sternrassler/dex-explorer/pkg/logging"
	"github.com/Sternrassler/dex-explorer/pkg/ratelimit"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Prometheus metrics for client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dex_requests_total",
		Help: "Total API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dex_request_duration_seconds",
		Help:    "API request duration in seconds by endpoint",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dex_errors_total",
		Help: "Total API errors by class",
	}, []string{"class"})
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root, without trailing slash.
	BaseURL string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout per HTTP request.
	Timeout time.Duration

	// Pacing of outgoing requests.
	Pacer ratelimit.Config

	// CacheBackend stores responses. Nil selects an in-memory backend.
	CacheBackend cache.Backend
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
		Pacer:     ratelimit.DefaultConfig(),
	}
}

// Client talks to the species data API.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	pacer      *ratelimit.Pacer
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	backend := cfg.CacheBackend
	if backend == nil {
		backend = cache.NewMemoryBackend()
	}

	logger := logging.NewLogger("dex-client")

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    base,
		pacer:      ratelimit.NewPacer(cfg.Pacer, logger),
		cache:      cache.NewManager(backend),
		config:     cfg,
		logger:     logger,
	}, nil
}

// Do performs a GET with caching and pacing.
//
// A fresh cache entry is served without touching the network. A stale entry
// with validators turns the request into a conditional one; a 304 answer
// refreshes the entry and returns it. Non-2xx responses are returned as-is so
// callers can map them; only transport failures produce an error.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	endpoint := c.endpointLabel(req.URL.Path)

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	cacheKey := cache.Key{Endpoint: req.URL.Path, Query: req.URL.Query()}
	cached, err := c.cache.Get(ctx, cacheKey)
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warn().Err(err).Str("endpoint", req.URL.Path).Msg("Cache get error")
	}

	if cached != nil && !cached.IsExpired() {
		c.logger.Debug().Str("endpoint", req.URL.Path).Msg("Cache hit")
		requestsTotal.WithLabelValues(endpoint, "cache").Inc()
		return cache.EntryToResponse(cached, req), nil
	}
	if cached != nil {
		cache.AddConditionalHeaders(req, cached)
		c.logger.Debug().
			Str("endpoint", req.URL.Path).
			Str("etag", cached.ETag).
			Msg("Revalidating stale entry")
	}

	if err := c.pacer.Wait(ctx); err != nil {
		return nil, &NetworkError{Endpoint: req.URL.Path, Err: err}
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("endpoint", req.URL.Path).Msg("HTTP request failed")
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, &NetworkError{Endpoint: req.URL.Path, Err: err}
	}
	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusNotModified && cached != nil {
		resp.Body.Close()
		cache.NotModifiedResponses.Inc()
		if err := c.cache.Refresh(ctx, cacheKey, cached, cache.ExpiresFrom(resp.Header)); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to refresh cache entry")
		}
		c.logger.Debug().Str("endpoint", req.URL.Path).Msg("304 Not Modified - using cache")
		return cache.EntryToResponse(cached, req), nil
	}

	if class := classifyStatus(resp.StatusCode); class != "" {
		errorsTotal.WithLabelValues(string(class)).Inc()
		c.logger.Debug().
			Str("endpoint", req.URL.Path).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("API request error")
		return resp, nil
	}

	if resp.StatusCode == http.StatusOK {
		entry, err := cache.ResponseToEntry(resp)
		if err != nil {
			resp.Body.Close()
			errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			return nil, &NetworkError{Endpoint: req.URL.Path, Err: err}
		}
		if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to cache response")
		}
	}

	return resp, nil
}

// Get performs a GET against an endpoint relative to the base URL.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(endpoint, query), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.Do(req)
}

// FetchList returns one page of the entity list.
func (c *Client) FetchList(ctx context.Context, limit, offset int) (*ListPage, error) {
	query := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}

	var page ListPage
	if err := c.getJSON(ctx, c.url("pokemon", query), "pokemon list", "", &page); err != nil {
		// The list endpoint never legitimately 404s.
		if IsNotFound(err) {
			return nil, &NetworkError{Endpoint: "/pokemon", StatusCode: http.StatusNotFound}
		}
		return nil, err
	}
	return &page, nil
}

// FetchDetail returns the full record for a name or numeric id.
func (c *Client) FetchDetail(ctx context.Context, nameOrID string) (*Pokemon, error) {
	id := strings.ToLower(strings.TrimSpace(nameOrID))
	if id == "" {
		return nil, &NotFoundError{Resource: "pokemon", ID: nameOrID}
	}

	var raw apiPokemon
	endpoint := "pokemon/" + url.PathEscape(id)
	if err := c.getJSON(ctx, c.url(endpoint, nil), "pokemon", id, &raw); err != nil {
		return nil, err
	}

	p := raw.toPokemon()
	if err := validate.Struct(p); err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return nil, &DecodeError{Endpoint: "/" + endpoint, Err: err}
	}
	return p, nil
}

// FetchCategoryMembers returns the names of every entity of a type.
func (c *Client) FetchCategoryMembers(ctx context.Context, category string) ([]string, error) {
	name := strings.ToLower(strings.TrimSpace(category))

	var t apiType
	if err := c.getJSON(ctx, c.url("type/"+url.PathEscape(name), nil), "type", name, &t); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(t.Pokemon))
	for _, p := range t.Pokemon {
		names = append(names, p.Pokemon.Name)
	}
	return names, nil
}

// FetchCategories returns the names of all types.
func (c *Client) FetchCategories(ctx context.Context) ([]string, error) {
	var list apiNamedList
	if err := c.getJSON(ctx, c.url("type", url.Values{"limit": {"100"}}), "type list", "", &list); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(list.Results))
	for _, r := range list.Results {
		names = append(names, r.Name)
	}
	return names, nil
}

// FetchGeneration returns the species names introduced in generation n.
func (c *Client) FetchGeneration(ctx context.Context, n int) ([]string, error) {
	id := strconv.Itoa(n)

	var gen apiGeneration
	if err := c.getJSON(ctx, c.url("generation/"+id, nil), "generation", id, &gen); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(gen.PokemonSpecies))
	for _, s := range gen.PokemonSpecies {
		names = append(names, s.Name)
	}
	return names, nil
}

// FetchLineage resolves species -> evolution chain and decodes the chain.
// A 404 on either hop yields (nil, nil): absent lineage is a valid state.
func (c *Client) FetchLineage(ctx context.Context, speciesID int) (*lineage.Node, error) {
	id := strconv.Itoa(speciesID)

	var species apiSpecies
	err := c.getJSON(ctx, c.url("pokemon-species/"+id, nil), "pokemon-species", id, &species)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if species.EvolutionChain == nil || species.EvolutionChain.URL == "" {
		return nil, nil
	}

	chainURL := c.resolve(species.EvolutionChain.URL)
	body, err := c.getBody(ctx, chainURL, "evolution-chain", id)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	root, err := lineage.Decode(body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return nil, &DecodeError{Endpoint: chainURL, Err: err}
	}
	return root, nil
}

// getJSON fetches rawURL and decodes the body into v.
func (c *Client) getJSON(ctx context.Context, rawURL, resource, id string, v any) error {
	body, err := c.getBody(ctx, rawURL, resource, id)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return &DecodeError{Endpoint: rawURL, Err: err}
	}
	return nil
}

// getBody fetches rawURL and maps the status to the error taxonomy.
func (c *Client) getBody(ctx context.Context, rawURL, resource, id string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{Resource: resource, ID: id}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &NetworkError{Endpoint: req.URL.Path, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Endpoint: req.URL.Path, Err: err}
	}
	return body, nil
}

// url builds an absolute URL for a path relative to the base URL.
func (c *Client) url(endpoint string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(endpoint, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// resolve rewrites absolute references returned by the API onto the
// configured base URL, so a mirror or test server serves the second hop too.
func (c *Client) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil || !u.IsAbs() {
		return c.url(ref, nil)
	}
	const apiRoot = "/api/v2/"
	if i := strings.Index(u.Path, apiRoot); i >= 0 {
		return c.url(u.Path[i+len(apiRoot):], u.Query())
	}
	return ref
}

// endpointLabel reduces a path to its first segment below the base path so
// metric labels stay low-cardinality: "/api/v2/pokemon/25" -> "/pokemon".
func (c *Client) endpointLabel(path string) string {
	rel := strings.TrimPrefix(path, strings.TrimRight(c.baseURL.Path, "/"))
	rel = strings.Trim(rel, "/")
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		rel = rel[:i]
	}
	return "/" + rel
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Cache returns the response cache manager.
func (c *Client) Cache() *cache.Manager {
	return c.cache
}

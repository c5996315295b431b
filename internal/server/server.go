// Package server exposes the catalog over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Sternrassler/dex-explorer/pkg/catalog"
	"github.com/Sternrassler/dex-explorer/pkg/client"
	"github.com/Sternrassler/dex-explorer/pkg/format"
	"github.com/Sternrassler/dex-explorer/pkg/lineage"
	"github.com/Sternrassler/dex-explorer/pkg/logging"
	"github.com/Sternrassler/dex-explorer/pkg/metrics"
	"github.com/Sternrassler/dex-explorer/pkg/query"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// requestTimeout bounds a single handler, including a cold catalog build.
const requestTimeout = 5 * time.Minute

// Details fetches single records that are not part of the catalog.
type Details interface {
	FetchDetail(ctx context.Context, nameOrID string) (*client.Pokemon, error)
	FetchLineage(ctx context.Context, speciesID int) (*lineage.Node, error)
}

// Server serves the API.
type Server struct {
	catalog *catalog.Catalog
	details Details
	logger  zerolog.Logger
}

// New creates a server.
func New(cat *catalog.Catalog, details Details) *Server {
	return &Server{
		catalog: cat,
		details: details,
		logger:  logging.NewLogger("server"),
	}
}

// Router returns the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.logRequests())

	router.GET("/health", s.handleHealth)
	router.GET("/pokemon", s.handleList)
	router.GET("/pokemon/:name", s.handleDetail)
	router.POST("/catalog/refresh", s.handleRefresh)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	return router
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request served")
	}
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Session string `json:"session"`
	Loaded  bool   `json:"loaded"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Session: s.catalog.Session(),
		Loaded:  s.catalog.Index() != nil,
	})
}

// RefreshResponse is the body of POST /catalog/refresh.
type RefreshResponse struct {
	Session  string `json:"session"`
	Entities int    `json:"entities"`
	Omitted  int    `json:"omitted"`
}

// handleRefresh drops the memoized catalog and rebuilds it, picking up
// details that were omitted by the previous build.
func (s *Server) handleRefresh(c *gin.Context) {
	s.catalog.Invalidate()

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	entities, err := s.catalog.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Catalog rebuild failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "results unavailable"})
		return
	}

	s.logger.Info().Int("entities", len(entities)).Msg("Catalog rebuilt")
	c.JSON(http.StatusOK, RefreshResponse{
		Session:  s.catalog.Session(),
		Entities: len(entities),
		Omitted:  s.catalog.Report().Omitted,
	})
}

// Summary is one row of a list response.
type Summary struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Types       []string `json:"types"`
	Total       int      `json:"total"`
	Artwork     string   `json:"artwork,omitempty"`
}

func summarize(p *client.Pokemon) Summary {
	return Summary{
		ID:          p.ID,
		Name:        p.Name,
		DisplayName: format.Name(p.Name),
		Types:       p.Types,
		Total:       p.StatTotal(),
		Artwork:     p.Artwork,
	}
}

// ListResponse is the body of GET /pokemon.
type ListResponse struct {
	Items []Summary `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Pages int       `json:"pages"`
}

// listParams are the query parameters of GET /pokemon.
type listParams struct {
	Search     string   `form:"search"`
	Types      []string `form:"type"`
	Generation int      `form:"generation"`
	MinTotal   *int     `form:"min_total"`
	MaxTotal   *int     `form:"max_total"`
	Sort       string   `form:"sort"`
	Page       int      `form:"page"`
	PerPage    int      `form:"per_page"`
}

func (p listParams) criteria() (query.Criteria, error) {
	c := query.DefaultCriteria()
	c.Search = p.Search
	c.Types = p.Types
	c.Generation = p.Generation
	if p.MinTotal != nil {
		c.MinTotal = *p.MinTotal
	}
	if p.MaxTotal != nil {
		c.MaxTotal = *p.MaxTotal
	}
	if p.Page != 0 {
		c.Page = p.Page
	}
	if p.PerPage != 0 {
		c.PerPage = p.PerPage
	}

	key, err := query.ParseSortKey(p.Sort)
	if err != nil {
		return query.Criteria{}, err
	}
	c.SortBy = key

	return c, c.Validate()
}

func (s *Server) handleList(c *gin.Context) {
	var params listParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	criteria, err := params.criteria()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	entities, err := s.catalog.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Catalog unavailable")
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "results unavailable"})
		return
	}

	result := query.Run(entities, s.catalog.Index(), criteria)
	items := make([]Summary, len(result.Items))
	for i, p := range result.Items {
		items[i] = summarize(p)
	}

	c.JSON(http.StatusOK, ListResponse{
		Items: items,
		Total: result.Total,
		Page:  result.Page,
		Pages: result.Pages,
	})
}

// LineageStep is one node of a lineage in a detail response.
type LineageStep struct {
	Species  string `json:"species"`
	Depth    int    `json:"depth"`
	Trigger  string `json:"trigger,omitempty"`
	MinLevel *int   `json:"min_level,omitempty"`
	Item     string `json:"item,omitempty"`
}

// DetailResponse is the body of GET /pokemon/:name.
type DetailResponse struct {
	*client.Pokemon
	DisplayName string        `json:"display_name"`
	Total       int           `json:"total"`
	Lineage     []LineageStep `json:"lineage"`
}

func (s *Server) handleDetail(c *gin.Context) {
	name := c.Param("name")

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	p, ok := s.catalog.Lookup(name)
	if !ok {
		var err error
		p, err = s.details.FetchDetail(ctx, name)
		if client.IsNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
			return
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("name", name).Msg("Detail fetch failed")
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "results unavailable"})
			return
		}
	}

	root, err := s.details.FetchLineage(ctx, p.SpeciesID())
	if err != nil && !errors.Is(err, context.Canceled) {
		// Lineage is optional; the record is still useful without it.
		s.logger.Warn().Err(err).Str("name", name).Msg("Lineage fetch failed")
	}

	steps := make([]LineageStep, 0)
	for _, step := range lineage.Flatten(root) {
		ls := LineageStep{Species: step.Node.Species, Depth: step.Depth}
		if t := step.Node.Transition; t != nil {
			ls.Trigger, ls.MinLevel, ls.Item = t.Trigger, t.MinLevel, t.Item
		}
		steps = append(steps, ls)
	}

	c.JSON(http.StatusOK, DetailResponse{
		Pokemon:     p,
		DisplayName: format.Name(p.Name),
		Total:       p.StatTotal(),
		Lineage:     steps,
	})
}

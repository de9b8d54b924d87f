// Package engine orchestrates product matching: it drives the scorer and
// selector across messages, persists the resulting match records and applies
// high-confidence matches automatically.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hmalvik/matchflow/internal/match"
	"github.com/hmalvik/matchflow/internal/model"
	"github.com/hmalvik/matchflow/internal/service"
)

// Validation errors surfaced before any work is performed.
var (
	ErrEmptySearchName = errors.New("search name is required")
	ErrNoMessageIDs    = errors.New("at least one message ID is required")
)

// ErrCandidateFetch wraps failures to retrieve messages or the candidate
// pool. These are fatal for the whole call.
var ErrCandidateFetch = errors.New("candidate fetch failed")

// MatchEngine coordinates scoring, selection and persistence.
type MatchEngine struct {
	storage  service.Storage
	selector *match.Selector
	cfg      Config
}

// Config holds configuration options for the match engine.
type Config struct {
	Matching  match.Config
	PoolLimit int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Matching:  match.DefaultConfig(),
		PoolLimit: service.DefaultPoolLimit,
	}
}

// New creates a new match engine with default configuration.
func New(storage service.Storage) *MatchEngine {
	return NewWithConfig(storage, DefaultConfig())
}

// NewWithConfig creates a new match engine with custom configuration.
func NewWithConfig(storage service.Storage, cfg Config) *MatchEngine {
	if cfg.PoolLimit <= 0 {
		cfg.PoolLimit = service.DefaultPoolLimit
	}
	return &MatchEngine{
		storage:  storage,
		selector: match.NewSelector(cfg.Matching),
		cfg:      cfg,
	}
}

// Match runs a single request against the candidate pool without touching
// persistence. Used by the interactive CLI command and the HTTP API so both
// paths share one scoring implementation.
func (e *MatchEngine) Match(ctx context.Context, req model.MatchRequest) ([]model.ProductMatch, *model.ProductMatch, error) {
	if strings.TrimSpace(req.SearchName) == "" {
		return nil, nil, ErrEmptySearchName
	}

	products, err := e.storage.GetProducts(ctx, service.ProductFilter{Limit: e.cfg.PoolLimit})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCandidateFetch, err)
	}

	matches, best := e.selector.Select(req, products)
	return matches, best, nil
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package actionbar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/actionbar/catalog"
	"github.com/poiesic/actionbar/core"
	"github.com/poiesic/actionbar/interpret"
	"github.com/poiesic/actionbar/match"
	"github.com/poiesic/actionbar/metrics"
	"github.com/poiesic/actionbar/ranking"
	"github.com/poiesic/actionbar/session"
	"github.com/poiesic/actionbar/storage"
	"github.com/poiesic/actionbar/storage/badger"
	"github.com/poiesic/actionbar/storage/sqlite"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrCatalogRequired is returned when no catalog is provided.
var ErrCatalogRequired = errors.New("catalog required")

// Engine wires a catalog to an interpreter, an aggregator and a session
// controller.
type Engine struct {
	catalog *core.Catalog
	matcher match.Matcher
	interp  *interpret.Interpreter
	agg     *ranking.Aggregator
	ctrl    *session.Controller
	logger  *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	config     *Config
	logger     *slog.Logger
	registerer prometheus.Registerer
}

// WithConfig sets the engine configuration.
// Default is DefaultConfig().
func WithConfig(cfg *Config) EngineOption {
	return func(o *engineOptions) {
		if cfg != nil {
			o.config = cfg
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics exports session metrics to reg.
func WithMetrics(reg prometheus.Registerer) EngineOption {
	return func(o *engineOptions) {
		o.registerer = reg
	}
}

// NewEngine creates an engine over an in-memory catalog.
func NewEngine(c *core.Catalog, renderer ranking.Renderer, opts ...EngineOption) (*Engine, error) {
	if c == nil {
		return nil, ErrCatalogRequired
	}

	options := &engineOptions{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	// Validate normalizes in place; the caller's config stays as given.
	cfg := *options.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c.AssignIDs()
	if err := core.ValidateCatalog(c); err != nil {
		return nil, err
	}

	matcher, err := match.New(cfg.Matcher)
	if err != nil {
		return nil, err
	}

	interpOpts := []interpret.Option{
		interpret.WithMatcher(matcher),
		interpret.WithPoolSize(cfg.PoolSize),
		interpret.WithLogger(options.logger),
	}
	sessionOpts := []session.Option{
		session.WithLogger(options.logger),
	}
	if options.registerer != nil {
		collector := metrics.NewCollector(options.registerer)
		interpOpts = append(interpOpts, interpret.WithObserver(collector))
		sessionOpts = append(sessionOpts, session.WithMonitor(collector))
	}

	interp, err := interpret.NewInterpreter(catalog.Build(c), interpOpts...)
	if err != nil {
		_ = match.Close(matcher)
		return nil, err
	}

	agg, err := ranking.NewAggregator(renderer,
		ranking.WithMaxRetained(cfg.MaxRetained),
		ranking.WithMaxRendered(cfg.MaxRendered),
		ranking.WithLogger(options.logger))
	if err != nil {
		interp.Release()
		_ = match.Close(matcher)
		return nil, err
	}

	ctrl, err := session.NewController(interp, agg, sessionOpts...)
	if err != nil {
		interp.Release()
		_ = match.Close(matcher)
		return nil, err
	}

	options.logger.Debug("engine ready",
		"apps", len(c.Apps),
		"noun_types", len(c.Nouns),
		"matcher", cfg.Matcher)

	return &Engine{
		catalog: c,
		matcher: matcher,
		interp:  interp,
		agg:     agg,
		ctrl:    ctrl,
		logger:  options.logger,
	}, nil
}

// OpenEngine loads the catalog cfg points at and creates an engine over it.
func OpenEngine(ctx context.Context, cfg *Config, renderer ranking.Renderer, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c, err := LoadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewEngine(c, renderer, append(opts, WithConfig(cfg))...)
}

// LoadCatalog reads the catalog from the backend cfg names.
func LoadCatalog(ctx context.Context, config *Config) (*core.Catalog, error) {
	cfg := *config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Catalog.Backend == BackendJSON {
		return catalog.LoadDir(cfg.Catalog.Path)
	}

	repo, err := OpenRepository(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	return storage.LoadCatalog(ctx, repo)
}

// OpenRepository opens the persistent catalog repository cc names.
func OpenRepository(cc CatalogConfig) (storage.CatalogRepository, error) {
	switch cc.Backend {
	case BackendBadger:
		return badger.NewRepository(cc.Path)
	case BackendSQLite:
		return sqlite.NewRepository(cc.Path)
	default:
		return nil, fmt.Errorf("%w: backend %q has no repository", ErrInvalidConfig, cc.Backend)
	}
}

// Close cancels in-flight work and releases the matcher and its pool.
func (e *Engine) Close() error {
	if err := e.ctrl.Close(); err != nil {
		e.logger.Error("error closing session controller", "err", err)
	}
	e.interp.Release()
	if err := match.Close(e.matcher); err != nil {
		e.logger.Error("error closing matcher", "err", err)
		return err
	}
	return nil
}

// Catalog returns the catalog the engine searches.
func (e *Engine) Catalog() *core.Catalog {
	return e.catalog
}

// Submit starts a query without waiting for its results.
func (e *Engine) Submit(raw string) error {
	return e.ctrl.Submit(raw)
}

// Wait blocks until the current query is drained.
func (e *Engine) Wait() error {
	return e.ctrl.Wait()
}

// Query runs a query to completion.
func (e *Engine) Query(raw string) error {
	return e.ctrl.Query(raw)
}

// Run feeds live input into the engine until it closes or ctx is done.
func (e *Engine) Run(ctx context.Context, input <-chan string) error {
	return e.ctrl.Run(ctx, input)
}

// Results returns the rendered results of the current query, best first.
func (e *Engine) Results() []core.ScoredAction {
	return e.agg.Results()
}

// Suggestions returns the suggestion pair of the current query.
func (e *Engine) Suggestions() []core.Suggestion {
	return e.agg.Suggestions()
}

// Generation returns the current query generation.
func (e *Engine) Generation() uint64 {
	return e.ctrl.Generation()
}

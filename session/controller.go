package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/actionbar/core"
	"github.com/poiesic/actionbar/interpret"
	"github.com/poiesic/actionbar/stream"
)

// Interpreter produces the candidate streams for a term sequence.
type Interpreter interface {
	Interpret(ctx context.Context, terms []string) *interpret.Result
}

// Aggregator receives generation-tagged candidates and noun matches.
type Aggregator interface {
	Reset(gen uint64, force bool)
	Offer(gen uint64, action core.ScoredAction) bool
	OfferNoun(gen uint64, match core.NounMatch) bool
}

// run is the in-flight work of one generation.
type run struct {
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func finishedRun(gen uint64) *run {
	r := &run{gen: gen, cancel: func() {}, done: make(chan struct{})}
	close(r.done)
	return r
}

// Controller drives query sessions. It is safe for concurrent use, though
// queries are meant to arrive from a single input source.
type Controller struct {
	interp  Interpreter
	agg     Aggregator
	logger  *slog.Logger
	monitor Monitor

	root context.Context
	stop context.CancelFunc

	mu      sync.Mutex
	last    string
	hasLast bool
	gen     uint64
	current *run
	closed  bool
}

// Option configures a Controller.
type Option func(*Controller) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithMonitor sets the session monitor.
func WithMonitor(monitor Monitor) Option {
	return func(c *Controller) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		c.monitor = monitor
		return nil
	}
}

// NewController creates a controller feeding interp's output into agg.
func NewController(interp Interpreter, agg Aggregator, opts ...Option) (*Controller, error) {
	if interp == nil {
		return nil, ErrInterpreterRequired
	}
	if agg == nil {
		return nil, ErrAggregatorRequired
	}

	root, stop := context.WithCancel(context.Background())
	c := &Controller{
		interp:  interp,
		agg:     agg,
		logger:  slog.Default(),
		monitor: &noopMonitor{},
		root:    root,
		stop:    stop,
		current: finishedRun(0),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			stop()
			return nil, err
		}
	}

	return c, nil
}

// Submit starts interpreting raw, superseding the query in flight. A repeat
// of the previous query is ignored. Submit does not wait for results.
func (c *Controller) Submit(raw string) error {
	raw = strings.TrimSpace(raw)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.hasLast && raw == c.last {
		return nil
	}
	c.last, c.hasLast = raw, true

	c.current.cancel()
	c.gen++
	gen := c.gen

	terms := interpret.Tokenize(raw)
	c.agg.Reset(gen, len(terms) == 0)
	c.monitor.QueryReset(gen)

	if len(terms) == 0 {
		c.current = finishedRun(gen)
		return nil
	}

	ctx, cancel := context.WithCancel(c.root)
	r := &run{gen: gen, cancel: cancel, done: make(chan struct{})}
	c.current = r

	c.monitor.QueryStarted(gen, raw)
	res := c.interp.Interpret(ctx, terms)
	logger := c.logger.With("query_id", uuid.NewString(), "generation", gen)
	logger.Debug("query started", "query", raw, "terms", len(terms))
	go c.pump(r, res, logger)

	return nil
}

// pump feeds one generation's streams into the aggregator until both close.
func (c *Controller) pump(r *run, res *interpret.Result, logger *slog.Logger) {
	defer close(r.done)
	defer r.cancel()

	start := time.Now()
	var accepted, stale, nouns int

	actions, matches := res.Actions(), res.Nouns()
	for actions != nil || matches != nil {
		select {
		case a, ok := <-actions:
			if !ok {
				actions = nil
				continue
			}
			if c.agg.Offer(r.gen, a) {
				accepted++
				c.monitor.CandidateAccepted(r.gen, a)
			} else {
				stale++
				c.monitor.StaleDropped(r.gen)
			}
		case m, ok := <-matches:
			if !ok {
				matches = nil
				continue
			}
			nouns++
			c.agg.OfferNoun(r.gen, m)
			c.monitor.NounMatched(r.gen, m)
		}
	}

	r.err = res.Err()
	elapsed := time.Since(start)
	if r.err != nil {
		logger.Error("query failed", "err", r.err)
	}
	logger.Debug("query finished",
		"accepted", accepted,
		"stale", stale,
		"nouns", nouns,
		"elapsed", elapsed)
	c.monitor.QueryFinished(r.gen, accepted, elapsed, r.err)
}

// Generation returns the generation of the most recent distinct query.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Wait blocks until the current generation is drained and returns its
// interpretation error, if any.
func (c *Controller) Wait() error {
	c.mu.Lock()
	r := c.current
	c.mu.Unlock()

	<-r.done
	return r.err
}

// Query submits raw and waits for its results.
func (c *Controller) Query(raw string) error {
	if err := c.Submit(raw); err != nil {
		return err
	}
	return c.Wait()
}

// Run submits every query received from input until input closes or ctx
// is done. When input closes, Run waits for the last query.
func (c *Controller) Run(ctx context.Context, input <-chan string) error {
	queries := stream.Map(ctx, input, strings.TrimSpace)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-queries:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				return c.Wait()
			}
			if err := c.Submit(raw); err != nil {
				return err
			}
		}
	}
}

// Close cancels in-flight work and waits for it to drain.
// Further submissions return ErrClosed.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	r := c.current
	c.mu.Unlock()

	c.stop()
	<-r.done
	return nil
}

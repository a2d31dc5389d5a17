package interpret

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/actionbar/catalog"
	"github.com/poiesic/actionbar/core"
	"github.com/poiesic/actionbar/match"
	"github.com/poiesic/actionbar/stream"
)

const (
	strategyVerb = "verb-first"
	strategyNoun = "noun-first"
)

// Interpreter runs the verb-first and noun-first strategies for a query.
type Interpreter struct {
	index       *catalog.Index
	matcher     match.Matcher
	ownsMatcher bool
	pool        *ants.Pool
	observer    Observer
	logger      *slog.Logger
	verbs       match.Source
	nouns       match.Source
}

// Option configures an Interpreter.
type Option func(*Interpreter) error

// WithMatcher sets the fuzzy matcher. It is wrapped with match.Safe.
// Default is a match.Grep owned and closed by the interpreter.
func WithMatcher(m match.Matcher) Option {
	return func(in *Interpreter) error {
		if m == nil {
			return ErrMatcherRequired
		}
		in.matcher = match.Safe(m)
		return nil
	}
}

// WithPoolSize sets the number of workers running matcher calls.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(in *Interpreter) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		if in.pool != nil {
			in.pool.Release()
		}
		in.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) error {
		if logger == nil {
			logger = slog.Default()
		}
		in.logger = logger
		return nil
	}
}

// WithObserver sets the observer notified of degraded matching.
func WithObserver(observer Observer) Option {
	return func(in *Interpreter) error {
		if observer == nil {
			observer = noopObserver{}
		}
		in.observer = observer
		return nil
	}
}

// NewInterpreter creates an interpreter over a catalog index.
func NewInterpreter(index *catalog.Index, opts ...Option) (*Interpreter, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}

	poolSize := runtime.NumCPU()
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	in := &Interpreter{
		index:    index,
		pool:     pool,
		observer: noopObserver{},
		logger:   slog.Default(),
		verbs:    verbSource(index.Verbs),
		nouns:    nounSource(index.Nouns),
	}

	for _, opt := range opts {
		if optErr := opt(in); optErr != nil {
			in.Release()
			return nil, optErr
		}
	}

	if in.matcher == nil {
		grep, err := match.NewGrep()
		if err != nil {
			in.Release()
			return nil, err
		}
		in.matcher = match.Safe(grep)
		in.ownsMatcher = true
	}

	return in, nil
}

// Release releases the worker pool and any matcher the interpreter created.
// The interpreter should not be used after calling Release.
func (in *Interpreter) Release() {
	if in.pool != nil {
		in.pool.Release()
	}
	if in.ownsMatcher {
		if err := match.Close(in.matcher); err != nil {
			in.logger.Error("error closing matcher", "err", err)
		}
	}
}

// Result is the output of one interpretation. Both Actions and Nouns must
// be drained, or ctx cancelled, for the producers to finish.
type Result struct {
	actions <-chan core.ScoredAction
	nouns   <-chan core.NounMatch
	done    chan struct{}
	err     error
}

// Actions returns the merged verb-first and noun-first candidate stream.
func (r *Result) Actions() <-chan core.ScoredAction {
	return r.actions
}

// Nouns returns the noun-first noun matches, the suggestion source.
func (r *Result) Nouns() <-chan core.NounMatch {
	return r.nouns
}

// Err blocks until both strategies have finished and returns the
// verb-first internal-consistency failure, if any.
func (r *Result) Err() error {
	<-r.done
	return r.err
}

// Interpret starts both strategies for terms. Work stops when ctx is
// cancelled. An empty term sequence yields empty streams.
func (in *Interpreter) Interpret(ctx context.Context, terms []string) *Result {
	r := &Result{done: make(chan struct{})}
	if len(terms) == 0 {
		r.actions = stream.Closed[core.ScoredAction]()
		r.nouns = stream.Closed[core.NounMatch]()
		close(r.done)
		return r
	}

	verbOut := make(chan core.ScoredAction)
	nounOut := make(chan core.ScoredAction)
	nouns := make(chan core.NounMatch)
	r.actions = stream.Merge(ctx, verbOut, nounOut)
	r.nouns = nouns

	var wg sync.WaitGroup
	var verbErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer close(verbOut)
		verbErr = in.verbFirst(ctx, terms, verbOut)
	}()
	go func() {
		defer wg.Done()
		defer close(nounOut)
		defer close(nouns)
		in.nounFirst(ctx, terms, nouns, nounOut)
	}()
	go func() {
		wg.Wait()
		r.err = verbErr
		close(r.done)
	}()

	return r
}

// find runs one matcher call on the worker pool. Failures are logged,
// reported to the observer and treated as no hits.
func (in *Interpreter) find(ctx context.Context, strategy string, p match.Pattern, src match.Source) []match.Hit {
	var (
		hits []match.Hit
		err  error
	)
	done := make(chan struct{})
	task := func() {
		defer close(done)
		hits, err = in.matcher.Match(p, src)
	}
	if submitErr := in.pool.Submit(task); submitErr != nil {
		in.logger.Debug("worker pool unavailable, matching inline", "err", submitErr)
		task()
	}

	select {
	case <-done:
	case <-ctx.Done():
		return nil
	}

	if err != nil {
		in.logger.Warn("matcher failed, treating as no matches", "strategy", strategy, "pattern", p.Expr(), "err", err)
		in.observer.MatcherFailed(strategy, err)
		return nil
	}
	return hits
}

type verbSource []core.VerbEntry

func (s verbSource) String(i int) string { return s[i].Name }
func (s verbSource) Len() int            { return len(s) }

type nounSource []core.NounEntry

func (s nounSource) String(i int) string { return s[i].Noun.Serialized }
func (s nounSource) Len() int            { return len(s) }

package ranking

import (
	"cmp"
	"log/slog"
	"slices"
	"sync"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/poiesic/actionbar/core"
)

const (
	// DefaultMaxRetained is the number of candidates kept per query.
	DefaultMaxRetained = 100
	// DefaultMaxRendered is the number of candidates handed to the renderer.
	DefaultMaxRendered = 20
	// MaxSuggestions is the size of the suggestion pair.
	MaxSuggestions = 2
)

// rank orders retained candidates. seq breaks score ties by arrival so
// equal scores never collide in the tree.
type rank struct {
	score float64
	seq   uint64
}

// byRank sorts best first: higher score, then earlier arrival.
func byRank(a, b interface{}) int {
	ra, rb := a.(rank), b.(rank)
	if c := cmp.Compare(rb.score, ra.score); c != 0 {
		return c
	}
	return cmp.Compare(ra.seq, rb.seq)
}

// Aggregator maintains the ranked results and suggestions of the current
// query generation.
type Aggregator struct {
	mu          sync.Mutex
	renderer    Renderer
	logger      *slog.Logger
	maxRetained int
	maxRendered int

	gen         uint64
	seq         uint64
	results     *redblacktree.Tree
	suggestions []core.Suggestion
	rendered    bool
}

// Option configures an Aggregator.
type Option func(*Aggregator) error

// WithMaxRetained sets how many candidates are kept per query.
// Default is DefaultMaxRetained.
func WithMaxRetained(n int) Option {
	return func(a *Aggregator) error {
		if n < 1 {
			return ErrInvalidCapacity
		}
		a.maxRetained = n
		return nil
	}
}

// WithMaxRendered sets how many candidates are rendered.
// Default is DefaultMaxRendered.
func WithMaxRendered(n int) Option {
	return func(a *Aggregator) error {
		if n < 1 {
			return ErrInvalidCapacity
		}
		a.maxRendered = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAggregator creates an aggregator rendering to r.
// The aggregator starts at generation 0 with no state.
func NewAggregator(r Renderer, opts ...Option) (*Aggregator, error) {
	if r == nil {
		return nil, ErrRendererRequired
	}

	a := &Aggregator{
		renderer:    r,
		logger:      slog.Default(),
		maxRetained: DefaultMaxRetained,
		maxRendered: DefaultMaxRendered,
		results:     redblacktree.NewWith(byRank),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if a.maxRendered > a.maxRetained {
		a.maxRendered = a.maxRetained
	}

	return a, nil
}

// Reset starts generation gen. Results and suggestions are discarded and
// the renderer is told to clear when anything was rendered for the prior
// query, or unconditionally when force is set. Resets for a generation
// older than the current one are ignored.
func (a *Aggregator) Reset(gen uint64, force bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if gen < a.gen {
		a.logger.Debug("ignoring stale reset", "generation", gen, "current", a.gen)
		return
	}

	a.gen = gen
	a.seq = 0
	a.results.Clear()
	a.suggestions = nil

	if a.rendered || force {
		a.renderer.Clear()
		a.rendered = false
	}
	a.logger.Debug("aggregator reset", "generation", gen, "forced", force)
}

// Offer inserts a candidate for generation gen. It reports false, leaving
// all state untouched, when gen is not the current generation.
func (a *Aggregator) Offer(gen uint64, action core.ScoredAction) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if gen != a.gen {
		return false
	}

	key := rank{score: action.Score, seq: a.seq}
	a.seq++
	a.results.Put(key, action)
	for a.results.Size() > a.maxRetained {
		a.results.Remove(a.results.Right().Key)
	}

	if a.withinRendered(key) {
		a.renderer.RenderResults(a.topLocked(a.maxRendered))
		a.rendered = true
	}

	a.offerSuggestion(core.Suggestion{Noun: action.Input.Serialized, Score: action.Score})

	return true
}

// OfferNoun feeds a raw noun match for generation gen into the suggestion
// pair. Nouns with no compatible action are suggested too. It reports
// false when gen is not the current generation.
func (a *Aggregator) OfferNoun(gen uint64, m core.NounMatch) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if gen != a.gen || m.Entry.Noun == nil {
		return false
	}

	a.offerSuggestion(core.Suggestion{Noun: m.Entry.Noun.Serialized, Score: m.Score})
	return true
}

// withinRendered reports whether key is still retained among the first
// maxRendered results.
func (a *Aggregator) withinRendered(key rank) bool {
	it := a.results.Iterator()
	for i := 0; i < a.maxRendered && it.Next(); i++ {
		if it.Key().(rank) == key {
			return true
		}
	}
	return false
}

// offerSuggestion renders the suggestion pair when s changes it.
func (a *Aggregator) offerSuggestion(s core.Suggestion) {
	if a.suggestionEligible(s.Score) && a.suggest(s) {
		a.renderer.RenderSuggestions(slices.Clone(a.suggestions))
		a.rendered = true
	}
}

// suggestionEligible reports whether score ties or exceeds the second best
// distinct noun seen so far. The pair always holds the two best distinct
// nouns, so its second slot is that score.
func (a *Aggregator) suggestionEligible(score float64) bool {
	if len(a.suggestions) < MaxSuggestions {
		return true
	}
	return score >= a.suggestions[1].Score
}

// suggest updates the suggestion pair with s and reports whether the pair
// changed. A noun already in the pair only has its score raised. A new noun
// beating the best takes the first slot; any other eligible noun, including
// one tying the best, takes the second.
func (a *Aggregator) suggest(s core.Suggestion) bool {
	if i := slices.IndexFunc(a.suggestions, func(e core.Suggestion) bool { return e.Noun == s.Noun }); i >= 0 {
		if s.Score <= a.suggestions[i].Score {
			return false
		}
		a.suggestions[i].Score = s.Score
		if len(a.suggestions) == MaxSuggestions && a.suggestions[1].Score > a.suggestions[0].Score {
			a.suggestions[0], a.suggestions[1] = a.suggestions[1], a.suggestions[0]
		}
		return true
	}

	switch {
	case len(a.suggestions) == 0:
		a.suggestions = []core.Suggestion{s}
	case s.Score > a.suggestions[0].Score:
		a.suggestions = []core.Suggestion{s, a.suggestions[0]}
	default:
		a.suggestions = []core.Suggestion{a.suggestions[0], s}
	}
	return true
}

func (a *Aggregator) topLocked(n int) []core.ScoredAction {
	out := make([]core.ScoredAction, 0, min(n, a.results.Size()))
	it := a.results.Iterator()
	for len(out) < n && it.Next() {
		out = append(out, it.Value().(core.ScoredAction))
	}
	return out
}

// Results returns the rendered slice of the current results, best first.
func (a *Aggregator) Results() []core.ScoredAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.topLocked(a.maxRendered)
}

// Retained returns every retained result, best first.
func (a *Aggregator) Retained() []core.ScoredAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.topLocked(a.maxRetained)
}

// Suggestions returns the current suggestion pair, best first.
func (a *Aggregator) Suggestions() []core.Suggestion {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.suggestions)
}

// Generation returns the current generation.
func (a *Aggregator) Generation() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gen
}

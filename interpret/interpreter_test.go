package interpret

import (
	"context"
	"errors"
	"sync"
	"testing"

	crdberrors "github.com/cockroachdb/errors"
	"github.com/poiesic/actionbar/catalog"
	"github.com/poiesic/actionbar/core"
	"github.com/poiesic/actionbar/match"
	"github.com/poiesic/actionbar/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex(t *testing.T) *catalog.Index {
	t.Helper()
	c, err := catalog.LoadDir("../catalog/testdata")
	require.NoError(t, err)
	return catalog.Build(c)
}

func newTestInterpreter(t *testing.T, opts ...Option) *Interpreter {
	t.Helper()
	in, err := NewInterpreter(testIndex(t), opts...)
	require.NoError(t, err)
	t.Cleanup(in.Release)
	return in
}

func interpret(t *testing.T, in *Interpreter, query string) ([]core.ScoredAction, []core.NounMatch) {
	t.Helper()
	res := in.Interpret(context.Background(), Tokenize(query))

	var nouns []core.NounMatch
	done := make(chan struct{})
	go func() {
		defer close(done)
		nouns = stream.Collect(res.Nouns())
	}()
	actions := stream.Collect(res.Actions())
	<-done

	require.NoError(t, res.Err())
	return actions, nouns
}

func titles(actions []core.ScoredAction) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.Title())
	}
	return out
}

func TestNewInterpreter(t *testing.T) {
	t.Run("requires index", func(t *testing.T) {
		_, err := NewInterpreter(nil)
		assert.ErrorIs(t, err, ErrIndexRequired)
	})

	t.Run("rejects nil matcher", func(t *testing.T) {
		_, err := NewInterpreter(testIndex(t), WithMatcher(nil))
		assert.ErrorIs(t, err, ErrMatcherRequired)
	})

	t.Run("accepts options", func(t *testing.T) {
		in, err := NewInterpreter(testIndex(t), WithPoolSize(2), WithLogger(nil), WithObserver(nil))
		require.NoError(t, err)
		defer in.Release()
		assert.NotNil(t, in.matcher)
		assert.Equal(t, 2, in.pool.Cap())
	})
}

func TestInterpret_VerbThenNoun(t *testing.T) {
	in := newTestInterpreter(t)
	actions, nouns := interpret(t, in, "call jane")

	require.Len(t, actions, 1)
	a := actions[0]
	assert.Equal(t, "Call Jane Doe", a.Title())
	assert.Equal(t, core.NounType("contact"), a.InputType)
	assert.InDelta(t, 3.5, a.Score, 1e-9)
	assert.Empty(t, a.TrailingText)
	assert.Empty(t, nouns)
}

func TestInterpret_NounThenVerb(t *testing.T) {
	in := newTestInterpreter(t)
	actions, _ := interpret(t, in, "jane call")

	require.Len(t, actions, 1)
	assert.Equal(t, "Call Jane Doe", actions[0].Title())
	assert.Empty(t, actions[0].TrailingText)
}

func TestInterpret_NounOnly(t *testing.T) {
	in := newTestInterpreter(t)
	actions, nouns := interpret(t, in, "jane")

	assert.ElementsMatch(t, []string{"Call Jane Doe", "Text Jane Doe", "Play Jane's Addiction"}, titles(actions))
	require.Len(t, nouns, 2)
	for _, a := range actions {
		p, ok := a.Action.PrimaryParam()
		require.True(t, ok)
		assert.Equal(t, p, a.InputType)
		assert.Empty(t, a.TrailingText)
	}
}

func TestInterpret_VerbAloneListsType(t *testing.T) {
	in := newTestInterpreter(t)
	actions, _ := interpret(t, in, "p")

	assert.ElementsMatch(t, []string{"Play Jane's Addiction", "Play Muse"}, titles(actions))
	for _, a := range actions {
		assert.InDelta(t, 1.25, a.Score, 1e-9)
	}
}

func TestInterpret_TrailingText(t *testing.T) {
	in := newTestInterpreter(t)

	t.Run("verb first", func(t *testing.T) {
		actions, _ := interpret(t, in, "text jane hello world")
		require.Len(t, actions, 1)
		assert.Equal(t, "Text Jane Doe", actions[0].Title())
		assert.Equal(t, "hello world", actions[0].TrailingText)
		assert.Equal(t, "hello world", actions[0].Subtitle())
	})

	t.Run("noun first", func(t *testing.T) {
		actions, _ := interpret(t, in, "jane doe text hi")
		require.Len(t, actions, 1)
		assert.Equal(t, "hi", actions[0].TrailingText)
	})
}

func TestInterpret_NoMatches(t *testing.T) {
	in := newTestInterpreter(t)
	actions, nouns := interpret(t, in, "xz")
	assert.Empty(t, actions)
	assert.Empty(t, nouns)
}

func TestInterpret_EmptyTerms(t *testing.T) {
	in := newTestInterpreter(t)
	actions, nouns := interpret(t, in, "   ")
	assert.Empty(t, actions)
	assert.Empty(t, nouns)
}

func TestInterpret_Deterministic(t *testing.T) {
	in := newTestInterpreter(t)
	first, _ := interpret(t, in, "jane")
	for i := 0; i < 5; i++ {
		again, _ := interpret(t, in, "jane")
		assert.ElementsMatch(t, titles(first), titles(again))
	}
}

func TestInterpret_SubsequenceMatcher(t *testing.T) {
	in := newTestInterpreter(t, WithMatcher(match.Subsequence{}))
	actions, _ := interpret(t, in, "call jane")

	require.NotEmpty(t, actions)
	assert.Contains(t, titles(actions), "Call Jane Doe")
}

type anchoredFailure struct {
	match.Matcher
}

func (a anchoredFailure) Match(p match.Pattern, src match.Source) ([]match.Hit, error) {
	if p.Anchored {
		return nil, errors.New("verb index unavailable")
	}
	return a.Matcher.Match(p, src)
}

type recordingObserver struct {
	mu       sync.Mutex
	failures map[string]int
}

func (r *recordingObserver) MatcherFailed(strategy string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures == nil {
		r.failures = make(map[string]int)
	}
	r.failures[strategy]++
}

func TestInterpret_MatcherFailureDegrades(t *testing.T) {
	grep, err := match.NewGrep()
	require.NoError(t, err)
	defer grep.Close()

	obs := &recordingObserver{}
	in := newTestInterpreter(t, WithMatcher(anchoredFailure{grep}), WithObserver(obs))

	actions, nouns := interpret(t, in, "jane")
	assert.Len(t, actions, 3)
	assert.Len(t, nouns, 2)

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, 1, obs.failures[strategyVerb])
	assert.Zero(t, obs.failures[strategyNoun])
}

func TestInterpret_Cancelled(t *testing.T) {
	in := newTestInterpreter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := in.Interpret(ctx, Tokenize("jane"))
	go stream.Collect(res.Nouns())
	stream.Collect(res.Actions())
	assert.NoError(t, res.Err())
}

func TestPlanNoun(t *testing.T) {
	terms := []string{"text", "jane", "hello", "world"}

	t.Run("verb first", func(t *testing.T) {
		plan, err := planNoun(terms, "text")
		require.NoError(t, err)
		assert.Equal(t, []string{"jane"}, plan.pattern.Terms)
		assert.Equal(t, "hello", plan.pattern.Optional)
		assert.False(t, plan.trailingKnown)
	})

	t.Run("verb alone", func(t *testing.T) {
		plan, err := planNoun([]string{"call"}, "call")
		require.NoError(t, err)
		assert.True(t, plan.pattern.Empty())
	})

	t.Run("verb later", func(t *testing.T) {
		plan, err := planNoun(terms, "hello")
		require.NoError(t, err)
		assert.Equal(t, []string{"text", "jane"}, plan.pattern.Terms)
		assert.Equal(t, "world", plan.trailing)
		assert.True(t, plan.trailingKnown)
	})

	t.Run("term missing", func(t *testing.T) {
		_, err := planNoun(terms, "call")
		require.Error(t, err)
		assert.True(t, crdberrors.IsAssertionFailure(err))
	})
}

func TestTrailingAfter(t *testing.T) {
	terms := []string{"text", "jane", "hello", "world"}
	assert.Equal(t, "hello world", trailingAfter(terms, "Jane"))
	assert.Equal(t, "world", trailingAfter(terms, " Jane Doe"))
	assert.Empty(t, trailingAfter(terms, ""))
	assert.Empty(t, trailingAfter([]string{"call", "jane"}, "Jane"))
}

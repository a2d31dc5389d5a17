package match

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGrep(t *testing.T) *Grep {
	t.Helper()
	g, err := NewGrep()
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })
	return g
}

func hitsByIndex(hits []Hit) map[int]Hit {
	out := make(map[int]Hit, len(hits))
	for _, h := range hits {
		out[h.Index] = h
	}
	return out
}

func TestPattern_Expr(t *testing.T) {
	tests := []struct {
		name    string
		pattern Pattern
		want    string
	}{
		{"prefix", Prefix("ca"), `(?i)^ca`},
		{"single term", Terms("jane"), `(?i)jane\S*`},
		{"joined terms", Terms("jane", "doe"), `(?i)jane\S* doe\S*`},
		{"optional term", Pattern{Terms: []string{"jane"}, Optional: "doe"}, `(?i)jane\S*(?: doe\S*)?`},
		{"quoted metacharacters", Terms("a+b"), `(?i)a\+b\S*`},
		{"empty", Terms(), `(?i)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pattern.Expr())
		})
	}
}

func TestGrep_Prefix(t *testing.T) {
	g := newGrep(t)
	src := stringSource{"call", "Cancel", "dial"}

	hits, err := g.Match(Prefix("ca"), src)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	byIndex := hitsByIndex(hits)
	assert.Equal(t, "ca", byIndex[0].Captures[0])
	assert.Equal(t, "Ca", byIndex[1].Captures[0])
	assert.NotContains(t, byIndex, 2)

	full, err := g.Match(Prefix("call"), src)
	require.NoError(t, err)
	require.Len(t, full, 1)
	assert.Greater(t, full[0].Score, byIndex[0].Score, "a longer prefix should score higher")
}

func TestGrep_Terms(t *testing.T) {
	g := newGrep(t)
	src := stringSource{"Jane Doe", "Mary Jane", "Janet", "John Smith"}

	hits, err := g.Match(Terms("jane"), src)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	byIndex := hitsByIndex(hits)
	assert.Equal(t, "Jane", byIndex[0].Captures[0])
	assert.Equal(t, "Jane", byIndex[1].Captures[0])
	assert.Equal(t, "Janet", byIndex[2].Captures[0])

	assert.InDelta(t, 1.5, byIndex[0].Score, 1e-9)
	assert.InDelta(t, 4.0/9.0+0.5, byIndex[1].Score, 1e-9)
	assert.InDelta(t, 2.0, byIndex[2].Score, 1e-9)
}

func TestGrep_PartialWords(t *testing.T) {
	g := newGrep(t)
	src := stringSource{"Jane Doe", "Jane Austen"}

	hits, err := g.Match(Terms("ja", "do"), src)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Index)
	assert.Equal(t, "Jane Doe", hits[0].Captures[0])
}

func TestGrep_Optional(t *testing.T) {
	g := newGrep(t)
	src := stringSource{"Jane Doe"}

	without, err := g.Match(Pattern{Terms: []string{"jane"}, Optional: "hello"}, src)
	require.NoError(t, err)
	require.Len(t, without, 1)
	assert.Equal(t, "Jane", without[0].Captures[0])

	with, err := g.Match(Pattern{Terms: []string{"jane"}, Optional: "d"}, src)
	require.NoError(t, err)
	require.Len(t, with, 1)
	assert.Equal(t, "Jane Doe", with[0].Captures[0])
}

func TestGrep_Metacharacters(t *testing.T) {
	g := newGrep(t)
	hits, err := g.Match(Terms("a+b"), stringSource{"a+b c", "aab"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Index)
}

func TestGrep_EmptyPattern(t *testing.T) {
	g := newGrep(t)
	hits, err := g.Match(Terms(), stringSource{"a", "b"})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.Zero(t, h.Score)
		assert.Equal(t, []string{""}, h.Captures)
	}
}

func TestGrep_NoMatches(t *testing.T) {
	g := newGrep(t)
	hits, err := g.Match(Terms("xz"), stringSource{"Jane Doe"})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

type panicMatcher struct{}

func (panicMatcher) Match(Pattern, Source) ([]Hit, error) { panic("boom") }

type failingMatcher struct{}

func (failingMatcher) Match(Pattern, Source) ([]Hit, error) {
	return []Hit{{Index: 0}}, errors.New("backend down")
}

func TestSafe(t *testing.T) {
	t.Run("panic becomes provider failure", func(t *testing.T) {
		hits, err := Safe(panicMatcher{}).Match(Terms("a"), stringSource{"a"})
		assert.ErrorIs(t, err, ErrProviderFailure)
		assert.Nil(t, hits)
	})

	t.Run("error is wrapped and hits dropped", func(t *testing.T) {
		hits, err := Safe(failingMatcher{}).Match(Terms("a"), stringSource{"a"})
		assert.ErrorIs(t, err, ErrProviderFailure)
		assert.Nil(t, hits)
	})

	t.Run("wrapping twice is a no-op", func(t *testing.T) {
		m := Safe(Subsequence{})
		assert.Equal(t, m, Safe(m))
	})
}

func TestNew(t *testing.T) {
	for _, name := range []string{NameGrep, NameSubsequence, ""} {
		m, err := New(name)
		require.NoError(t, err, name)
		require.NotNil(t, m)
		assert.NoError(t, Close(m))
	}

	_, err := New("soundex")
	assert.ErrorIs(t, err, ErrUnknownMatcher)
}

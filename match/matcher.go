package match

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Separator is the inter-term fuzzy separator: any run of non-whitespace
// characters followed by a single space.
const Separator = `\S* `

// Matcher names accepted by New.
const (
	NameGrep        = "grep"
	NameSubsequence = "subsequence"
)

// Source is an indexed corpus of strings. It has the same shape as
// fuzzy.Source so corpora can be handed to either provider.
type Source interface {
	// String returns the value matched for item i.
	String(i int) string
	// Len returns the number of items.
	Len() int
}

// Hit is a single matching item.
type Hit struct {
	Index    int      // Index of the item in the Source
	Score    float64  // Higher is a tighter match
	Captures []string // Captures[0] is the matched text
}

// Matcher yields a Hit for every item of src matching p.
// Implementations must be safe for concurrent use.
type Matcher interface {
	Match(p Pattern, src Source) ([]Hit, error)
}

// Pattern is an ordered sequence of query terms.
type Pattern struct {
	Terms    []string // Required terms, in order
	Optional string   // Optional term following the last required term
	Anchored bool     // Match must start at the beginning of the value
}

// Prefix returns a pattern matching values that begin with term.
func Prefix(term string) Pattern {
	return Pattern{Terms: []string{term}, Anchored: true}
}

// Terms returns an unanchored pattern of the given terms.
func Terms(terms ...string) Pattern {
	return Pattern{Terms: terms}
}

// Empty reports whether the pattern has no required terms. An empty
// pattern matches every item.
func (p Pattern) Empty() bool {
	return len(p.Terms) == 0
}

// Expr renders the pattern as a case-insensitive regular expression.
// Unanchored patterns extend the last term to the end of its word;
// anchored ones match exactly the typed prefix.
func (p Pattern) Expr() string {
	var b strings.Builder
	b.WriteString("(?i)")
	if p.Anchored {
		b.WriteByte('^')
	}
	for i, t := range p.Terms {
		if i > 0 {
			b.WriteString(Separator)
		}
		b.WriteString(regexp.QuoteMeta(t))
	}
	if !p.Anchored && len(p.Terms) > 0 {
		b.WriteString(`\S*`)
	}
	if p.Optional != "" && len(p.Terms) > 0 {
		b.WriteString(`(?: `)
		b.WriteString(regexp.QuoteMeta(p.Optional))
		b.WriteString(`\S*)?`)
	}
	return b.String()
}

func (p Pattern) String() string {
	return p.Expr()
}

// everything matches every item of src with a zero score.
func everything(src Source) []Hit {
	hits := make([]Hit, src.Len())
	for i := range hits {
		hits[i] = Hit{Index: i, Captures: []string{""}}
	}
	return hits
}

type safeMatcher struct {
	m Matcher
}

// Safe wraps m so that errors and panics surface as ErrProviderFailure
// with no hits.
func Safe(m Matcher) Matcher {
	if _, ok := m.(safeMatcher); ok {
		return m
	}
	return safeMatcher{m: m}
}

func (s safeMatcher) Match(p Pattern, src Source) (hits []Hit, err error) {
	defer func() {
		if r := recover(); r != nil {
			hits = nil
			err = fmt.Errorf("%w: panic: %v", ErrProviderFailure, r)
		}
	}()

	hits, err = s.m.Match(p, src)
	if err != nil {
		if !errors.Is(err, ErrProviderFailure) {
			err = fmt.Errorf("%w: %w", ErrProviderFailure, err)
		}
		return nil, err
	}
	return hits, nil
}

// New returns the provider registered under name, wrapped with Safe.
func New(name string) (Matcher, error) {
	switch name {
	case NameGrep, "":
		g, err := NewGrep()
		if err != nil {
			return nil, err
		}
		return Safe(g), nil
	case NameSubsequence:
		return Safe(Subsequence{}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMatcher, name)
	}
}

// Close releases resources held by m, if any.
func Close(m Matcher) error {
	if s, ok := m.(safeMatcher); ok {
		m = s.m
	}
	if c, ok := m.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

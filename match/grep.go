package match

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/dgraph-io/ristretto/v2"
)

const (
	// Compiled expressions kept by a Grep; one per distinct pattern.
	grepCacheSize = 1024

	startBonus        = 1.0
	wordBoundaryBonus = 0.5
)

// Grep matches by evaluating Pattern.Expr as a regular expression.
type Grep struct {
	cache *ristretto.Cache[string, *regexp.Regexp]
}

var _ Matcher = (*Grep)(nil)

// NewGrep creates a Grep with an empty expression cache.
func NewGrep() (*Grep, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, *regexp.Regexp]{
		NumCounters: grepCacheSize * 10,
		MaxCost:     grepCacheSize,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Grep{cache: cache}, nil
}

// Match returns a hit for every value the pattern matches.
// Captures holds the full match followed by any submatches.
func (g *Grep) Match(p Pattern, src Source) ([]Hit, error) {
	if p.Empty() {
		return everything(src), nil
	}

	re, err := g.compile(p.Expr())
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for i := 0; i < src.Len(); i++ {
		value := src.String(i)
		loc := re.FindStringSubmatchIndex(value)
		if loc == nil {
			continue
		}

		captures := make([]string, len(loc)/2)
		for k := range captures {
			if loc[2*k] >= 0 {
				captures[k] = value[loc[2*k]:loc[2*k+1]]
			}
		}

		hits = append(hits, Hit{
			Index:    i,
			Score:    spanScore(value, loc[0], loc[1]),
			Captures: captures,
		})
	}
	return hits, nil
}

// Close releases the expression cache.
func (g *Grep) Close() error {
	g.cache.Close()
	return nil
}

func (g *Grep) compile(expr string) (*regexp.Regexp, error) {
	if re, ok := g.cache.Get(expr); ok {
		return re, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	g.cache.Set(expr, re, 1)
	return re, nil
}

// spanScore rates a match by the share of the value it covers, plus a
// bonus when it starts the value or a word.
func spanScore(value string, start, end int) float64 {
	if len(value) == 0 {
		return 0
	}
	score := float64(end-start) / float64(len(value))
	switch {
	case start == 0:
		score += startBonus
	case isWordStart(value, start):
		score += wordBoundaryBonus
	}
	return score
}

func isWordStart(value string, at int) bool {
	prev, _ := utf8.DecodeLastRuneInString(value[:at])
	return unicode.IsSpace(prev) || unicode.IsPunct(prev)
}

package match

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// Subsequence matches the concatenated pattern terms as a character
// subsequence, in the style of editor file pickers. It tolerates typos
// that drop characters but not ones that add them.
type Subsequence struct{}

var _ Matcher = Subsequence{}

// Match returns a hit for every value containing the pattern's characters
// in order. When the pattern has an optional term, values matching with
// it keep that match; the rest fall back to the required terms alone.
func (Subsequence) Match(p Pattern, src Source) ([]Hit, error) {
	if p.Empty() {
		return everything(src), nil
	}

	required := strings.Join(p.Terms, "")
	if p.Optional == "" {
		return subsequenceHits(required, p.Anchored, src), nil
	}

	best := make(map[int]Hit)
	for _, h := range subsequenceHits(required+p.Optional, p.Anchored, src) {
		best[h.Index] = h
	}
	hits := make([]Hit, 0, len(best))
	for _, h := range subsequenceHits(required, p.Anchored, src) {
		if with, ok := best[h.Index]; ok {
			hits = append(hits, with)
			continue
		}
		hits = append(hits, h)
	}
	return hits, nil
}

func subsequenceHits(needle string, anchored bool, src Source) []Hit {
	matches := fuzzy.FindFromNoSort(needle, src)
	hits := make([]Hit, 0, len(matches))
	for _, m := range matches {
		if len(m.MatchedIndexes) == 0 {
			continue
		}
		first := m.MatchedIndexes[0]
		if anchored && first != 0 {
			continue
		}
		last := m.MatchedIndexes[len(m.MatchedIndexes)-1]
		_, size := utf8.DecodeRuneInString(m.Str[last:])
		hits = append(hits, Hit{
			Index:    m.Index,
			Score:    float64(m.Score),
			Captures: []string{m.Str[first : last+size]},
		})
	}
	return hits
}

package interpret

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Tokenize splits a raw query into lowercase terms. Compatibility forms
// are normalized first so full-width and ligature input match the catalog.
// An empty or blank query yields no terms.
func Tokenize(raw string) []string {
	folded := cases.Lower(language.Und).String(norm.NFKC.String(raw))
	terms := strings.Fields(folded)
	if len(terms) == 0 {
		return nil
	}
	return terms
}

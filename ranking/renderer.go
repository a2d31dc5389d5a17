package ranking

import "github.com/poiesic/actionbar/core"

// Renderer receives the output of an Aggregator. Every call carries a full
// replacement of the collection, never a diff.
type Renderer interface {
	// Clear discards everything rendered for the previous query.
	Clear()
	// RenderResults replaces the result list. Results are in strictly
	// descending score order.
	RenderResults(results []core.ScoredAction)
	// RenderSuggestions replaces the suggestion list.
	RenderSuggestions(suggestions []core.Suggestion)
}

// NopRenderer discards all output. Use it when results are read back
// through Aggregator.Results instead.
type NopRenderer struct{}

var _ Renderer = NopRenderer{}

func (NopRenderer) Clear()                                {}
func (NopRenderer) RenderResults(_ []core.ScoredAction)   {}
func (NopRenderer) RenderSuggestions(_ []core.Suggestion) {}

package interpret

import (
	"context"

	"github.com/poiesic/actionbar/core"
	"github.com/poiesic/actionbar/match"
	"github.com/poiesic/actionbar/stream"
)

// nounFirst matches the whole query against every noun. Each hit is
// reported as a NounMatch and expanded into one candidate per action
// whose primary type is the noun's type.
func (in *Interpreter) nounFirst(ctx context.Context, terms []string, nouns chan<- core.NounMatch, out chan<- core.ScoredAction) {
	for _, h := range in.find(ctx, strategyNoun, match.Terms(terms...), in.nouns) {
		entry := in.index.Nouns[h.Index]
		nm := core.NounMatch{Entry: entry, Score: h.Score, Captures: h.Captures}
		if !stream.Send(ctx, nouns, nm) {
			return
		}

		for _, te := range in.index.ActionsFor(entry.Type) {
			if p, _ := te.Action.PrimaryParam(); p != te.Type {
				continue
			}
			sa := core.ScoredAction{
				App:       te.App,
				Action:    te.Action,
				Input:     entry.Noun,
				InputType: te.Type,
				Score:     h.Score,
			}
			if !stream.Send(ctx, out, sa) {
				return
			}
		}
	}
}

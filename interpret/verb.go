package interpret

import (
	"context"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/poiesic/actionbar/core"
	"github.com/poiesic/actionbar/match"
	"github.com/poiesic/actionbar/stream"
)

// verbHit is a verb entry matched by one of the query terms.
type verbHit struct {
	entry core.VerbEntry
	term  string
	score float64
}

// nounPlan is the noun pattern to try once a verb has matched at some
// position of the query, plus the trailing text when it is already known.
type nounPlan struct {
	pattern       match.Pattern
	trailing      string
	trailingKnown bool
}

// planNoun derives the noun pattern for a verb matched by term.
//
// A verb in first position looks for the noun in the next term, with the
// term after that as an optional extension. A verb further in looks for
// the noun in everything typed before it and treats the rest as trailing
// text.
func planNoun(terms []string, term string) (nounPlan, error) {
	i := slices.Index(terms, term)
	switch {
	case i == 0:
		var p match.Pattern
		if len(terms) > 1 {
			p.Terms = []string{terms[1]}
			if len(terms) > 2 {
				p.Optional = terms[2]
			}
		}
		return nounPlan{pattern: p}, nil
	case i > 0:
		return nounPlan{
			pattern:       match.Terms(terms[:i]...),
			trailing:      strings.Join(terms[i+1:], " "),
			trailingKnown: true,
		}, nil
	default:
		return nounPlan{}, errors.AssertionFailedf("verb term %q not found in query terms %v", term, terms)
	}
}

// trailingAfter returns the query text following the verb and the matched
// noun text, for queries whose verb came first.
func trailingAfter(terms []string, capture string) string {
	noun := strings.TrimSpace(capture)
	if noun == "" {
		return ""
	}
	w := len(strings.Fields(noun))
	if w+1 >= len(terms) {
		return ""
	}
	return strings.Join(terms[w+1:], " ")
}

// verbFirst matches every term against the verb index and, for every
// verb hit, the rest of the query against the nouns of the action's
// primary type.
func (in *Interpreter) verbFirst(ctx context.Context, terms []string, out chan<- core.ScoredAction) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var fault error
	verbs := stream.FlatMap(ctx, stream.FromSlice(ctx, unique(terms)), func(term string) <-chan verbHit {
		return in.matchVerbs(ctx, term)
	})
	actions := stream.FlatMap(ctx, verbs, func(vh verbHit) <-chan core.ScoredAction {
		plan, err := planNoun(terms, vh.term)
		if err != nil {
			if fault == nil {
				fault = err
			}
			cancel()
			return stream.Closed[core.ScoredAction]()
		}
		return in.applyVerb(ctx, terms, vh, plan)
	})

	for a := range actions {
		if !stream.Send(ctx, out, a) {
			for range actions {
			}
			break
		}
	}

	if fault != nil {
		in.logger.Error("verb-first interpretation aborted", "err", fault)
	}
	return fault
}

func (in *Interpreter) matchVerbs(ctx context.Context, term string) <-chan verbHit {
	out := make(chan verbHit)
	go func() {
		defer close(out)
		for _, h := range in.find(ctx, strategyVerb, match.Prefix(term), in.verbs) {
			vh := verbHit{entry: in.index.Verbs[h.Index], term: term, score: h.Score}
			if !stream.Send(ctx, out, vh) {
				return
			}
		}
	}()
	return out
}

func (in *Interpreter) applyVerb(ctx context.Context, terms []string, vh verbHit, plan nounPlan) <-chan core.ScoredAction {
	t, ok := vh.entry.Action.PrimaryParam()
	if !ok {
		return stream.Closed[core.ScoredAction]()
	}
	corpus := in.index.NounsOf(t)
	if len(corpus) == 0 {
		return stream.Closed[core.ScoredAction]()
	}

	out := make(chan core.ScoredAction)
	go func() {
		defer close(out)
		for _, h := range in.find(ctx, strategyVerb, plan.pattern, nounSource(corpus)) {
			trailing := plan.trailing
			if !plan.trailingKnown && len(h.Captures) > 0 {
				trailing = trailingAfter(terms, h.Captures[0])
			}
			sa := core.ScoredAction{
				App:          vh.entry.App,
				Action:       vh.entry.Action,
				Input:        corpus[h.Index].Noun,
				InputType:    t,
				Score:        vh.score + h.Score,
				TrailingText: trailing,
			}
			if !stream.Send(ctx, out, sa) {
				return
			}
		}
	}()
	return out
}

// unique returns terms without repeats, keeping first occurrences.
func unique(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

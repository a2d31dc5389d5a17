package catalog

import "github.com/poiesic/actionbar/core"

// Index holds the derived verb, type and noun indices of a catalog.
type Index struct {
	Verbs []core.VerbEntry
	Types []core.TypeEntry
	Nouns []core.NounEntry

	nounsByType   map[core.NounType][]core.NounEntry
	actionsByType map[core.NounType][]core.TypeEntry
}

// Build derives an Index from the catalog.
func Build(c *core.Catalog) *Index {
	ix := &Index{
		nounsByType:   make(map[core.NounType][]core.NounEntry),
		actionsByType: make(map[core.NounType][]core.TypeEntry),
	}

	for _, app := range c.Apps {
		for _, action := range app.Actions {
			for _, name := range action.Names {
				ix.Verbs = append(ix.Verbs, core.VerbEntry{Name: name, Action: action, App: app})
			}
			for _, t := range action.Params {
				entry := core.TypeEntry{Type: t, Action: action, App: app}
				ix.Types = append(ix.Types, entry)
				ix.actionsByType[t] = append(ix.actionsByType[t], entry)
			}
		}
	}

	for _, t := range c.Types() {
		for _, noun := range c.Nouns[t] {
			entry := core.NounEntry{Type: t, Noun: noun}
			ix.Nouns = append(ix.Nouns, entry)
			ix.nounsByType[t] = append(ix.nounsByType[t], entry)
		}
	}

	return ix
}

// NounsOf returns the noun entries of a single type.
func (ix *Index) NounsOf(t core.NounType) []core.NounEntry {
	return ix.nounsByType[t]
}

// ActionsFor returns the type entries of every action accepting t.
func (ix *Index) ActionsFor(t core.NounType) []core.TypeEntry {
	return ix.actionsByType[t]
}

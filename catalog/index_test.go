package catalog

import (
	"testing"

	"github.com/poiesic/actionbar/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog() *core.Catalog {
	call := &core.Action{Names: []string{"call", "dial"}, Params: []core.NounType{"contact"}, CaptionFormat: "Call %"}
	share := &core.Action{Names: []string{"share"}, Params: []core.NounType{"contact", "artist"}, CaptionFormat: "Share %"}
	mute := &core.Action{CaptionFormat: "Mute %"}
	return &core.Catalog{
		Apps: []*core.App{
			{ID: "phone", Actions: []*core.Action{call, mute}},
			{ID: "social", Actions: []*core.Action{share}},
		},
		Nouns: map[core.NounType][]*core.Noun{
			"contact": {{Type: "contact", Serialized: "Jane Doe"}, {Type: "contact", Serialized: "John Smith"}},
			"artist":  {{Type: "artist", Serialized: "Muse"}},
		},
	}
}

func TestBuild(t *testing.T) {
	ix := Build(sampleCatalog())

	t.Run("verb entries per name", func(t *testing.T) {
		names := make([]string, 0, len(ix.Verbs))
		for _, v := range ix.Verbs {
			names = append(names, v.Name)
		}
		assert.ElementsMatch(t, []string{"call", "dial", "share"}, names)
	})

	t.Run("type entries per param", func(t *testing.T) {
		require.Len(t, ix.Types, 3)
		assert.Len(t, ix.ActionsFor("contact"), 2)
		assert.Len(t, ix.ActionsFor("artist"), 1)
		assert.Empty(t, ix.ActionsFor("place"))
	})

	t.Run("noun entries per type", func(t *testing.T) {
		require.Len(t, ix.Nouns, 3)
		assert.Len(t, ix.NounsOf("contact"), 2)
		for _, e := range ix.NounsOf("artist") {
			assert.Equal(t, core.NounType("artist"), e.Type)
		}
	})

	t.Run("action without names or params contributes nothing", func(t *testing.T) {
		for _, v := range ix.Verbs {
			assert.NotEqual(t, "Mute %", v.Action.CaptionFormat)
		}
		for _, e := range ix.Types {
			assert.NotEqual(t, "Mute %", e.Action.CaptionFormat)
		}
	})
}

func TestBuild_Projection(t *testing.T) {
	c := sampleCatalog()
	a := Build(c)
	b := Build(c)
	assert.ElementsMatch(t, a.Verbs, b.Verbs)
	assert.ElementsMatch(t, a.Types, b.Types)
	assert.ElementsMatch(t, a.Nouns, b.Nouns)
}

func TestBuild_EmptyCatalog(t *testing.T) {
	ix := Build(&core.Catalog{})
	assert.Empty(t, ix.Verbs)
	assert.Empty(t, ix.Types)
	assert.Empty(t, ix.Nouns)
	assert.Empty(t, ix.NounsOf("contact"))
}

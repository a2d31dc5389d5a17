package core

import (
	"encoding/binary"
	"sort"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// CaptionMarker is replaced by the noun's serialized form when a caption is rendered.
const CaptionMarker = "%"

// ID is a unique identifier for catalog entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// NounType names a kind of noun, e.g. "contact" or "artist".
type NounType string

// App is a catalog application exposing actions.
type App struct {
	ID      string
	Actions []*Action
}

// Action is an app-defined operation invocable on a noun of a declared type.
type Action struct {
	Names         []string   // Verb synonyms, matched case-insensitively
	Params        []NounType // Accepted noun types; only the first is ever matched
	CaptionFormat string     // Caption template with a single CaptionMarker
	Parameterized bool       // Whether trailing query text is shown as a parameter
}

// PrimaryParam returns the noun type the action is matched against.
// Actions with no params report ok=false.
func (a *Action) PrimaryParam() (NounType, bool) {
	if len(a.Params) == 0 {
		return "", false
	}
	return a.Params[0], true
}

// Caption renders the caption template for the given noun.
func (a *Action) Caption(noun *Noun) string {
	if noun == nil {
		return a.CaptionFormat
	}
	return strings.Replace(a.CaptionFormat, CaptionMarker, noun.Serialized, 1)
}

// Noun is a typed data record. Matching only ever looks at Serialized;
// the remaining fields are display data for renderers.
type Noun struct {
	ID         ID
	Type       NounType
	Serialized string
	Tel        string
	Subtitle   string
	Attributes map[string]string
}

// Key returns the content tuple used for the noun's ID.
func (n *Noun) Key() string {
	return "(" + string(n.Type) + "," + n.Serialized + ")"
}

// Catalog is the fixed corpus of apps and nouns handed over at startup.
type Catalog struct {
	Apps  []*App
	Nouns map[NounType][]*Noun
}

// Types returns the declared noun types in sorted order.
func (c *Catalog) Types() []NounType {
	types := make([]NounType, 0, len(c.Nouns))
	for t := range c.Nouns {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// AssignIDs fills in content IDs and types for every noun that lacks them.
func (c *Catalog) AssignIDs() {
	for t, nouns := range c.Nouns {
		for _, n := range nouns {
			if n.Type == "" {
				n.Type = t
			}
			if n.ID == 0 {
				n.ID = IDFromContent(n.Key())
			}
		}
	}
}

// VerbEntry pairs a verb synonym with the action and app declaring it.
type VerbEntry struct {
	Name   string
	Action *Action
	App    *App
}

// TypeEntry pairs a noun type with an action accepting it.
type TypeEntry struct {
	Type   NounType
	Action *Action
	App    *App
}

// NounEntry pairs a noun with its type.
type NounEntry struct {
	Type NounType
	Noun *Noun
}

// ScoredAction is a candidate action applied to a noun, flowing from
// interpretation into ranking.
type ScoredAction struct {
	App          *App
	Action       *Action
	Input        *Noun
	InputType    NounType
	Score        float64
	TrailingText string // Query text after the noun and verb; empty when unknown
}

// Title returns the rendered caption.
func (s *ScoredAction) Title() string {
	return s.Action.Caption(s.Input)
}

// Subtitle returns the secondary line for display: trailing text for
// parameterized actions, otherwise the noun's phone number for contacts
// or its subtitle for everything else.
func (s *ScoredAction) Subtitle() string {
	if s.Action.Parameterized && s.TrailingText != "" {
		return s.TrailingText
	}
	if s.InputType == "contact" && s.Input.Tel != "" {
		return s.Input.Tel
	}
	return s.Input.Subtitle
}

// NounMatch is a noun that matched a query, independent of any action.
type NounMatch struct {
	Entry    NounEntry
	Score    float64
	Captures []string
}

// Suggestion is an auto-completion entry for the query input.
type Suggestion struct {
	Noun  string // Serialized noun
	Score float64
}

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/poiesic/actionbar/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const testAssets = "../../catalog/testdata"

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %s not found", name)
	return nil
}

func TestImportCommandFlags(t *testing.T) {
	t.Run("assets is required", func(t *testing.T) {
		app := newApp()
		err := app.Run([]string{"actionbar", "import", "--db", filepath.Join(t.TempDir(), "db")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "assets")
	})

	t.Run("db is required", func(t *testing.T) {
		app := newApp()
		err := app.Run([]string{"actionbar", "import", "--assets", testAssets})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})

	t.Run("backend defaults to badger", func(t *testing.T) {
		cmd := findCommand(t, newApp(), "import")
		var backendFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "backend" {
				backendFlag = f
				break
			}
		}
		require.NotNil(t, backendFlag)
		assert.Equal(t, "badger", backendFlag.Value)
	})

	t.Run("json is not an import target", func(t *testing.T) {
		app := newApp()
		app.ErrWriter = &bytes.Buffer{}
		err := app.Run([]string{"actionbar", "import", "--assets", testAssets,
			"--db", t.TempDir(), "--backend", "json"})
		require.Error(t, err)
	})

	t.Run("batch size must be positive", func(t *testing.T) {
		app := newApp()
		app.ErrWriter = &bytes.Buffer{}
		err := app.Run([]string{"actionbar", "import", "--assets", testAssets,
			"--db", filepath.Join(t.TempDir(), "db"), "--batch-size", "0"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch-size")
	})
}

func TestLogLevel(t *testing.T) {
	app := newApp()
	app.Reader = strings.NewReader("")
	app.Writer = &bytes.Buffer{}
	err := app.Run([]string{"actionbar", "--log-level", "loud", "query", "--catalog", testAssets})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestQueryCommand_JSON(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Reader = strings.NewReader("call jane\nmuse\n")
	app.Writer = &out

	err := app.Run([]string{"actionbar", "query", "--catalog", testAssets})
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "> call jane")
	assert.Contains(t, output, "Call Jane Doe  (555-0100)")
	assert.Contains(t, output, "Play Muse  (Rock band)")
	assert.Contains(t, output, "suggest: Muse")
}

func TestQueryCommand_Keystrokes(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Reader = strings.NewReader("call ja\n")
	app.Writer = &out

	err := app.Run([]string{"actionbar", "query", "--keystrokes", "--catalog", testAssets})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Call Jane Doe")
	assert.NotContains(t, out.String(), "John Smith")
}

func TestImportThenQuery(t *testing.T) {
	for _, backend := range []string{"badger", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			dbPath := filepath.Join(t.TempDir(), "catalog")

			var progress bytes.Buffer
			app := newApp()
			app.ErrWriter = &progress
			err := app.Run([]string{"actionbar", "import", "--assets", testAssets,
				"--db", dbPath, "--backend", backend, "--batch-size", "1"})
			require.NoError(t, err)
			assert.Contains(t, progress.String(), "Import complete")

			var out bytes.Buffer
			app = newApp()
			app.Reader = strings.NewReader("play muse\n")
			app.Writer = &out
			err = app.Run([]string{"actionbar", "query", "--backend", backend, "--catalog", dbPath})
			require.NoError(t, err)
			assert.Contains(t, out.String(), "Play Muse")
		})
	}
}

func TestPrefixes(t *testing.T) {
	var got []string
	for p := range prefixes("héy") {
		got = append(got, p)
	}
	assert.Equal(t, []string{"h", "hé", "héy"}, got)

	_, ok := <-prefixes("")
	assert.False(t, ok)
}

type recordingSubmitter struct {
	queries []string
}

func (r *recordingSubmitter) Submit(raw string) error {
	r.queries = append(r.queries, raw)
	return nil
}

func TestModel_TypingSubmits(t *testing.T) {
	sub := &recordingSubmitter{}
	var m tea.Model = newModel(sub, newSnapshotRenderer())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})

	assert.Equal(t, []string{"c", "ca"}, sub.queries)
	assert.Contains(t, m.View(), "ca")
}

func TestModel_TabTakesSuggestion(t *testing.T) {
	sub := &recordingSubmitter{}
	renderer := newSnapshotRenderer()
	var m tea.Model = newModel(sub, renderer)

	// No suggestion yet: tab is a no-op.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Empty(t, sub.queries)

	renderer.RenderSuggestions([]core.Suggestion{{Noun: "Jane Doe", Score: 1}, {Noun: "John Smith", Score: 0.5}})
	m, _ = m.Update(renderedMsg{})
	assert.Contains(t, m.View(), "Jane Doe")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, []string{"Jane Doe"}, sub.queries)
	assert.Equal(t, "Jane Doe", m.(model).input.Value())
}

func TestSnapshotRenderer(t *testing.T) {
	r := newSnapshotRenderer()
	action := &core.Action{CaptionFormat: "Call %"}
	noun := &core.Noun{Serialized: "Jane Doe"}

	r.RenderResults([]core.ScoredAction{{Action: action, Input: noun, Score: 2}})
	r.RenderResults([]core.ScoredAction{{Action: action, Input: noun, Score: 3}})

	// Renders coalesce into a single pending signal.
	assert.Len(t, r.dirty, 1)
	results, _ := r.snapshot()
	require.Len(t, results, 1)
	assert.Equal(t, 3.0, results[0].Score)

	r.Clear()
	results, suggestions := r.snapshot()
	assert.Empty(t, results)
	assert.Empty(t, suggestions)
}

func TestWriteResults(t *testing.T) {
	var out bytes.Buffer
	action := &core.Action{CaptionFormat: "Text %", Parameterized: true}
	noun := &core.Noun{Serialized: "Jane Doe", Tel: "555-0100"}

	writeResults(&out, "text jane hi",
		[]core.ScoredAction{{Action: action, Input: noun, InputType: "contact", Score: 2.5, TrailingText: "hi"}},
		[]core.Suggestion{{Noun: "Jane Doe", Score: 1}})

	assert.Equal(t, "> text jane hi\n   2.50  Text Jane Doe  (hi)\n  suggest: Jane Doe\n", out.String())
}

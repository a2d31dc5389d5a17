package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/poiesic/actionbar"
	"github.com/poiesic/actionbar/core"
	"github.com/urfave/cli/v2"
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	subtitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	scoreStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// snapshotRenderer keeps the latest rendered state and signals the UI
// loop without ever blocking the aggregator.
type snapshotRenderer struct {
	mu          sync.Mutex
	results     []core.ScoredAction
	suggestions []core.Suggestion
	dirty       chan struct{}
}

func newSnapshotRenderer() *snapshotRenderer {
	return &snapshotRenderer{dirty: make(chan struct{}, 1)}
}

func (r *snapshotRenderer) notify() {
	select {
	case r.dirty <- struct{}{}:
	default:
	}
}

func (r *snapshotRenderer) Clear() {
	r.mu.Lock()
	r.results, r.suggestions = nil, nil
	r.mu.Unlock()
	r.notify()
}

func (r *snapshotRenderer) RenderResults(results []core.ScoredAction) {
	r.mu.Lock()
	r.results = append([]core.ScoredAction(nil), results...)
	r.mu.Unlock()
	r.notify()
}

func (r *snapshotRenderer) RenderSuggestions(suggestions []core.Suggestion) {
	r.mu.Lock()
	r.suggestions = append([]core.Suggestion(nil), suggestions...)
	r.mu.Unlock()
	r.notify()
}

func (r *snapshotRenderer) snapshot() ([]core.ScoredAction, []core.Suggestion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results, r.suggestions
}

type renderedMsg struct{}

// wait blocks until the next render.
func (r *snapshotRenderer) wait() tea.Cmd {
	return func() tea.Msg {
		<-r.dirty
		return renderedMsg{}
	}
}

type submitter interface {
	Submit(raw string) error
}

type model struct {
	engine      submitter
	renderer    *snapshotRenderer
	input       textinput.Model
	results     []core.ScoredAction
	suggestions []core.Suggestion
	err         error
}

func newModel(engine submitter, renderer *snapshotRenderer) model {
	ti := textinput.New()
	ti.Placeholder = "Type an action or a name..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	return model{
		engine:   engine,
		renderer: renderer,
		input:    ti,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.renderer.wait())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case renderedMsg:
		m.results, m.suggestions = m.renderer.snapshot()
		return m, m.renderer.wait()

	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			// Picking a suggestion makes its noun the whole query.
			if len(m.suggestions) > 0 {
				m.input.SetValue(m.suggestions[0].Noun)
				m.input.CursorEnd()
				m.submit()
			}
			return m, nil
		}
	}

	old := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != old {
		m.submit()
	}
	return m, cmd
}

func (m *model) submit() {
	m.err = m.engine.Submit(m.input.Value())
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if len(m.suggestions) > 0 {
		names := make([]string, len(m.suggestions))
		for i, s := range m.suggestions {
			names[i] = s.Noun
		}
		b.WriteString(suggestionStyle.Render("  " + strings.Join(names, "  ·  ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i := range m.results {
		r := &m.results[i]
		line := scoreStyle.Render(fmt.Sprintf("%5.2f ", r.Score)) + titleStyle.Render(r.Title())
		if sub := r.Subtitle(); sub != "" {
			line += "  " + subtitleStyle.Render(sub)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("Tab: take suggestion • Esc: quit"))
	return b.String()
}

func tuiCommand(c *cli.Context) error {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	renderer := newSnapshotRenderer()
	engine, err := actionbar.OpenEngine(ctx, cfg, renderer)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	slog.Debug("starting tui", "catalog", cfg.Catalog.Path, "matcher", cfg.Matcher)
	p := tea.NewProgram(newModel(engine, renderer), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

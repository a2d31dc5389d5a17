package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/poiesic/actionbar"
	"github.com/poiesic/actionbar/core"
	"github.com/urfave/cli/v2"
)

// logRenderer reports render calls at debug level. The query command
// prints snapshots once each line is drained.
type logRenderer struct {
	logger *slog.Logger
}

func (r logRenderer) Clear() {
	r.logger.Debug("results cleared")
}

func (r logRenderer) RenderResults(results []core.ScoredAction) {
	r.logger.Debug("results rendered", "count", len(results))
}

func (r logRenderer) RenderSuggestions(suggestions []core.Suggestion) {
	r.logger.Debug("suggestions rendered", "count", len(suggestions))
}

func queryCommand(c *cli.Context) error {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	engine, err := actionbar.OpenEngine(ctx, cfg, logRenderer{logger: slog.Default()})
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	keystrokes := c.Bool("keystrokes")
	scanner := bufio.NewScanner(c.App.Reader)
	for scanner.Scan() {
		line := scanner.Text()
		if keystrokes {
			err = engine.Run(ctx, prefixes(line))
		} else {
			err = engine.Query(line)
		}
		if err != nil {
			return fmt.Errorf("query %q failed: %w", line, err)
		}
		writeResults(c.App.Writer, line, engine.Results(), engine.Suggestions())
	}
	return scanner.Err()
}

// prefixes returns a closed channel holding every non-empty prefix of
// line, shortest first.
func prefixes(line string) <-chan string {
	runes := []rune(line)
	ch := make(chan string, len(runes))
	for i := 1; i <= len(runes); i++ {
		ch <- string(runes[:i])
	}
	close(ch)
	return ch
}

func writeResults(w io.Writer, query string, results []core.ScoredAction, suggestions []core.Suggestion) {
	fmt.Fprintf(w, "> %s\n", query)
	for i := range results {
		r := &results[i]
		line := fmt.Sprintf("  %5.2f  %s", r.Score, r.Title())
		if sub := r.Subtitle(); sub != "" {
			line += "  (" + sub + ")"
		}
		fmt.Fprintln(w, line)
	}
	if len(suggestions) > 0 {
		names := make([]string, len(suggestions))
		for i, s := range suggestions {
			names[i] = s.Noun
		}
		fmt.Fprintf(w, "  suggest: %s\n", strings.Join(names, " | "))
	}
}

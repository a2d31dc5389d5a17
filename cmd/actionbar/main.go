// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/actionbar"
	"github.com/poiesic/actionbar/catalog"
	"github.com/poiesic/actionbar/importer"
	"github.com/urfave/cli/v2"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "actionbar",
		Usage: "Incremental action search over a catalog of apps and nouns",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Import a JSON catalog directory into a badger or sqlite store",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "assets",
						Aliases:  []string{"a"},
						Usage:    "Directory holding apps.json and nouns/*.json",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the catalog store",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "backend",
						Usage: "Store backend (badger, sqlite)",
						Value: actionbar.BackendBadger,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of nouns written per batch",
						Value: 500,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N nouns",
						Value: 500,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts for each write",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 100 * time.Millisecond,
					},
				},
			},
			{
				Name:   "query",
				Usage:  "Read queries from stdin, one per line, and print ranked actions",
				Action: queryCommand,
				Flags: append(engineFlags(),
					&cli.BoolFlag{
						Name:    "keystrokes",
						Aliases: []string{"k"},
						Usage:   "Feed every prefix of each line, as if typed",
					},
				),
			},
			{
				Name:   "tui",
				Usage:  "Interactive action bar",
				Action: tuiCommand,
				Flags:  engineFlags(),
			},
		},
	}
}

// engineFlags are shared by the commands that run queries.
func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Catalog backend (json, badger, sqlite)",
			Value: actionbar.BackendJSON,
		},
		&cli.StringFlag{
			Name:  "catalog",
			Usage: "Catalog directory (json) or store path (badger, sqlite)",
			Value: "assets",
		},
		&cli.StringFlag{
			Name:    "matcher",
			Aliases: []string{"m"},
			Usage:   "Fuzzy matcher (grep, subsequence)",
			Value:   "grep",
		},
	}
}

// buildConfig layers explicitly set flags over the config file, if any,
// over the defaults.
func buildConfig(c *cli.Context) (*actionbar.Config, error) {
	cfg := actionbar.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := actionbar.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("backend") || c.String("config") == "" {
		cfg.Catalog.Backend = c.String("backend")
	}
	if c.IsSet("catalog") || c.String("config") == "" {
		cfg.Catalog.Path = c.String("catalog")
	}
	if c.IsSet("matcher") || c.String("config") == "" {
		cfg.Matcher = c.String("matcher")
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()

	assets := c.String("assets")
	dbPath := c.String("db")
	backend := strings.ToLower(c.String("backend"))
	if backend == actionbar.BackendJSON {
		return fmt.Errorf("backend must be badger or sqlite")
	}

	importConfig := &importer.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if importConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if importConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if importConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	cat, err := catalog.LoadDir(assets)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	repo, err := actionbar.OpenRepository(actionbar.CatalogConfig{Backend: backend, Path: dbPath})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer repo.Close()

	im, err := importer.NewImporter(repo, importConfig, c.App.ErrWriter)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.ErrWriter, "Assets: %s\n", assets)
	fmt.Fprintf(c.App.ErrWriter, "Store: %s (%s)\n", dbPath, backend)
	fmt.Fprintln(c.App.ErrWriter)

	if err := im.Run(ctx, cat); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))
	var level slog.Level

	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", levelStr)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	return nil
}

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

package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/actionbar/core"
	"github.com/poiesic/actionbar/storage"
)

// Config holds configuration for an import.
type Config struct {
	// BatchSize is the number of nouns written per storage call
	BatchSize int

	// ReportInterval is how often to report progress (number of nouns)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for each write
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      500,
		ReportInterval: 500,
		MaxRetries:     3,
		RetryDelay:     100 * time.Millisecond,
	}
}

// Importer writes catalogs into a repository.
type Importer struct {
	repo     storage.CatalogRepository
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// NewImporter creates a new importer.
// progress: where to write progress output (typically os.Stderr)
func NewImporter(repo storage.CatalogRepository, config *Config, progress io.Writer) (*Importer, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.BatchSize < 1 {
		return nil, fmt.Errorf("batch size must be greater than 0, got %d", config.BatchSize)
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Importer{
		repo:     repo,
		config:   config,
		progress: progress,
		logger:   slog.Default(),
	}, nil
}

// Run validates c and writes it to the repository.
func (im *Importer) Run(ctx context.Context, c *core.Catalog) error {
	c.AssignIDs()
	if err := core.ValidateCatalog(c); err != nil {
		return err
	}

	err := RetryWithBackoff(ctx, im.logger, func() error {
		return im.repo.AddApps(ctx, c.Apps...)
	}, im.config.MaxRetries, im.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to import apps: %w", err)
	}
	fmt.Fprintf(im.progress, "Imported %d apps\n", len(c.Apps))

	total := 0
	for _, nouns := range c.Nouns {
		total += len(nouns)
	}
	if total == 0 {
		fmt.Fprintf(im.progress, "No nouns to import\n")
		return nil
	}

	tracker := NewProgressTracker(im.progress, "nouns", total, im.config.ReportInterval)
	tracker.Start()

	for _, t := range c.Types() {
		nouns := c.Nouns[t]
		for start := 0; start < len(nouns); start += im.config.BatchSize {
			batch := nouns[start:min(start+im.config.BatchSize, len(nouns))]
			err := RetryWithBackoff(ctx, im.logger, func() error {
				return im.repo.AddNouns(ctx, batch...)
			}, im.config.MaxRetries, im.config.RetryDelay)
			if err != nil {
				return fmt.Errorf("failed to import %s nouns: %w", t, err)
			}
			tracker.Increment(len(batch))
		}
	}

	tracker.Finish()
	elapsed := tracker.Elapsed()
	fmt.Fprintf(im.progress, "Import complete. %d nouns of %d types in %v\n",
		total, len(c.Nouns), elapsed.Round(time.Millisecond))
	return nil
}

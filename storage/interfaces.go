package storage

import (
	"context"

	"github.com/poiesic/actionbar/core"
)

// CatalogRepository stores catalog apps and nouns.
// Implementations must be thread-safe and support concurrent access.
type CatalogRepository interface {
	// AddApps stores apps, replacing any app with the same ID.
	AddApps(ctx context.Context, apps ...*core.App) error

	// GetApp retrieves a single app by ID.
	// Returns ErrNotFound if the app doesn't exist.
	GetApp(ctx context.Context, id string) (*core.App, error)

	// GetApps retrieves every app, ordered by ID.
	GetApps(ctx context.Context) ([]*core.App, error)

	// AddNouns stores nouns, replacing any noun with the same type and ID.
	// Nouns with ID=0 get their content-based ID.
	AddNouns(ctx context.Context, nouns ...*core.Noun) error

	// GetNouns retrieves every noun of a type. Order is unspecified.
	GetNouns(ctx context.Context, t core.NounType) ([]*core.Noun, error)

	// NounTypes returns every type with at least one noun, sorted.
	NounTypes(ctx context.Context) ([]core.NounType, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

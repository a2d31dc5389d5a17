package storage

import (
	"context"
	"fmt"

	"github.com/poiesic/actionbar/core"
)

// SaveCatalog validates c and writes all of its apps and nouns to repo.
func SaveCatalog(ctx context.Context, repo CatalogRepository, c *core.Catalog) error {
	c.AssignIDs()
	if err := core.ValidateCatalog(c); err != nil {
		return err
	}

	if err := repo.AddApps(ctx, c.Apps...); err != nil {
		return fmt.Errorf("storing apps: %w", err)
	}
	for _, t := range c.Types() {
		if err := repo.AddNouns(ctx, c.Nouns[t]...); err != nil {
			return fmt.Errorf("storing %s nouns: %w", t, err)
		}
	}
	return nil
}

// LoadCatalog reads a complete catalog back from repo.
// Returns ErrEmptyCatalog if the repository holds no apps.
func LoadCatalog(ctx context.Context, repo CatalogRepository) (*core.Catalog, error) {
	apps, err := repo.GetApps(ctx)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, ErrEmptyCatalog
	}

	types, err := repo.NounTypes(ctx)
	if err != nil {
		return nil, err
	}

	c := &core.Catalog{Apps: apps, Nouns: make(map[core.NounType][]*core.Noun, len(types))}
	for _, t := range types {
		nouns, err := repo.GetNouns(ctx, t)
		if err != nil {
			return nil, err
		}
		c.Nouns[t] = nouns
	}

	if err := core.ValidateCatalog(c); err != nil {
		return nil, err
	}
	return c, nil
}

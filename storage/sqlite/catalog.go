// Package sqlite stores catalogs in a single SQLite file.
//
// Apps and nouns are kept as MUS-encoded blobs, the same encoding the
// badger backend uses, with the lookup columns alongside.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/poiesic/actionbar/core"
	"github.com/poiesic/actionbar/storage"
)

// CatalogRepository implements storage.CatalogRepository for SQLite.
type CatalogRepository struct {
	db *sql.DB
}

var _ storage.CatalogRepository = (*CatalogRepository)(nil)

// NewRepository opens the database at path and returns a repository that
// closes it on Close.
func NewRepository(path string) (storage.CatalogRepository, error) {
	db, err := InitDB(path)
	if err != nil {
		return nil, err
	}
	return &CatalogRepository{db: db}, nil
}

// Close closes the database.
func (r *CatalogRepository) Close() error {
	return r.db.Close()
}

// withTx runs fn in a transaction, committing when it returns nil.
func (r *CatalogRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// AddApps stores apps, replacing any app with the same ID.
func (r *CatalogRepository) AddApps(ctx context.Context, apps ...*core.App) error {
	for _, app := range apps {
		if err := core.ValidateApp(app); err != nil {
			return err
		}
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO apps (id, data) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, app := range apps {
			if _, err := stmt.ExecContext(ctx, app.ID, storage.MarshalApp(app)); err != nil {
				return fmt.Errorf("failed to store app %s: %w", app.ID, err)
			}
		}
		return nil
	})
}

// GetApp retrieves a single app by ID.
func (r *CatalogRepository) GetApp(ctx context.Context, id string) (*core.App, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM apps WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return storage.UnmarshalApp(data)
}

// GetApps retrieves every app, ordered by ID.
func (r *CatalogRepository) GetApps(ctx context.Context) ([]*core.App, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM apps ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*core.App
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		app, err := storage.UnmarshalApp(data)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// AddNouns stores nouns, replacing any noun with the same type and ID.
func (r *CatalogRepository) AddNouns(ctx context.Context, nouns ...*core.Noun) error {
	for _, noun := range nouns {
		if err := core.ValidateNoun(noun); err != nil {
			return err
		}
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT OR REPLACE INTO nouns (type, id, serialized, data) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, noun := range nouns {
			if noun.ID == 0 {
				noun.ID = core.IDFromContent(noun.Key())
			}
			// SQLite integers are signed; the conversion round-trips.
			_, err := stmt.ExecContext(ctx, string(noun.Type), int64(noun.ID), noun.Serialized, storage.MarshalNoun(noun))
			if err != nil {
				return fmt.Errorf("failed to store noun %s: %w", noun.Key(), err)
			}
		}
		return nil
	})
}

// GetNouns retrieves every noun of a type, ordered by serialized form.
func (r *CatalogRepository) GetNouns(ctx context.Context, t core.NounType) ([]*core.Noun, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT data FROM nouns WHERE type = ? ORDER BY serialized`, string(t))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nouns []*core.Noun
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		noun, err := storage.UnmarshalNoun(data)
		if err != nil {
			return nil, err
		}
		nouns = append(nouns, noun)
	}
	return nouns, rows.Err()
}

// NounTypes returns every type with at least one noun, sorted.
func (r *CatalogRepository) NounTypes(ctx context.Context) ([]core.NounType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT type FROM nouns ORDER BY type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []core.NounType
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		types = append(types, core.NounType(t))
	}
	return types, rows.Err()
}

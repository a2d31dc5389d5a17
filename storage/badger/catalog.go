package badger

import (
	"bytes"
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/actionbar/core"
	"github.com/poiesic/actionbar/storage"
)

// CatalogRepository implements storage.CatalogRepository for BadgerDB.
type CatalogRepository struct {
	backend *Backend
	owned   bool
}

var _ storage.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository creates a repository over an open backend.
// The caller keeps ownership of the backend.
func NewCatalogRepository(backend *Backend) (*CatalogRepository, error) {
	return &CatalogRepository{
		backend: backend,
	}, nil
}

// NewRepository opens a BadgerDB database at path and returns a
// repository that closes it on Close.
func NewRepository(path string, opts ...BackendOption) (storage.CatalogRepository, error) {
	backend, err := OpenBackend(path, false, opts...)
	if err != nil {
		return nil, err
	}
	return &CatalogRepository{backend: backend, owned: true}, nil
}

// Close closes the backend if the repository opened it.
func (r *CatalogRepository) Close() error {
	if r.owned {
		return r.backend.Close()
	}
	return nil
}

// AddApps stores apps, replacing any app with the same ID.
func (r *CatalogRepository) AddApps(ctx context.Context, apps ...*core.App) error {
	for _, app := range apps {
		if err := core.ValidateApp(app); err != nil {
			return err
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, app := range apps {
			if err := tx.Set(makeAppKey(app.ID), storage.MarshalApp(app)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetApp retrieves a single app by ID.
func (r *CatalogRepository) GetApp(ctx context.Context, id string) (*core.App, error) {
	var result *core.App
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeAppKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalApp(val)
			return err
		})
	}, false)
	return result, err
}

// GetApps retrieves every app. Keys sort by ID, so apps come back ordered.
func (r *CatalogRepository) GetApps(ctx context.Context) ([]*core.App, error) {
	var result []*core.App
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefixOf(appPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				app, err := storage.UnmarshalApp(val)
				if err != nil {
					return err
				}
				result = append(result, app)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return result, err
}

// AddNouns stores nouns, replacing any noun with the same type and ID.
func (r *CatalogRepository) AddNouns(ctx context.Context, nouns ...*core.Noun) error {
	for _, noun := range nouns {
		if err := core.ValidateNoun(noun); err != nil {
			return err
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, noun := range nouns {
			if noun.ID == 0 {
				noun.ID = core.IDFromContent(noun.Key())
			}
			if err := tx.Set(makeNounKey(noun.Type, noun.ID), storage.MarshalNoun(noun)); err != nil {
				return err
			}
			if err := tx.Set(makeNounTypeKey(noun.Type), nil); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetNouns retrieves every noun of a type.
func (r *CatalogRepository) GetNouns(ctx context.Context, t core.NounType) ([]*core.Noun, error) {
	var result []*core.Noun
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialNounKey(t)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				noun, err := storage.UnmarshalNoun(val)
				if err != nil {
					return err
				}
				// A type containing ':' can share another type's prefix.
				if noun.Type == t {
					result = append(result, noun)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return result, err
}

// NounTypes returns every type with at least one noun, sorted.
func (r *CatalogRepository) NounTypes(ctx context.Context) ([]core.NounType, error) {
	var result []core.NounType
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := prefixOf(nounTypePrefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			result = append(result, core.NounType(bytes.TrimPrefix(key, prefix)))
		}
		return nil
	}, false)
	return result, err
}

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/poiesic/actionbar/catalog"
	"github.com/poiesic/actionbar/core"
	"github.com/poiesic/actionbar/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) storage.CatalogRepository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestInitDB_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "catalog.db")
	db, err := InitDB(path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('apps', 'nouns')`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestCatalogRepository_Apps(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	phone := &core.App{ID: "phone", Actions: []*core.Action{{Names: []string{"call"}, Params: []core.NounType{"contact"}, CaptionFormat: "Call %"}}}
	music := &core.App{ID: "music", Actions: []*core.Action{{Names: []string{"play"}, Params: []core.NounType{"artist"}, CaptionFormat: "Play %"}}}
	require.NoError(t, repo.AddApps(ctx, phone, music))

	got, err := repo.GetApp(ctx, "phone")
	require.NoError(t, err)
	assert.Equal(t, phone, got)

	_, err = repo.GetApp(ctx, "mail")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	apps, err := repo.GetApps(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "music", apps[0].ID)

	assert.ErrorIs(t, repo.AddApps(ctx, &core.App{}), core.ErrEmptyAppID)
}

func TestCatalogRepository_Nouns(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	jane := &core.Noun{Type: "contact", Serialized: "Jane Doe", Tel: "555-0100"}
	john := &core.Noun{Type: "contact", Serialized: "John Smith", Attributes: map[string]string{"email": "john@example.com"}}
	high := &core.Noun{ID: core.ID(1<<63 + 5), Type: "artist", Serialized: "Muse"}
	require.NoError(t, repo.AddNouns(ctx, john, jane, high))

	contacts, err := repo.GetNouns(ctx, "contact")
	require.NoError(t, err)
	assert.Equal(t, []*core.Noun{jane, john}, contacts)

	artists, err := repo.GetNouns(ctx, "artist")
	require.NoError(t, err)
	require.Len(t, artists, 1)
	assert.Equal(t, high.ID, artists[0].ID)

	types, err := repo.NounTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.NounType{"artist", "contact"}, types)

	// Re-adding replaces rather than duplicates.
	require.NoError(t, repo.AddNouns(ctx, jane))
	contacts, err = repo.GetNouns(ctx, "contact")
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
}

func TestCatalogRepository_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	original, err := catalog.LoadDir("../../catalog/testdata")
	require.NoError(t, err)
	require.NoError(t, storage.SaveCatalog(ctx, repo, original))

	loaded, err := storage.LoadCatalog(ctx, repo)
	require.NoError(t, err)
	assert.ElementsMatch(t, original.Apps, loaded.Apps)
	for _, nt := range original.Types() {
		assert.ElementsMatch(t, original.Nouns[nt], loaded.Nouns[nt])
	}
}

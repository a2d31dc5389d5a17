package actionbar

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "grep", cfg.Matcher)
	assert.Equal(t, runtime.NumCPU(), cfg.PoolSize)
	assert.Equal(t, 100, cfg.MaxRetained)
	assert.Equal(t, 20, cfg.MaxRendered)
	assert.Equal(t, BackendJSON, cfg.Catalog.Backend)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(
		WithMatcher("subsequence"),
		WithPoolSize(3),
		WithLimits(50, 10),
		WithCatalog(BackendSQLite, "catalog.db"),
	)
	assert.Equal(t, "subsequence", cfg.Matcher)
	assert.Equal(t, 3, cfg.PoolSize)
	assert.Equal(t, 50, cfg.MaxRetained)
	assert.Equal(t, 10, cfg.MaxRendered)
	assert.Equal(t, CatalogConfig{Backend: BackendSQLite, Path: "catalog.db"}, cfg.Catalog)
}

func TestConfig_Normalize(t *testing.T) {
	cfg := NewConfig(WithMatcher(" GREP "), WithPoolSize(0), WithLimits(5, 20), WithCatalog("Badger", "db"))
	cfg.Normalize()
	assert.Equal(t, "grep", cfg.Matcher)
	assert.Equal(t, 1, cfg.PoolSize)
	assert.Equal(t, 5, cfg.MaxRendered)
	assert.Equal(t, BackendBadger, cfg.Catalog.Backend)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		opts []ConfigOption
	}{
		{"unknown matcher", []ConfigOption{WithMatcher("levenshtein")}},
		{"unknown backend", []ConfigOption{WithCatalog("postgres", "db")}},
		{"missing path", []ConfigOption{WithCatalog(BackendJSON, "")}},
		{"zero retained", []ConfigOption{WithLimits(0, 20)}},
		{"zero rendered", []ConfigOption{WithLimits(100, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(tt.opts...).Validate()
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "actionbar.yaml")
		data := []byte("matcher: subsequence\nmax_rendered: 5\ncatalog:\n  backend: sqlite\n  path: /tmp/catalog.db\n")
		require.NoError(t, os.WriteFile(path, data, 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "subsequence", cfg.Matcher)
		assert.Equal(t, 5, cfg.MaxRendered)
		assert.Equal(t, 100, cfg.MaxRetained)
		assert.Equal(t, BackendSQLite, cfg.Catalog.Backend)
		assert.Equal(t, "/tmp/catalog.db", cfg.Catalog.Path)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "actionbar.yaml")
		require.NoError(t, os.WriteFile(path, []byte("matcher: nope\n"), 0644))
		_, err := LoadConfig(path)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "actionbar.yaml")
		require.NoError(t, os.WriteFile(path, []byte("matcher: [\n"), 0644))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

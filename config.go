package actionbar

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/poiesic/actionbar/match"
	"github.com/poiesic/actionbar/ranking"
	"gopkg.in/yaml.v3"
)

// Catalog backends.
const (
	BackendJSON   = "json"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// CatalogConfig locates the catalog.
type CatalogConfig struct {
	// Backend is where the catalog is read from: "json" for a directory of
	// asset files, "badger" or "sqlite" for an imported repository.
	// Default: "json"
	Backend string `yaml:"backend"`

	// Path is the asset directory, badger directory or sqlite file.
	Path string `yaml:"path"`
}

// Config holds engine configuration.
type Config struct {
	// Matcher names the fuzzy matching provider: "grep" or "subsequence".
	// Default: "grep"
	Matcher string `yaml:"matcher"`

	// PoolSize is the number of workers running matcher calls.
	// Default: runtime.NumCPU()
	PoolSize int `yaml:"pool_size"`

	// MaxRetained is the number of candidates kept per query.
	// Default: 100
	MaxRetained int `yaml:"max_retained"`

	// MaxRendered is the number of candidates rendered per query.
	// Default: 20
	MaxRendered int `yaml:"max_rendered"`

	Catalog CatalogConfig `yaml:"catalog"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithMatcher sets the matching provider.
func WithMatcher(name string) ConfigOption {
	return func(c *Config) {
		c.Matcher = name
	}
}

// WithPoolSize sets the matcher worker count.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = size
	}
}

// WithLimits sets the retained and rendered candidate counts.
func WithLimits(retained, rendered int) ConfigOption {
	return func(c *Config) {
		c.MaxRetained = retained
		c.MaxRendered = rendered
	}
}

// WithCatalog sets the catalog backend and path.
func WithCatalog(backend, path string) ConfigOption {
	return func(c *Config) {
		c.Catalog = CatalogConfig{Backend: backend, Path: path}
	}
}

// DefaultConfig returns a Config reading JSON assets from ./assets.
func DefaultConfig() *Config {
	return &Config{
		Matcher:     match.NameGrep,
		PoolSize:    runtime.NumCPU(),
		MaxRetained: ranking.DefaultMaxRetained,
		MaxRendered: ranking.DefaultMaxRendered,
		Catalog: CatalogConfig{
			Backend: BackendJSON,
			Path:    "assets",
		},
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithMatcher("subsequence"),
//	    WithCatalog("sqlite", "catalog.db"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// LoadConfig reads a YAML config file over the defaults and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize ensures the configuration is in a canonical form.
// Names are lowercased, the pool has at least one worker, and the render
// limit never exceeds the retention limit.
func (c *Config) Normalize() {
	c.Matcher = strings.ToLower(strings.TrimSpace(c.Matcher))
	c.Catalog.Backend = strings.ToLower(strings.TrimSpace(c.Catalog.Backend))
	if c.Matcher == "" {
		c.Matcher = match.NameGrep
	}
	if c.Catalog.Backend == "" {
		c.Catalog.Backend = BackendJSON
	}
	if c.PoolSize < 1 {
		c.PoolSize = 1
	}
	if c.MaxRendered > c.MaxRetained && c.MaxRetained > 0 {
		c.MaxRendered = c.MaxRetained
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Matcher {
	case match.NameGrep, match.NameSubsequence:
	default:
		return fmt.Errorf("%w: unknown matcher %q", ErrInvalidConfig, c.Matcher)
	}
	switch c.Catalog.Backend {
	case BackendJSON, BackendBadger, BackendSQLite:
	default:
		return fmt.Errorf("%w: unknown catalog backend %q", ErrInvalidConfig, c.Catalog.Backend)
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("%w: catalog path is required", ErrInvalidConfig)
	}
	if c.MaxRetained < 1 {
		return fmt.Errorf("%w: MaxRetained must be positive", ErrInvalidConfig)
	}
	if c.MaxRendered < 1 {
		return fmt.Errorf("%w: MaxRendered must be positive", ErrInvalidConfig)
	}
	return nil
}

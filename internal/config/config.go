// Package config reads chessmatch settings from the environment.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hailam/chessmatch/internal/storage"
)

// Backend selects the game store implementation.
type Backend string

const (
	BackendBadger Backend = "badger"
	BackendSQLite Backend = "sqlite"
)

// UnmarshalText accepts a backend name in any case.
func (b *Backend) UnmarshalText(text []byte) error {
	switch v := Backend(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case BackendBadger, BackendSQLite:
		*b = v
		return nil
	}
	return fmt.Errorf("unknown store backend %q (want badger or sqlite)", text)
}

func (b Backend) String() string { return string(b) }

// Config holds the host settings.
type Config struct {
	Store      Backend `env:"CHESSMATCH_STORE" envDefault:"badger"`
	DataDir    string  `env:"CHESSMATCH_DATA_DIR"`
	SQLitePath string  `env:"CHESSMATCH_SQLITE_PATH"`
	InMemory   bool    `env:"CHESSMATCH_IN_MEMORY"`
}

// Load parses the environment, applies override when it is non-nil, and
// fills in default paths. Command-line flags go in override so they win over
// the environment but are still validated.
func Load(override func(*Config) error) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if override != nil {
		if err := override(&cfg); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Resolve(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve validates cfg and derives the paths left empty: DataDir defaults to
// the platform data directory and SQLitePath to chessmatch.db inside it.
// An in-memory badger store needs no paths.
func (c *Config) Resolve() error {
	if err := c.Store.UnmarshalText([]byte(c.Store)); err != nil {
		return err
	}
	if c.InMemory && c.Store != BackendBadger {
		return fmt.Errorf("in-memory mode requires the badger store, not %s", c.Store)
	}
	if c.InMemory {
		return nil
	}

	if c.DataDir == "" && (c.Store == BackendBadger || c.SQLitePath == "") {
		dir, err := storage.GetDataDir()
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		c.DataDir = dir
	}
	if c.Store == BackendSQLite && c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(c.DataDir, "chessmatch.db")
	}
	return nil
}

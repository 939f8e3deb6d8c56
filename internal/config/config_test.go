package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)
	t.Setenv("HOME", xdg)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store != BackendBadger {
		t.Errorf("Store = %q, want badger", cfg.Store)
	}
	if cfg.InMemory {
		t.Error("InMemory should default to false")
	}
	if cfg.DataDir == "" {
		t.Error("DataDir was not resolved")
	}
	if cfg.SQLitePath != "" {
		t.Errorf("SQLitePath = %q, want empty for badger", cfg.SQLitePath)
	}
}

func TestLoadSQLite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CHESSMATCH_STORE", "SQLite")
	t.Setenv("CHESSMATCH_DATA_DIR", dir)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store != BackendSQLite {
		t.Errorf("Store = %q, want sqlite", cfg.Store)
	}
	if want := filepath.Join(dir, "chessmatch.db"); cfg.SQLitePath != want {
		t.Errorf("SQLitePath = %q, want %q", cfg.SQLitePath, want)
	}
}

func TestLoadExplicitSQLitePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	t.Setenv("CHESSMATCH_STORE", "sqlite")
	t.Setenv("CHESSMATCH_SQLITE_PATH", path)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SQLitePath != path {
		t.Errorf("SQLitePath = %q, want %q", cfg.SQLitePath, path)
	}
	if cfg.DataDir != "" {
		t.Errorf("DataDir = %q, want it left empty", cfg.DataDir)
	}
}

func TestLoadInMemory(t *testing.T) {
	t.Setenv("CHESSMATCH_IN_MEMORY", "true")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.InMemory || cfg.DataDir != "" {
		t.Errorf("cfg = %+v, want in-memory with no data dir", cfg)
	}
}

func TestLoadOverrideRunsBeforeResolve(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CHESSMATCH_STORE", "badger")
	t.Setenv("CHESSMATCH_DATA_DIR", dir)

	cfg, err := Load(func(c *Config) error {
		if c.DataDir != dir {
			t.Errorf("override saw DataDir %q, want env value %q", c.DataDir, dir)
		}
		c.Store = "SQLITE"
		return nil
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store != BackendSQLite {
		t.Errorf("Store = %q, want sqlite", cfg.Store)
	}
	if want := filepath.Join(dir, "chessmatch.db"); cfg.SQLitePath != want {
		t.Errorf("SQLitePath = %q, want %q", cfg.SQLitePath, want)
	}
}

func TestLoadOverrideErrors(t *testing.T) {
	t.Setenv("CHESSMATCH_IN_MEMORY", "true")

	boom := errors.New("boom")
	if _, err := Load(func(*Config) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}

	_, err := Load(func(c *Config) error {
		c.Store = BackendSQLite
		return nil
	})
	if err == nil || !strings.Contains(err.Error(), "in-memory mode") {
		t.Fatalf("err = %v, want in-memory mode rejection", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown backend", map[string]string{"CHESSMATCH_STORE": "postgres"}, "parse env:"},
		{"bad bool", map[string]string{"CHESSMATCH_IN_MEMORY": "maybe"}, "parse env:"},
		{"in-memory sqlite", map[string]string{"CHESSMATCH_STORE": "sqlite", "CHESSMATCH_IN_MEMORY": "1"}, "in-memory mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestResolveRejectsUnknownBackend(t *testing.T) {
	cfg := Config{Store: "etcd", InMemory: true}
	if err := cfg.Resolve(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

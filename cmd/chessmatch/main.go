package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/hailam/chessmatch/internal/config"
	"github.com/hailam/chessmatch/internal/console"
	"github.com/hailam/chessmatch/internal/match"
	"github.com/hailam/chessmatch/internal/storage"
	"github.com/hailam/chessmatch/internal/storage/sqlite"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	log.Printf("using %s store %s", cfg.Store, describeStore(cfg))

	svc := match.NewService(store, match.WithLogger(log.Default()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = console.New(svc, os.Stdin, os.Stdout).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// loadConfig reads the environment, then lets command-line flags override it.
func loadConfig(args []string) (config.Config, error) {
	return config.Load(func(cfg *config.Config) error {
		fs := flag.NewFlagSet("chessmatch", flag.ContinueOnError)
		backend := fs.String("store", cfg.Store.String(), "game store backend: badger or sqlite")
		fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for game data (default: platform data dir)")
		fs.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "SQLite database file (default: <data-dir>/chessmatch.db)")
		fs.BoolVar(&cfg.InMemory, "in-memory", cfg.InMemory, "keep games in memory only (badger)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		cfg.Store = config.Backend(*backend)
		return nil
	})
}

func openStore(cfg config.Config) (storage.Store, error) {
	switch {
	case cfg.Store == config.BackendSQLite:
		return sqlite.Open(cfg.SQLitePath)
	case cfg.InMemory:
		return storage.OpenInMemory()
	}

	dir, err := storage.DatabaseDir(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("database dir: %w", err)
	}
	return storage.Open(dir)
}

func describeStore(cfg config.Config) string {
	switch {
	case cfg.Store == config.BackendSQLite:
		return cfg.SQLitePath
	case cfg.InMemory:
		return "(in memory)"
	}
	return cfg.DataDir
}

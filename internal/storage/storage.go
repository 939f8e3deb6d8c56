package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chessmatch/internal/game"
)

const (
	keyPrefix = "game:"

	// maxConflictRetries bounds how often a transaction is replayed after
	// badger reports a write conflict.
	maxConflictRetries = 64
)

// Storage is a Store backed by BadgerDB.
type Storage struct {
	db *badger.DB
}

var _ Store = (*Storage)(nil)

// Open opens or creates a BadgerDB game store in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	return open(opts)
}

// OpenInMemory opens a store that keeps everything in memory. Its contents
// are lost on Close.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) []byte {
	return []byte(keyPrefix + id)
}

func checkID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidID)
	}
	return nil
}

// Create stores st under id.
func (s *Storage) Create(ctx context.Context, id string, st *game.State) error {
	if err := checkID(id); err != nil {
		return err
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", id, err)
	}

	return s.update(ctx, func(txn *badger.Txn) error {
		_, err := txn.Get(gameKey(id))
		if err == nil {
			return fmt.Errorf("%w: %s", ErrExists, id)
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		return txn.Set(gameKey(id), data)
	})
}

// Get returns the game stored under id.
func (s *Storage) Get(ctx context.Context, id string) (*game.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var st *game.State
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		st, err = load(txn, id)
		return err
	})
	return st, err
}

// Update runs fn on a freshly decoded copy of the game and commits it in the
// same transaction. Write conflicts replay the whole read-modify-write.
func (s *Storage) Update(ctx context.Context, id string, fn UpdateFunc) (*game.State, error) {
	var out *game.State
	err := s.update(ctx, func(txn *badger.Txn) error {
		st, err := load(txn, id)
		if err != nil {
			return err
		}
		if err := fn(st); err != nil {
			return err
		}
		data, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("encode game %s: %w", id, err)
		}
		if err := txn.Set(gameKey(id), data); err != nil {
			return err
		}
		out = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List returns every game in key order.
func (s *Storage) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			id := strings.TrimPrefix(string(item.Key()), keyPrefix)
			st := new(game.State)
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, st)
			}); err != nil {
				return fmt.Errorf("decode game %s: %w", id, err)
			}
			entries = append(entries, Entry{ID: id, State: st})
		}
		return nil
	})
	return entries, err
}

func (s *Storage) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.db.Update(fn)
		if errors.Is(err, badger.ErrConflict) && attempt < maxConflictRetries {
			continue
		}
		return err
	}
}

func load(txn *badger.Txn, id string) (*game.State, error) {
	item, err := txn.Get(gameKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	st := new(game.State)
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, st)
	})
	if err != nil {
		return nil, fmt.Errorf("decode game %s: %w", id, err)
	}
	return st, nil
}

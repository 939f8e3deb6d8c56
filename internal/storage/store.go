// Package storage persists game records keyed by game id.
//
// The default backend is BadgerDB; package storage/sqlite provides an
// alternative with the same Store contract.
package storage

import (
	"context"
	"errors"

	"github.com/hailam/chessmatch/internal/game"
)

var (
	ErrNotFound  = errors.New("game not found")
	ErrExists    = errors.New("game already exists")
	ErrInvalidID = errors.New("invalid game id")
)

// UpdateFunc mutates a private copy of a stored game. Returning an error
// discards the copy and leaves the stored record untouched.
type UpdateFunc func(st *game.State) error

// Entry is one stored game.
type Entry struct {
	ID    string
	State *game.State
}

// Store is a durable keyed collection of games.
type Store interface {
	// Create stores st under id, failing with ErrExists if id is taken.
	Create(ctx context.Context, id string, st *game.State) error
	// Get returns the game stored under id, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.State, error)
	// Update loads the game, runs fn on it and writes the result back only
	// when fn succeeds. It returns the state as written.
	Update(ctx context.Context, id string, fn UpdateFunc) (*game.State, error)
	// List returns every stored game ordered by id.
	List(ctx context.Context) ([]Entry, error)
	Close() error
}

// Package match hosts games on top of a storage.Store. Each call loads one
// game, runs a single lifecycle operation and persists the result only if
// the operation succeeded. Calls on the same game are serialized.
package match

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hailam/chessmatch/internal/game"
	"github.com/hailam/chessmatch/internal/storage"
)

const tracerName = "github.com/hailam/chessmatch/internal/match"

// Service runs game operations for authenticated callers.
type Service struct {
	store  storage.Store
	logger *log.Logger
	tracer trace.Tracer
	newID  func() string
	locks  gameLocks
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for committed transitions. The default discards
// output.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithTracerProvider sets where spans go. The default is the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) { s.tracer = tp.Tracer(tracerName) }
}

// WithIDGenerator replaces the random game id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService creates a Service over store.
func NewService(store storage.Store, options ...Option) *Service {
	s := &Service{
		store:  store,
		logger: log.New(io.Discard, "", 0),
		tracer: otel.Tracer(tracerName),
		newID:  uuid.NewString,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Create starts a new game between white and black under id, or under a
// fresh id when id is empty. It returns the id used.
func (s *Service) Create(ctx context.Context, id string, white, black game.PlayerID) (string, *game.State, error) {
	if id == "" {
		id = s.newID()
	}
	ctx, span := s.start(ctx, "Create", id, "")
	defer span.End()

	st, err := game.New(white, black)
	if err != nil {
		return "", nil, fail(span, err)
	}
	if err := s.store.Create(ctx, id, st); err != nil {
		return "", nil, fail(span, err)
	}
	s.logger.Printf("game %s: created, %s (white) vs %s (black)", id, white, black)
	return id, st, nil
}

// Get returns the current state of a game.
func (s *Service) Get(ctx context.Context, id string) (*game.State, error) {
	ctx, span := s.start(ctx, "Get", id, "")
	defer span.End()

	st, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	return st, nil
}

// List returns every hosted game ordered by id.
func (s *Service) List(ctx context.Context) ([]storage.Entry, error) {
	ctx, span := s.tracer.Start(ctx, "match.List")
	defer span.End()

	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.Int("game.count", len(entries)))
	return entries, nil
}

// SubmitMove plays req for caller in game id.
func (s *Service) SubmitMove(ctx context.Context, id string, caller game.PlayerID, req MoveRequest) (*game.State, error) {
	m := req.Move()
	return s.run(ctx, "SubmitMove", id, caller, func(st *game.State) error {
		return st.SubmitMove(caller, m)
	}, fmt.Sprintf("%s played %s", caller, m))
}

// SubmitUCI parses a UCI move string and plays it for caller.
func (s *Service) SubmitUCI(ctx context.Context, id string, caller game.PlayerID, uci string) (*game.State, error) {
	req, err := ParseMoveRequest(uci)
	if err != nil {
		return nil, err
	}
	return s.SubmitMove(ctx, id, caller, req)
}

// Resign concedes game id on behalf of caller.
func (s *Service) Resign(ctx context.Context, id string, caller game.PlayerID) (*game.State, error) {
	return s.run(ctx, "Resign", id, caller, func(st *game.State) error {
		return st.Resign(caller)
	}, fmt.Sprintf("%s resigned", caller))
}

// OfferDraw records caller's draw offer in game id.
func (s *Service) OfferDraw(ctx context.Context, id string, caller game.PlayerID) (*game.State, error) {
	return s.run(ctx, "OfferDraw", id, caller, func(st *game.State) error {
		return st.OfferDraw(caller)
	}, fmt.Sprintf("%s offered a draw", caller))
}

// AcceptDraw accepts the opponent's draw offer in game id.
func (s *Service) AcceptDraw(ctx context.Context, id string, caller game.PlayerID) (*game.State, error) {
	return s.run(ctx, "AcceptDraw", id, caller, func(st *game.State) error {
		return st.AcceptDraw(caller)
	}, fmt.Sprintf("%s accepted a draw", caller))
}

// run holds the game lock for id while op executes inside a store update.
// action is logged only after a successful commit.
func (s *Service) run(ctx context.Context, name, id string, caller game.PlayerID,
	op storage.UpdateFunc, action string) (*game.State, error) {
	ctx, span := s.start(ctx, name, id, caller)
	defer span.End()

	unlock := s.locks.lock(id)
	defer unlock()

	st, err := s.store.Update(ctx, id, op)
	if err != nil {
		return nil, fail(span, err)
	}

	span.SetAttributes(
		attribute.String("game.status", st.Status.String()),
		attribute.Int("game.move_count", st.MoveCount),
	)
	s.logger.Printf("game %s: %s; %s", id, action, st.Summary())
	return st, nil
}

func (s *Service) start(ctx context.Context, name, id string, caller game.PlayerID) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("game.id", id)}
	if caller != "" {
		attrs = append(attrs, attribute.String("game.caller", string(caller)))
	}
	return s.tracer.Start(ctx, "match."+name, trace.WithAttributes(attrs...))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

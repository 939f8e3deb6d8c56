package match

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/hailam/chessmatch/internal/board"
	"github.com/hailam/chessmatch/internal/game"
	"github.com/hailam/chessmatch/internal/storage"
)

func newTestService(t *testing.T, options ...Option) (*Service, *bytes.Buffer) {
	t.Helper()
	store, err := storage.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	var buf bytes.Buffer
	options = append([]Option{
		WithLogger(log.New(&buf, "", 0)),
		WithTracerProvider(noop.NewTracerProvider()),
	}, options...)
	return NewService(store, options...), &buf
}

func TestCreateGeneratesID(t *testing.T) {
	svc, logs := newTestService(t)
	ctx := context.Background()

	id, st, err := svc.Create(ctx, "", "alice", "bob")
	require.NoError(t, err)
	assert.Len(t, id, 36)
	assert.Equal(t, game.InProgress, st.Status)
	assert.Contains(t, logs.String(), "game "+id+": created, alice (white) vs bob (black)")

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, st, got)
}

func TestCreateWithIDGenerator(t *testing.T) {
	n := 0
	svc, _ := newTestService(t, WithIDGenerator(func() string {
		n++
		return "fixed"
	}))
	ctx := context.Background()

	id, _, err := svc.Create(ctx, "", "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "fixed", id)

	_, _, err = svc.Create(ctx, "", "carol", "dave")
	assert.ErrorIs(t, err, storage.ErrExists)
	assert.Equal(t, 2, n)
}

func TestCreateRejectsBadPlayers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Create(ctx, "g1", "alice", "alice")
	assert.ErrorIs(t, err, game.ErrInvalidPlayers)

	_, err = svc.Get(ctx, "g1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPlayThroughService(t *testing.T) {
	svc, logs := newTestService(t)
	ctx := context.Background()
	_, _, err := svc.Create(ctx, "g1", "alice", "bob")
	require.NoError(t, err)

	st, err := svc.SubmitMove(ctx, "g1", "alice", MoveRequest{From: board.E2, To: board.E4})
	require.NoError(t, err)
	assert.True(t, st.Position.EnPassant.Is(board.E3))
	assert.Contains(t, logs.String(), "alice played e2e4; Black to move (move 1)")

	_, err = svc.SubmitUCI(ctx, "g1", "alice", "d2d4")
	assert.ErrorIs(t, err, game.ErrNotYourTurn)

	st, err = svc.SubmitUCI(ctx, "g1", "bob", "e7e5")
	require.NoError(t, err)
	assert.Equal(t, 2, st.MoveCount)

	_, err = svc.OfferDraw(ctx, "g1", "bob")
	require.NoError(t, err)
	st, err = svc.AcceptDraw(ctx, "g1", "alice")
	require.NoError(t, err)
	assert.Equal(t, game.Draw, st.Status)
	assert.Equal(t, game.DrawAgreement, st.Method)
	assert.Contains(t, logs.String(), "alice accepted a draw; draw by draw_agreement")

	_, err = svc.Resign(ctx, "g1", "bob")
	assert.ErrorIs(t, err, game.ErrGameNotInProgress)
}

func TestFailedOperationIsNotPersisted(t *testing.T) {
	svc, logs := newTestService(t)
	ctx := context.Background()
	_, _, err := svc.Create(ctx, "g1", "alice", "bob")
	require.NoError(t, err)
	before, err := svc.Get(ctx, "g1")
	require.NoError(t, err)
	logged := logs.Len()

	_, err = svc.SubmitUCI(ctx, "g1", "alice", "e2e5")
	assert.ErrorIs(t, err, game.ErrInvalidMove)
	_, err = svc.SubmitUCI(ctx, "g1", "alice", "zz")
	assert.ErrorIs(t, err, game.ErrInvalidMove)
	_, err = svc.Resign(ctx, "g1", "mallory")
	assert.ErrorIs(t, err, game.ErrNotAPlayer)
	_, err = svc.AcceptDraw(ctx, "g1", "bob")
	assert.ErrorIs(t, err, game.ErrNoDrawOffer)
	_, err = svc.OfferDraw(ctx, "missing", "alice")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	after, err := svc.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, logged, logs.Len(), "failed operations must not be logged as transitions")
}

func TestPromotionRequest(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, _, err := svc.Create(ctx, "g1", "alice", "bob")
	require.NoError(t, err)

	// Put a white pawn on the seventh rank with an empty promotion square.
	_, err = svc.store.Update(ctx, "g1", func(st *game.State) error {
		pos, err := board.ParseFEN("4k3/1P6/8/8/8/8/8/4K3 w - - 0 1")
		st.Position = pos
		return err
	})
	require.NoError(t, err)

	knight := board.Knight
	st, err := svc.SubmitMove(ctx, "g1", "alice", MoveRequest{From: board.B7, To: board.B8, Promotion: &knight})
	require.NoError(t, err)
	p, ok := st.Position.Board.PieceAt(board.B8)
	require.True(t, ok)
	assert.Equal(t, board.NewPiece(board.Knight, board.White), p)

	req, err := ParseMoveRequest("e7e8n")
	require.NoError(t, err)
	require.NotNil(t, req.Promotion)
	assert.Equal(t, board.Knight, *req.Promotion)
	assert.Equal(t, "e7->e8=Knight", req.String())
}

func TestList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for _, id := range []string{"g2", "g1"} {
		_, _, err := svc.Create(ctx, id, "alice", "bob")
		require.NoError(t, err)
	}

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "g1", entries[0].ID)
	assert.Equal(t, "g2", entries[1].ID)
}

// TestConcurrentMovesAreSerialized races the same move from many goroutines.
// Exactly one may win; the rest must see the turn already passed.
func TestConcurrentMovesAreSerialized(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, _, err := svc.Create(ctx, "g1", "alice", "bob")
	require.NoError(t, err)

	const n = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		notTurn  int
		unexpect []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SubmitUCI(ctx, "g1", "alice", "e2e4")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, game.ErrNotYourTurn):
				notTurn++
			default:
				unexpect = append(unexpect, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, unexpect)
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, notTurn)

	st, err := svc.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, st.MoveCount)
	assert.Zero(t, svc.locks.size(), "game locks must be released")
}

func TestGameLocksAreIndependent(t *testing.T) {
	var locks gameLocks

	unlockA := locks.lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := locks.lock("b")
		unlockB()
		close(done)
	}()
	<-done

	assert.Equal(t, 1, locks.size())
	unlockA()
	assert.Zero(t, locks.size())
}

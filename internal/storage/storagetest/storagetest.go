// Package storagetest checks a storage.Store implementation against the
// contract every backend shares.
package storagetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hailam/chessmatch/internal/board"
	"github.com/hailam/chessmatch/internal/game"
	"github.com/hailam/chessmatch/internal/rules"
	"github.com/hailam/chessmatch/internal/storage"
)

// Run exercises a fresh store returned by open for each subtest. open must
// register its own cleanup.
func Run(t *testing.T, open func(t *testing.T) storage.Store) {
	t.Run("CreateGet", func(t *testing.T) { testCreateGet(t, open(t)) })
	t.Run("CreateDuplicate", func(t *testing.T) { testCreateDuplicate(t, open(t)) })
	t.Run("CreateEmptyID", func(t *testing.T) { testCreateEmptyID(t, open(t)) })
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, open(t)) })
	t.Run("Update", func(t *testing.T) { testUpdate(t, open(t)) })
	t.Run("UpdateRejected", func(t *testing.T) { testUpdateRejected(t, open(t)) })
	t.Run("UpdateMissing", func(t *testing.T) { testUpdateMissing(t, open(t)) })
	t.Run("List", func(t *testing.T) { testList(t, open(t)) })
	t.Run("ConcurrentUpdates", func(t *testing.T) { testConcurrentUpdates(t, open(t)) })
	t.Run("CanceledContext", func(t *testing.T) { testCanceledContext(t, open(t)) })
}

func newState(t *testing.T, white, black game.PlayerID) *game.State {
	t.Helper()
	st, err := game.New(white, black)
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	return st
}

func mustMove(t *testing.T, uci string) storage.UpdateFunc {
	t.Helper()
	m := rulesMove(t, uci)
	return func(st *game.State) error {
		return st.SubmitMove(st.Player(st.SideToMove()), m)
	}
}

func testCreateGet(t *testing.T, s storage.Store) {
	ctx := context.Background()
	st := newState(t, "alice", "bob")
	if err := st.OfferDraw("bob"); err != nil {
		t.Fatal(err)
	}

	if err := s.Create(ctx, "g1", st); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := s.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.White != "alice" || got.Black != "bob" {
		t.Errorf("players = %s/%s, want alice/bob", got.White, got.Black)
	}
	if got.Position.ToFEN() != board.StartFEN {
		t.Errorf("FEN = %q, want %q", got.Position.ToFEN(), board.StartFEN)
	}
	if !got.DrawOffered(board.Black) {
		t.Error("draw offer was not persisted")
	}
	if got.Status != game.InProgress {
		t.Errorf("status = %s, want in_progress", got.Status)
	}
}

func testCreateDuplicate(t *testing.T, s storage.Store) {
	ctx := context.Background()
	if err := s.Create(ctx, "g1", newState(t, "alice", "bob")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := s.Create(ctx, "g1", newState(t, "carol", "dave"))
	if !errors.Is(err, storage.ErrExists) {
		t.Fatalf("second Create error = %v, want ErrExists", err)
	}

	got, err := s.Get(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if got.White != "alice" {
		t.Errorf("duplicate Create overwrote the game: white = %s", got.White)
	}
}

func testCreateEmptyID(t *testing.T, s storage.Store) {
	err := s.Create(context.Background(), "", newState(t, "alice", "bob"))
	if !errors.Is(err, storage.ErrInvalidID) {
		t.Fatalf("Create(\"\") error = %v, want ErrInvalidID", err)
	}
}

func testGetMissing(t *testing.T, s storage.Store) {
	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Get error = %v, want ErrNotFound", err)
	}
}

func testUpdate(t *testing.T, s storage.Store) {
	ctx := context.Background()
	if err := s.Create(ctx, "g1", newState(t, "alice", "bob")); err != nil {
		t.Fatal(err)
	}

	out, err := s.Update(ctx, "g1", mustMove(t, "e2e4"))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if out.SideToMove() != board.Black {
		t.Errorf("returned side to move = %s, want black", out.SideToMove())
	}

	got, err := s.Get(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	const want = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	if got.Position.ToFEN() != want {
		t.Errorf("stored FEN = %q, want %q", got.Position.ToFEN(), want)
	}
	if got.MoveCount != 1 {
		t.Errorf("move count = %d, want 1", got.MoveCount)
	}

	if _, err := s.Update(ctx, "g1", func(st *game.State) error { return st.Resign("bob") }); err != nil {
		t.Fatal(err)
	}
	got, err = s.Get(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	w, ok := got.WinnerID()
	if got.Status != game.WhiteWins || !ok || w != "alice" || got.Method != game.Resignation {
		t.Errorf("after resign: status=%s winner=%q method=%s", got.Status, w, got.Method)
	}
}

func testUpdateRejected(t *testing.T, s storage.Store) {
	ctx := context.Background()
	if err := s.Create(ctx, "g1", newState(t, "alice", "bob")); err != nil {
		t.Fatal(err)
	}
	before, err := s.Get(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.Update(ctx, "g1", func(st *game.State) error {
		if err := st.OfferDraw("alice"); err != nil {
			return err
		}
		return st.SubmitMove("bob", rulesMove(t, "e7e5"))
	})
	if !errors.Is(err, game.ErrNotYourTurn) {
		t.Fatalf("Update error = %v, want ErrNotYourTurn", err)
	}

	after, err := s.Get(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if after.DrawOffered(board.White) {
		t.Error("rejected update leaked a draw offer into the store")
	}
	if after.Position != before.Position || after.MoveCount != before.MoveCount {
		t.Error("rejected update changed the stored game")
	}
}

func testUpdateMissing(t *testing.T, s storage.Store) {
	called := false
	_, err := s.Update(context.Background(), "nope", func(*game.State) error {
		called = true
		return nil
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Update error = %v, want ErrNotFound", err)
	}
	if called {
		t.Error("update func ran for a missing game")
	}
}

func testList(t *testing.T, s storage.Store) {
	ctx := context.Background()
	entries, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("empty store lists %d games", len(entries))
	}

	for _, id := range []string{"b", "c", "a"} {
		if err := s.Create(ctx, id, newState(t, game.PlayerID("w-"+id), game.PlayerID("b-"+id))); err != nil {
			t.Fatal(err)
		}
	}
	entries, err = s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("List returned %d games, want 3", len(entries))
	}
	for i, id := range []string{"a", "b", "c"} {
		if entries[i].ID != id {
			t.Errorf("entries[%d].ID = %q, want %q", i, entries[i].ID, id)
		}
		if want := game.PlayerID("w-" + id); entries[i].State.White != want {
			t.Errorf("entries[%d] white = %q, want %q", i, entries[i].State.White, want)
		}
	}
}

// testConcurrentUpdates bumps one counter from many goroutines at once.
// Every update must land.
func testConcurrentUpdates(t *testing.T, s storage.Store) {
	ctx := context.Background()
	if err := s.Create(ctx, "g1", newState(t, "alice", "bob")); err != nil {
		t.Fatal(err)
	}

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "g1", func(st *game.State) error {
				st.MoveCount++
				return nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent Update: %v", err)
		}
	}
	got, err := s.Get(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if got.MoveCount != n {
		t.Errorf("move count = %d, want %d", got.MoveCount, n)
	}
}

func testCanceledContext(t *testing.T, s storage.Store) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Create(ctx, "g1", newState(t, "alice", "bob")); !errors.Is(err, context.Canceled) {
		t.Errorf("Create error = %v, want context.Canceled", err)
	}
	if _, err := s.Get(context.Background(), "g1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("canceled Create stored a game: %v", err)
	}
}

func rulesMove(t *testing.T, uci string) rules.Move {
	t.Helper()
	m, err := game.ParseMove(uci)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", uci, err)
	}
	return m
}

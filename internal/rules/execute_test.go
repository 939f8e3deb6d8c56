package rules

import (
	"testing"

	"github.com/hailam/chessmatch/internal/board"
)

func applyLegal(t *testing.T, pos *board.Position, s string) {
	t.Helper()
	m := mustMove(t, s)
	if !Legal(pos, m) {
		t.Fatalf("move %s is not legal in %s", s, pos.ToFEN())
	}
	Apply(pos, m)
}

func assertPiece(t *testing.T, pos *board.Position, sq board.Square, want board.Piece) {
	t.Helper()
	got, ok := pos.Board.PieceAt(sq)
	if !ok || got != want {
		t.Errorf("piece at %s = %v (present %v), want %v", sq, got, ok, want)
	}
}

func assertEmpty(t *testing.T, pos *board.Position, sq board.Square) {
	t.Helper()
	if p, ok := pos.Board.PieceAt(sq); ok {
		t.Errorf("square %s holds %v, want empty", sq, p)
	}
}

func TestApplyDoublePawnPush(t *testing.T) {
	pos := board.NewPosition()
	pos.HalfMoveClock = 5
	applyLegal(t, &pos, "e2e4")

	assertPiece(t, &pos, board.E4, board.NewPiece(board.Pawn, board.White))
	assertEmpty(t, &pos, board.E2)
	if !pos.EnPassant.Is(board.E3) {
		t.Errorf("en passant = %s, want e3", pos.EnPassant)
	}
	if pos.HalfMoveClock != 0 {
		t.Errorf("half-move clock = %d, want 0", pos.HalfMoveClock)
	}
	if pos.SideToMove != board.White || pos.FullMoveNumber != 1 {
		t.Errorf("Apply touched side to move or full-move number")
	}

	pos.SideToMove = board.Black
	applyLegal(t, &pos, "d7d5")
	if !pos.EnPassant.Is(board.D6) {
		t.Errorf("en passant after d7d5 = %s, want d6", pos.EnPassant)
	}
}

func TestApplyClearsEnPassant(t *testing.T) {
	for _, mv := range []string{"h8g8", "e8e7", "e8g8", "d7d6"} {
		t.Run(mv, func(t *testing.T) {
			pos := mustFEN(t, "4k2r/3p4/8/8/4P3/8/8/4K3 b k e3 0 1")
			applyLegal(t, &pos, mv)
			if _, ok := pos.EnPassant.Get(); ok {
				t.Errorf("en passant = %s after %s, want none", pos.EnPassant, mv)
			}
		})
	}
}

func TestApplyEnPassantCapture(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/3pP3/8/8/8/4K3 w - d6 3 1")
	applyLegal(t, &pos, "e5d6")

	assertPiece(t, &pos, board.D6, board.NewPiece(board.Pawn, board.White))
	assertEmpty(t, &pos, board.D5)
	assertEmpty(t, &pos, board.E5)
	if pos.Board.Count() != 3 {
		t.Errorf("piece count = %d, want 3", pos.Board.Count())
	}
	if pos.HalfMoveClock != 0 {
		t.Errorf("half-move clock = %d, want 0", pos.HalfMoveClock)
	}
}

func TestApplyBlackEnPassantCapture(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/3Pp3/8/8/4K3 b - d3 0 1")
	applyLegal(t, &pos, "e4d3")

	assertPiece(t, &pos, board.D3, board.NewPiece(board.Pawn, board.Black))
	assertEmpty(t, &pos, board.D4)
}

func TestApplyCastling(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		move     string
		king     board.Square
		rookFrom board.Square
		rookTo   board.Square
		color    board.Color
		rights   board.CastlingRights
	}{
		{"white kingside", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", board.G1, board.H1, board.F1, board.White, board.BlackKingSideCastle | board.BlackQueenSideCastle},
		{"white queenside", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", board.C1, board.A1, board.D1, board.White, board.BlackKingSideCastle | board.BlackQueenSideCastle},
		{"black kingside", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8g8", board.G8, board.H8, board.F8, board.Black, board.WhiteKingSideCastle | board.WhiteQueenSideCastle},
		{"black queenside", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", board.C8, board.A8, board.D8, board.Black, board.WhiteKingSideCastle | board.WhiteQueenSideCastle},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustFEN(t, tc.fen)
			applyLegal(t, &pos, tc.move)

			assertPiece(t, &pos, tc.king, board.NewPiece(board.King, tc.color))
			assertPiece(t, &pos, tc.rookTo, board.NewPiece(board.Rook, tc.color))
			assertEmpty(t, &pos, tc.rookFrom)
			if pos.CastlingRights != tc.rights {
				t.Errorf("castling = %s, want %s", pos.CastlingRights, tc.rights)
			}
			if pos.HalfMoveClock != 1 {
				t.Errorf("half-move clock = %d, want 1", pos.HalfMoveClock)
			}
		})
	}
}

func TestApplyKingStepRevokesBothRights(t *testing.T) {
	pos := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	applyLegal(t, &pos, "e1f1")
	if pos.CastlingRights != board.BlackKingSideCastle|board.BlackQueenSideCastle {
		t.Errorf("castling = %s, want kq", pos.CastlingRights)
	}

	// Walking back does not restore anything.
	applyLegal(t, &pos, "f1e1")
	if pos.CastlingRights.CanCastle(board.White, true) || pos.CastlingRights.CanCastle(board.White, false) {
		t.Errorf("white castling restored: %s", pos.CastlingRights)
	}
}

func TestApplyRookMoveRevokesOneRight(t *testing.T) {
	tests := []struct {
		fen    string
		move   string
		rights board.CastlingRights
	}{
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "h1h5", board.AllCastling &^ board.WhiteKingSideCastle},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "a1a5", board.AllCastling &^ board.WhiteQueenSideCastle},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "a8a5", board.AllCastling &^ board.BlackQueenSideCastle},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "h8h5", board.AllCastling &^ board.BlackKingSideCastle},
		// A rook elsewhere leaves the rights alone.
		{"r3k2r/8/8/8/8/8/R7/4K2R w KQkq - 0 1", "a2a5", board.AllCastling},
	}

	for _, tc := range tests {
		t.Run(tc.move, func(t *testing.T) {
			pos := mustFEN(t, tc.fen)
			applyLegal(t, &pos, tc.move)
			if pos.CastlingRights != tc.rights {
				t.Errorf("castling = %s, want %s", pos.CastlingRights, tc.rights)
			}
		})
	}
}

func TestApplyCornerRevokesRightsOfEitherColor(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		move   string
		rights board.CastlingRights
	}{
		{"black rook leaves a1", "4k3/8/8/8/8/8/8/r3K2R b KQ - 0 1", "a1a5", board.WhiteKingSideCastle},
		{"black rook leaves h1", "4k3/8/8/8/8/8/8/R3K2r b KQ - 0 1", "h1h5", board.WhiteQueenSideCastle},
		{"rook captures on a8", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "a1a8",
			board.WhiteKingSideCastle | board.BlackKingSideCastle},
		{"bishop captures on h8", "r3k2r/8/8/8/8/8/1B6/4K3 w kq - 0 1", "b2h8", board.BlackQueenSideCastle},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustFEN(t, tc.fen)
			applyLegal(t, &pos, tc.move)
			if pos.CastlingRights != tc.rights {
				t.Errorf("castling = %s, want %s", pos.CastlingRights, tc.rights)
			}
		})
	}
}

// TestApplyCastlingDoesNotReturnWithAnotherRook moves the h-rook into the
// vacated a1 corner; queenside castling must stay illegal.
func TestApplyCastlingDoesNotReturnWithAnotherRook(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/8/8/8/r3K2R b KQ - 0 1")

	applyLegal(t, &pos, "a1a5")
	pos.SideToMove = board.White
	applyLegal(t, &pos, "h1h2")
	pos.SideToMove = board.White
	applyLegal(t, &pos, "h2a2")
	pos.SideToMove = board.White
	applyLegal(t, &pos, "a2a1")
	pos.SideToMove = board.White

	if pos.CastlingRights != board.NoCastling {
		t.Errorf("castling = %s, want -", pos.CastlingRights)
	}
	if Legal(&pos, mustMove(t, "e1c1")) {
		t.Error("e1c1 is legal after the original a1 rook left")
	}
}

func TestApplyPromotion(t *testing.T) {
	tests := []struct {
		move string
		want board.PieceType
	}{
		{"a7a8", board.Queen},
		{"a7a8q", board.Queen},
		{"a7a8r", board.Rook},
		{"a7a8b", board.Bishop},
		{"a7a8n", board.Knight},
		{"a7b8n", board.Knight},
	}

	for _, tc := range tests {
		t.Run(tc.move, func(t *testing.T) {
			pos := mustFEN(t, "1r2k3/P7/8/8/8/8/8/4K3 w - - 9 40")
			applyLegal(t, &pos, tc.move)
			m := mustMove(t, tc.move)
			assertPiece(t, &pos, m.To, board.NewPiece(tc.want, board.White))
			assertEmpty(t, &pos, board.A7)
			if pos.HalfMoveClock != 0 {
				t.Errorf("half-move clock = %d, want 0", pos.HalfMoveClock)
			}
		})
	}

	pos := mustFEN(t, "4k3/8/8/8/8/8/p7/4K3 b - - 0 1")
	applyLegal(t, &pos, "a2a1")
	assertPiece(t, &pos, board.A1, board.NewPiece(board.Queen, board.Black))
}

func TestApplyHalfMoveClock(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/3p4/8/8/8/3RK3 w - - 7 1")
	applyLegal(t, &pos, "e1f2")
	if pos.HalfMoveClock != 8 {
		t.Errorf("quiet king move: half-move clock = %d, want 8", pos.HalfMoveClock)
	}

	applyLegal(t, &pos, "d1d5")
	if pos.HalfMoveClock != 0 {
		t.Errorf("capture: half-move clock = %d, want 0", pos.HalfMoveClock)
	}
}

func TestApplyIgnoresEmptyOrigin(t *testing.T) {
	pos := board.NewPosition()
	before := pos
	Apply(&pos, NewMove(board.E4, board.E5))
	if pos != before {
		t.Errorf("Apply with empty origin changed the position")
	}
}

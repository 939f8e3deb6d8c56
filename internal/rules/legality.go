package rules

import (
	"golang.org/x/exp/constraints"

	"github.com/hailam/chessmatch/internal/board"
)

// kingFile is the e-file, where both kings start.
const kingFile = 4

// IsLegal reports whether m is a legal move for mover on b, given the
// current castling rights and en-passant target.
//
// Check and checkmate are not part of these rules: a move that leaves or
// puts the mover's own king in check is legal, and castling is not blocked
// by attacked squares. IsLegal is total; malformed input yields false.
func IsLegal(b *board.Board, m Move, mover board.Color, cr board.CastlingRights, ep board.OptSquare) bool {
	if !m.From.IsValid() || !m.To.IsValid() {
		return false
	}
	if pt, ok := m.Promotion(); ok && !validPromotion(pt) {
		return false
	}

	piece, ok := b.PieceAt(m.From)
	if !ok || piece.Color != mover {
		return false
	}
	if dest, ok := b.PieceAt(m.To); ok && dest.Color == mover {
		return false
	}

	switch piece.Type {
	case board.Pawn:
		return legalPawn(b, m, mover, ep)
	case board.Rook:
		return legalRook(b, m)
	case board.Knight:
		return legalKnight(m)
	case board.Bishop:
		return legalBishop(b, m)
	case board.Queen:
		return legalRook(b, m) || legalBishop(b, m)
	case board.King:
		return legalKing(b, m, mover, cr)
	}
	return false
}

// Legal is IsLegal for the side to move in pos.
func Legal(pos *board.Position, m Move) bool {
	return IsLegal(&pos.Board, m, pos.SideToMove, pos.CastlingRights, pos.EnPassant)
}

// pawnDirection returns +1 for White and -1 for Black.
func pawnDirection(c board.Color) int {
	if c == board.White {
		return 1
	}
	return -1
}

// pawnStartRank returns the rank a color's pawns start on.
func pawnStartRank(c board.Color) int {
	if c == board.White {
		return 1
	}
	return 6
}

func legalPawn(b *board.Board, m Move, mover board.Color, ep board.OptSquare) bool {
	dir := pawnDirection(mover)
	fromRank, fromFile := m.From.Coords()
	dr, df := delta(m.From, m.To)

	switch {
	case df == 0 && dr == dir:
		return b.IsEmpty(m.To)
	case df == 0 && dr == 2*dir && fromRank == pawnStartRank(mover):
		skipped, _ := board.NewSquare(fromFile, fromRank+dir)
		return b.IsEmpty(skipped) && b.IsEmpty(m.To)
	case abs(df) == 1 && dr == dir:
		if !b.IsEmpty(m.To) {
			return true
		}
		return ep.Is(m.To)
	}
	return false
}

func legalRook(b *board.Board, m Move) bool {
	dr, df := delta(m.From, m.To)
	if dr != 0 && df != 0 {
		return false
	}
	return pathClear(b, m.From, m.To)
}

func legalKnight(m Move) bool {
	dr, df := delta(m.From, m.To)
	dr, df = abs(dr), abs(df)
	return (dr == 2 && df == 1) || (dr == 1 && df == 2)
}

func legalBishop(b *board.Board, m Move) bool {
	dr, df := delta(m.From, m.To)
	if abs(dr) != abs(df) {
		return false
	}
	return pathClear(b, m.From, m.To)
}

func legalKing(b *board.Board, m Move, mover board.Color, cr board.CastlingRights) bool {
	dr, df := delta(m.From, m.To)
	if abs(dr) <= 1 && abs(df) <= 1 {
		return true
	}
	if dr == 0 && abs(df) == 2 {
		return legalCastle(b, m, mover, cr)
	}
	return false
}

// legalCastle checks the castling conditions: king on its home square, the
// matching right still held, the rook in its corner and nothing in between.
func legalCastle(b *board.Board, m Move, mover board.Color, cr board.CastlingRights) bool {
	rank, file := m.From.Coords()
	if rank != board.HomeRank(mover) || file != kingFile {
		return false
	}

	kingSide := m.To.File() > file
	if !cr.CanCastle(mover, kingSide) {
		return false
	}

	rookFrom, _ := castleRookSquares(mover, kingSide)
	rook, ok := b.PieceAt(rookFrom)
	if !ok || rook != board.NewPiece(board.Rook, mover) {
		return false
	}
	return pathClear(b, m.From, rookFrom)
}

// castleRookSquares returns where the castling rook starts and ends.
func castleRookSquares(c board.Color, kingSide bool) (from, to board.Square) {
	rank := board.HomeRank(c)
	fromFile, toFile := 0, 3
	if kingSide {
		fromFile, toFile = 7, 5
	}
	from, _ = board.NewSquare(fromFile, rank)
	to, _ = board.NewSquare(toFile, rank)
	return from, to
}

// pathClear returns true if every square strictly between from and to is
// empty. from and to must share a rank, file or diagonal.
func pathClear(b *board.Board, from, to board.Square) bool {
	dr, df := delta(from, to)
	stepRank, stepFile := sign(dr), sign(df)
	rank, file := from.Coords()
	toRank, toFile := to.Coords()

	rank += stepRank
	file += stepFile
	for rank != toRank || file != toFile {
		sq, ok := board.NewSquare(file, rank)
		if !ok || !b.IsEmpty(sq) {
			return false
		}
		rank += stepRank
		file += stepFile
	}
	return true
}

// delta returns the rank and file differences from -> to.
func delta(from, to board.Square) (dr, df int) {
	return to.Rank() - from.Rank(), to.File() - from.File()
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func sign[T constraints.Signed](x T) T {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

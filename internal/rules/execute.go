package rules

import "github.com/hailam/chessmatch/internal/board"

// Apply plays m on pos. It updates the board, castling rights, en-passant
// target and half-move clock. Side to move and the full-move number are
// left to the caller.
//
// m must have passed IsLegal for pos; Apply does not validate it. If there is
// no piece on m.From, pos is left untouched.
func Apply(pos *board.Position, m Move) {
	piece, ok := pos.Board.PieceAt(m.From)
	if !ok {
		return
	}
	capture := !pos.Board.IsEmpty(m.To)
	placed := piece

	switch piece.Type {
	case board.King:
		if abs(m.To.File()-m.From.File()) == 2 {
			rookFrom, rookTo := castleRookSquares(piece.Color, m.To.File() > m.From.File())
			pos.Board.Move(rookFrom, rookTo)
		}
		pos.CastlingRights.RevokeColor(piece.Color)
		pos.EnPassant = board.NoSquare

	case board.Pawn:
		dir := pawnDirection(piece.Color)
		if pos.EnPassant.Is(m.To) {
			if victim, ok := board.NewSquare(m.To.File(), m.To.Rank()-dir); ok {
				pos.Board.Remove(victim)
			}
		}

		if abs(m.To.Rank()-m.From.Rank()) == 2 {
			skipped, _ := board.NewSquare(m.From.File(), m.From.Rank()+dir)
			pos.EnPassant = board.SomeSquare(skipped)
		} else {
			pos.EnPassant = board.NoSquare
		}

		if m.To.Rank() == board.HomeRank(piece.Color.Other()) {
			promo, ok := m.Promotion()
			if !ok {
				promo = board.Queen
			}
			placed = board.NewPiece(promo, piece.Color)
		}

	default:
		pos.EnPassant = board.NoSquare
	}

	pos.Board.Remove(m.From)
	pos.Board.Set(m.To, placed)

	revokeCorner(&pos.CastlingRights, m.From)
	revokeCorner(&pos.CastlingRights, m.To)

	if piece.Type == board.Pawn || capture {
		pos.HalfMoveClock = 0
	} else {
		pos.HalfMoveClock++
	}
}

// revokeCorner clears the castling right tied to corner square sq. Any move
// leaving or landing on a1, h1, a8 or h8 means the original rook is gone.
func revokeCorner(cr *board.CastlingRights, sq board.Square) {
	switch sq {
	case board.A1:
		cr.Revoke(board.WhiteQueenSideCastle)
	case board.H1:
		cr.Revoke(board.WhiteKingSideCastle)
	case board.A8:
		cr.Revoke(board.BlackQueenSideCastle)
	case board.H8:
		cr.Revoke(board.BlackKingSideCastle)
	}
}

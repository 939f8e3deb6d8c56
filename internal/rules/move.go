// Package rules decides whether a move is legal and applies legal moves to a
// position. Validation and execution are separate steps: IsLegal never
// mutates anything, and Apply assumes IsLegal already returned true.
package rules

import (
	"fmt"

	"github.com/hailam/chessmatch/internal/board"
)

// Move is a request to move the piece on From to To. Promotion optionally
// names the piece a pawn becomes on the last rank; Queen is used otherwise.
type Move struct {
	From board.Square
	To   board.Square

	promotion board.PieceType
	promote   bool
}

// NewMove creates a move without a promotion choice.
func NewMove(from, to board.Square) Move {
	return Move{From: from, To: to}
}

// NewPromotion creates a move that requests promotion to pt.
func NewPromotion(from, to board.Square, pt board.PieceType) Move {
	return Move{From: from, To: to, promotion: pt, promote: true}
}

// Promotion returns the requested promotion piece, if any.
func (m Move) Promotion() (board.PieceType, bool) {
	return m.promotion, m.promote
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.promote {
		s += string(m.promotion.Char())
	}
	return s
}

// ParseMove parses a UCI format move string.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("invalid move string: %q", s)
	}

	from, err := board.ParseSquare(s[0:2])
	if err != nil {
		return Move{}, err
	}

	to, err := board.ParseSquare(s[2:4])
	if err != nil {
		return Move{}, err
	}

	if len(s) == 5 {
		promo, ok := promotionFromChar(s[4])
		if !ok {
			return Move{}, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewPromotion(from, to, promo), nil
	}

	return NewMove(from, to), nil
}

func promotionFromChar(c byte) (board.PieceType, bool) {
	switch c {
	case 'n':
		return board.Knight, true
	case 'b':
		return board.Bishop, true
	case 'r':
		return board.Rook, true
	case 'q':
		return board.Queen, true
	}
	return 0, false
}

// validPromotion reports whether pt is a piece a pawn may become.
func validPromotion(pt board.PieceType) bool {
	switch pt {
	case board.Knight, board.Bishop, board.Rook, board.Queen:
		return true
	}
	return false
}

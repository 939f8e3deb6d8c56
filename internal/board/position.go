package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
// Rights are only ever revoked during a game; there is no way to grant one
// back short of building a new position.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// CastleFlag returns the single right for the given color and wing.
func CastleFlag(c Color, kingSide bool) CastlingRights {
	switch {
	case c == White && kingSide:
		return WhiteKingSideCastle
	case c == White:
		return WhiteQueenSideCastle
	case kingSide:
		return BlackKingSideCastle
	default:
		return BlackQueenSideCastle
	}
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&CastleFlag(c, kingSide) != 0
}

// Revoke clears the given rights.
func (cr *CastlingRights) Revoke(rights CastlingRights) {
	*cr &^= rights
}

// RevokeColor clears both rights of color c.
func (cr *CastlingRights) RevokeColor(c Color) {
	cr.Revoke(CastleFlag(c, true) | CastleFlag(c, false))
}

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// MarshalText encodes the rights in FEN form.
func (cr CastlingRights) MarshalText() ([]byte, error) {
	return []byte(cr.String()), nil
}

// UnmarshalText parses FEN castling rights.
func (cr *CastlingRights) UnmarshalText(text []byte) error {
	return parseCastlingRights(cr, string(text))
}

// Position is the board together with the metadata that travels with it.
type Position struct {
	Board          Board          `json:"board"`
	SideToMove     Color          `json:"side_to_move"`
	CastlingRights CastlingRights `json:"castling"`
	EnPassant      OptSquare      `json:"en_passant"` // target square right after a double pawn push
	HalfMoveClock  int            `json:"halfmove_clock"`
	FullMoveNumber int            `json:"fullmove_number"`
}

// NewPosition creates the starting position.
func NewPosition() Position {
	return Position{
		Board:          StartingBoard(),
		SideToMove:     White,
		CastlingRights: AllCastling,
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString(p.Board.String())
	fmt.Fprintf(&sb, "\nSide to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMoveNumber)
	return sb.String()
}

package board

import "fmt"

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return fmt.Sprintf("Color(%d)", uint8(c))
	}
}

// MarshalText encodes the color as "white" or "black".
func (c Color) MarshalText() ([]byte, error) {
	switch c {
	case White:
		return []byte("white"), nil
	case Black:
		return []byte("black"), nil
	default:
		return nil, fmt.Errorf("invalid color: %d", uint8(c))
	}
}

// UnmarshalText is the inverse of MarshalText.
func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "white":
		*c = White
	case "black":
		*c = Black
	default:
		return fmt.Errorf("invalid color: %q", text)
	}
	return nil
}

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return fmt.Sprintf("PieceType(%d)", uint8(pt))
	}
}

// IsValid reports whether pt is one of the six piece types.
func (pt PieceType) IsValid() bool {
	return pt <= King
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	if !pt.IsValid() {
		return '?'
	}
	return "pnbrqk"[pt]
}

// PieceTypeFromChar converts a lowercase or uppercase FEN letter to a PieceType.
func PieceTypeFromChar(c byte) (PieceType, bool) {
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	switch c {
	case 'p':
		return Pawn, true
	case 'n':
		return Knight, true
	case 'b':
		return Bishop, true
	case 'r':
		return Rook, true
	case 'q':
		return Queen, true
	case 'k':
		return King, true
	}
	return 0, false
}

// Piece combines PieceType and Color.
type Piece struct {
	Type  PieceType
	Color Color
}

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	return Piece{Type: pt, Color: c}
}

// String returns the FEN character for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) String() string {
	ch := p.Type.Char()
	if p.Color == White {
		ch -= 'a' - 'A'
	}
	return string(ch)
}

// PieceFromChar converts a FEN character to a Piece.
func PieceFromChar(c byte) (Piece, bool) {
	pt, ok := PieceTypeFromChar(c)
	if !ok {
		return Piece{}, false
	}
	color := Black
	if c >= 'A' && c <= 'Z' {
		color = White
	}
	return NewPiece(pt, color), true
}

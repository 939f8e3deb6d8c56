// Package board implements the chess board model: an 8x8 grid of optional
// pieces plus the positional metadata a rules engine needs. It carries no
// move legality logic.
package board

import (
	"encoding/json"
	"fmt"
)

// Square represents a square on the chess board (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
// Rank 0 is White's back rank, file 0 is the queenside (a) file.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// NumSquares is the number of squares on the board.
const NumSquares = 64

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (row) of the square (0-7, where 0=1, 7=8).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// Coords returns rank and file of the square.
func (sq Square) Coords() (rank, file int) {
	return sq.Rank(), sq.File()
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NumSquares
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.IsValid() {
		return fmt.Sprintf("square(%d)", uint8(sq))
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// NewSquare creates a square from file and rank (0-indexed).
// ok is false when either coordinate is off the board.
func NewSquare(file, rank int) (Square, bool) {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return 0, false
	}
	return Square(rank*8 + file), true
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid square: %q", s)
	}
	sq, ok := NewSquare(int(s[0])-'a', int(s[1])-'1')
	if !ok {
		return 0, fmt.Errorf("invalid square: %q", s)
	}
	return sq, nil
}

// HomeRank returns the back rank of the given color.
func HomeRank(c Color) int {
	if c == White {
		return 0
	}
	return 7
}

// OptSquare is a Square that may be absent, used for the en-passant target.
type OptSquare struct {
	sq    Square
	valid bool
}

// SomeSquare returns a present OptSquare holding sq.
func SomeSquare(sq Square) OptSquare {
	return OptSquare{sq: sq, valid: true}
}

// NoSquare is the absent OptSquare.
var NoSquare = OptSquare{}

// Get returns the square and whether it is present.
func (o OptSquare) Get() (Square, bool) {
	return o.sq, o.valid
}

// Is reports whether o holds exactly sq.
func (o OptSquare) Is(sq Square) bool {
	return o.valid && o.sq == sq
}

// String returns the algebraic square or "-" when absent (FEN style).
func (o OptSquare) String() string {
	if !o.valid {
		return "-"
	}
	return o.sq.String()
}

// MarshalJSON encodes an absent square as null and a present one as its index.
func (o OptSquare) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(uint8(o.sq))
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (o *OptSquare) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = NoSquare
		return nil
	}
	var v uint8
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if !Square(v).IsValid() {
		return fmt.Errorf("en passant square out of range: %d", v)
	}
	*o = SomeSquare(Square(v))
	return nil
}

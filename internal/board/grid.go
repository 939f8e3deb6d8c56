package board

import "strings"

type cell struct {
	piece    Piece
	occupied bool
}

// Board is a fixed 8x8 grid of optional pieces indexed by Square.
// The zero value is an empty board. A Board is a plain value: copying it
// copies every square.
type Board struct {
	cells [NumSquares]cell
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// StartingBoard returns the standard initial setup.
func StartingBoard() Board {
	var b Board
	for file := 0; file < 8; file++ {
		b.cells[file] = cell{piece: NewPiece(backRank[file], White), occupied: true}
		b.cells[8+file] = cell{piece: NewPiece(Pawn, White), occupied: true}
		b.cells[48+file] = cell{piece: NewPiece(Pawn, Black), occupied: true}
		b.cells[56+file] = cell{piece: NewPiece(backRank[file], Black), occupied: true}
	}
	return b
}

// PieceAt returns the piece on sq, if any. Off-board squares are empty.
func (b *Board) PieceAt(sq Square) (Piece, bool) {
	if !sq.IsValid() {
		return Piece{}, false
	}
	c := b.cells[sq]
	return c.piece, c.occupied
}

// IsEmpty returns true if the square holds no piece.
func (b *Board) IsEmpty(sq Square) bool {
	_, ok := b.PieceAt(sq)
	return !ok
}

// Set places p on sq, replacing whatever was there.
func (b *Board) Set(sq Square, p Piece) {
	if !sq.IsValid() {
		return
	}
	b.cells[sq] = cell{piece: p, occupied: true}
}

// Remove clears sq and returns the piece that was on it.
func (b *Board) Remove(sq Square) (Piece, bool) {
	p, ok := b.PieceAt(sq)
	if ok {
		b.cells[sq] = cell{}
	}
	return p, ok
}

// Move relocates the piece on from to to, capturing anything on to.
func (b *Board) Move(from, to Square) {
	if p, ok := b.Remove(from); ok {
		b.Set(to, p)
	}
}

// Count returns the number of pieces on the board.
func (b *Board) Count() int {
	n := 0
	for _, c := range b.cells {
		if c.occupied {
			n++
		}
	}
	return n
}

// String returns a visual representation of the board, rank 8 at the top.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteString("  ")
		for file := 0; file < 8; file++ {
			sq, _ := NewSquare(file, rank)
			if p, ok := b.PieceAt(sq); ok {
				sb.WriteString(p.String())
			} else {
				sb.WriteByte('.')
			}
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}

// MarshalText encodes the board as a FEN piece-placement field.
func (b Board) MarshalText() ([]byte, error) {
	return []byte(b.placement()), nil
}

// UnmarshalText parses a FEN piece-placement field.
func (b *Board) UnmarshalText(text []byte) error {
	var nb Board
	if err := parsePiecePlacement(&nb, string(text)); err != nil {
		return err
	}
	*b = nb
	return nil
}

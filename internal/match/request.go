package match

import (
	"fmt"

	"github.com/hailam/chessmatch/internal/board"
	"github.com/hailam/chessmatch/internal/game"
	"github.com/hailam/chessmatch/internal/rules"
)

// MoveRequest is a move as submitted by a client. Promotion is nil when the
// client did not ask for a specific piece.
type MoveRequest struct {
	From      board.Square     `json:"from"`
	To        board.Square     `json:"to"`
	Promotion *board.PieceType `json:"promotion,omitempty"`
}

// Move converts r to a rules.Move. Out-of-range squares and unusable
// promotion pieces are left for the legality check to reject.
func (r MoveRequest) Move() rules.Move {
	if r.Promotion != nil {
		return rules.NewPromotion(r.From, r.To, *r.Promotion)
	}
	return rules.NewMove(r.From, r.To)
}

func (r MoveRequest) String() string {
	if r.Promotion != nil {
		return fmt.Sprintf("%s->%s=%s", r.From, r.To, *r.Promotion)
	}
	return fmt.Sprintf("%s->%s", r.From, r.To)
}

// ParseMoveRequest parses a UCI move such as "e2e4" or "e7e8n".
func ParseMoveRequest(uci string) (MoveRequest, error) {
	m, err := game.ParseMove(uci)
	if err != nil {
		return MoveRequest{}, err
	}
	r := MoveRequest{From: m.From, To: m.To}
	if pt, ok := m.Promotion(); ok {
		r.Promotion = &pt
	}
	return r, nil
}

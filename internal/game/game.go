// Package game runs the lifecycle of a single chess game: turn order, move
// submission, resignation, draw negotiation and termination.
//
// A State is owned by one caller at a time. The package does no locking;
// callers that share a game across goroutines must serialize access.
// Every operation either succeeds and updates the State, or returns an error
// and leaves the State exactly as it was.
package game

import (
	"fmt"
	"strings"

	"github.com/hailam/chessmatch/internal/board"
	"github.com/hailam/chessmatch/internal/rules"
)

// FiftyMoveLimit is the half-move clock value that ends the game in a draw.
const FiftyMoveLimit = 100

// PlayerID is the opaque identity of a player, as authenticated by the host.
type PlayerID string

// State is the full record of one game.
type State struct {
	White      PlayerID       `json:"white"`
	Black      PlayerID       `json:"black"`
	Position   board.Position `json:"position"`
	Status     Status         `json:"status"`
	Method     Method         `json:"method"`
	Winner     *PlayerID      `json:"winner,omitempty"`
	MoveCount  int            `json:"move_count"`
	DrawOffers [2]bool        `json:"draw_offers"` // indexed by board.Color
}

// New starts a game between white and black from the standard position.
func New(white, black PlayerID) (*State, error) {
	if strings.TrimSpace(string(white)) == "" || strings.TrimSpace(string(black)) == "" {
		return nil, fmt.Errorf("%w: both players are required", ErrInvalidPlayers)
	}
	if white == black {
		return nil, fmt.Errorf("%w: %q cannot play both sides", ErrInvalidPlayers, white)
	}
	return &State{
		White:    white,
		Black:    black,
		Position: board.NewPosition(),
		Status:   InProgress,
	}, nil
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := *s
	if s.Winner != nil {
		w := *s.Winner
		c.Winner = &w
	}
	return &c
}

// Player returns the identity seated on color c.
func (s *State) Player(c board.Color) PlayerID {
	if c == board.White {
		return s.White
	}
	return s.Black
}

// ColorOf returns the color caller plays, or ErrNotAPlayer.
func (s *State) ColorOf(caller PlayerID) (board.Color, error) {
	switch caller {
	case s.White:
		return board.White, nil
	case s.Black:
		return board.Black, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrNotAPlayer, caller)
}

// SideToMove returns the color whose turn it is.
func (s *State) SideToMove() board.Color {
	return s.Position.SideToMove
}

// WinnerID returns the winner, if the game was won.
func (s *State) WinnerID() (PlayerID, bool) {
	if s.Winner == nil {
		return "", false
	}
	return *s.Winner, true
}

// DrawOffered reports whether color c has an open draw offer.
func (s *State) DrawOffered(c board.Color) bool {
	return s.DrawOffers[c]
}

// Summary returns a one-line description of the game's status.
func (s *State) Summary() string {
	switch s.Status {
	case InProgress:
		return fmt.Sprintf("%s to move (move %d)", s.Position.SideToMove, s.Position.FullMoveNumber)
	case WhiteWins, BlackWins:
		w, _ := s.WinnerID()
		return fmt.Sprintf("%s, %s wins by %s", s.Status, w, s.Method)
	case Draw:
		return fmt.Sprintf("draw by %s", s.Method)
	}
	return s.Status.String()
}

// ParseMove parses a UCI move string, reporting failures as ErrInvalidMove.
func ParseMove(uci string) (rules.Move, error) {
	m, err := rules.ParseMove(uci)
	if err != nil {
		return rules.Move{}, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	return m, nil
}

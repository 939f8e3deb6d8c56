package game

import (
	"fmt"

	"github.com/hailam/chessmatch/internal/board"
	"github.com/hailam/chessmatch/internal/rules"
)

// SubmitMove plays m for caller.
//
// Preconditions are checked in order: caller is seated (ErrNotAPlayer), the
// game is running (ErrGameNotInProgress), it is caller's turn
// (ErrNotYourTurn), and m is legal (ErrInvalidMove). On success both draw
// offers are withdrawn, the turn passes, and a half-move clock of
// FiftyMoveLimit or more ends the game in a draw.
func (s *State) SubmitMove(caller PlayerID, m rules.Move) error {
	color, err := s.active(caller)
	if err != nil {
		return err
	}
	if color != s.Position.SideToMove {
		return fmt.Errorf("%w: %s to move", ErrNotYourTurn, s.Position.SideToMove)
	}
	if !rules.Legal(&s.Position, m) {
		return fmt.Errorf("%w: %s", ErrInvalidMove, m)
	}

	rules.Apply(&s.Position, m)

	s.DrawOffers = [2]bool{}
	s.Position.SideToMove = color.Other()
	s.MoveCount++
	if s.Position.SideToMove == board.White {
		s.Position.FullMoveNumber++
	}

	if s.Position.HalfMoveClock >= FiftyMoveLimit {
		s.finish(Draw, FiftyMoveRule, nil)
	}
	return nil
}

// Resign ends the game in favor of caller's opponent.
func (s *State) Resign(caller PlayerID) error {
	color, err := s.active(caller)
	if err != nil {
		return err
	}

	winner := color.Other()
	status := WhiteWins
	if winner == board.Black {
		status = BlackWins
	}
	id := s.Player(winner)
	s.finish(status, Resignation, &id)
	return nil
}

// OfferDraw records caller's draw offer. If the opponent has an open offer
// too, the game is drawn immediately.
func (s *State) OfferDraw(caller PlayerID) error {
	color, err := s.active(caller)
	if err != nil {
		return err
	}

	s.DrawOffers[color] = true
	if s.DrawOffers[board.White] && s.DrawOffers[board.Black] {
		s.finish(Draw, DrawAgreement, nil)
	}
	return nil
}

// AcceptDraw accepts the opponent's open draw offer.
func (s *State) AcceptDraw(caller PlayerID) error {
	color, err := s.active(caller)
	if err != nil {
		return err
	}
	if !s.DrawOffers[color.Other()] {
		return fmt.Errorf("%w: %s has not offered a draw", ErrNoDrawOffer, color.Other())
	}

	s.finish(Draw, DrawAgreement, nil)
	return nil
}

// active checks that caller is seated and the game is still running.
func (s *State) active(caller PlayerID) (board.Color, error) {
	color, err := s.ColorOf(caller)
	if err != nil {
		return 0, err
	}
	if s.Status.IsTerminal() {
		return 0, fmt.Errorf("%w: %s", ErrGameNotInProgress, s.Status)
	}
	return color, nil
}

func (s *State) finish(status Status, method Method, winner *PlayerID) {
	s.Status = status
	s.Method = method
	s.Winner = winner
}

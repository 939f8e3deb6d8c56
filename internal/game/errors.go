package game

import "errors"

var (
	ErrNotYourTurn       = errors.New("not your turn")
	ErrGameNotInProgress = errors.New("game is not in progress")
	ErrInvalidMove       = errors.New("invalid move")
	ErrNotAPlayer        = errors.New("not a player in this game")
	ErrNoDrawOffer       = errors.New("no draw offer to accept")
	ErrInvalidPlayers    = errors.New("invalid players")
)

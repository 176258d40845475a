package game

import (
	"errors"
	"fmt"
)

// Recoverable command errors. A rejected command leaves the board
// untouched; callers may retry with different input.
var (
	ErrWrongPhase    = errors.New("command not valid in the current phase")
	ErrOutOfBounds   = errors.New("position outside the 5x5 board")
	ErrCellOccupied  = errors.New("target cell already holds a stone")
	ErrCellEmpty     = errors.New("target cell holds no stone")
	ErrOwnStone      = errors.New("target cell holds your own stone")
	ErrNotYourStone  = errors.New("source cell does not hold your stone")
	ErrProtected     = errors.New("stone is protected by a reward pattern")
	ErrNotAdjacent   = errors.New("destination is not orthogonally adjacent")
	ErrNoCaptureOwed = errors.New("no pending captures for the acting player")
)

// ImmediateWinError signals that the command just played ended the game
// by leaving the opponent without a legal move. It travels on the error
// channel but is a terminal result, not a rejection: the board state
// reflects the completed command.
type ImmediateWinError struct {
	Winner Player
}

func (e ImmediateWinError) Error() string {
	return fmt.Sprintf("opponent immobilized: %s wins", e.Winner)
}

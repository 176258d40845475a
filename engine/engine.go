// Package engine runs complete games between agents over a single
// authoritative board.
package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"wudao/game"
)

// MaxTurns caps runaway games between weak agents. A full game rarely
// exceeds a few hundred actions.
const MaxTurns = 1000

type Engine struct {
	ID       uuid.UUID
	Board    *game.Board
	agents   map[game.Player]Agent
	maxTurns int
}

type Option func(*Engine)

func WithMaxTurns(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxTurns = n
		}
	}
}

// New wires two agents to a fresh board.
func New(black, white Agent, options ...Option) *Engine {
	e := &Engine{
		ID:       uuid.New(),
		Board:    game.NewBoard(),
		agents:   map[game.Player]Agent{game.Black: black, game.White: white},
		maxTurns: MaxTurns,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Result is the outcome of one finished game.
type Result struct {
	GameID  uuid.UUID
	Winner  game.Player
	Decided bool
	Turns   int
	Actions int
}

// Run loops agents against the board until the game is decided or the
// turn cap is reached.
func (e *Engine) Run() (Result, error) {
	log.Info().
		Str("game", e.ID.String()).
		Stringer("first", e.Board.CurrentPlayer()).
		Msg("game started")

	turns := 0
	for turns < e.maxTurns {
		if winner, over := e.Board.Winner(); over {
			return e.finish(winner, true, turns), nil
		}

		phase, player := e.Board.State()
		err := e.agents[player].Act(e.Board)
		turns++

		var win game.ImmediateWinError
		if errors.As(err, &win) {
			return e.finish(win.Winner, true, turns), nil
		}
		if err != nil {
			return Result{GameID: e.ID, Turns: turns},
				fmt.Errorf("turn %d (%s, %s): %w", turns, player, phase, err)
		}
	}

	log.Warn().
		Str("game", e.ID.String()).
		Int("turns", turns).
		Msg("turn cap reached without a winner")
	return e.finish(game.Black, false, turns), nil
}

func (e *Engine) finish(winner game.Player, decided bool, turns int) Result {
	if decided {
		log.Info().
			Str("game", e.ID.String()).
			Stringer("winner", winner).
			Int("turns", turns).
			Msg("game over")
	}
	return Result{
		GameID:  e.ID,
		Winner:  winner,
		Decided: decided,
		Turns:   turns,
		Actions: len(e.Board.Record()),
	}
}

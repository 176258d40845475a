// Package advisor recommends moves for all three game phases. It never
// mutates the board it is given: heuristics only read, and the
// Monte-Carlo movement search explores deep copies.
package advisor

import (
	"time"

	"wudao/game"
)

// Heuristic scoring constants for the placement and capture phases.
const (
	placementBase      = 10
	captureBase        = 10
	rewardWeight       = 50 // per completable square touching the cell
	threatWeight       = 20 // per intact opposing three-of-four square
	centralLineBonus   = 15 // capture target on the central row or column
	maxRewardPotential = 2
	maxThreat          = 3
)

const (
	defaultBudget = time.Second
	defaultCutoff = 20 // rollout plies
)

type Advisor struct {
	budget   time.Duration
	cutoff   int
	evaluate Evaluate
	metrics  Collector
}

type Option func(*Advisor)

// WithBudget sets the wall-clock budget shared by the movement search
// workers.
func WithBudget(d time.Duration) Option {
	return func(a *Advisor) {
		if d > 0 {
			a.budget = d
		}
	}
}

// WithCutoff caps the self-play depth of each rollout.
func WithCutoff(plies int) Option {
	return func(a *Advisor) {
		if plies > 0 {
			a.cutoff = plies
		}
	}
}

func WithEvaluationFn(evaluate Evaluate) Option {
	return func(a *Advisor) {
		if evaluate != nil {
			a.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(a *Advisor) {
		a.metrics = NewCollector()
	}
}

func New(options ...Option) *Advisor {
	a := &Advisor{
		budget:   defaultBudget,
		cutoff:   defaultCutoff,
		evaluate: EvaluatePosition,
		metrics:  NewNoopCollector(),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// SuggestPlacement scores every empty cell and returns the best one.
// Cells are scanned row-major and only a strictly better score replaces
// the incumbent, so ties favor the earliest cell.
func (a *Advisor) SuggestPlacement(b *game.Board) (game.Pos, bool) {
	var (
		best      game.Pos
		bestScore int
		found     bool
	)
	for _, pos := range b.LegalPlacements() {
		score := a.scorePlacement(b, pos)
		if !found || score > bestScore {
			best, bestScore, found = pos, score, true
		}
	}
	return best, found
}

func (a *Advisor) scorePlacement(b *game.Board, pos game.Pos) int {
	p := b.CurrentPlayer()
	score := placementBase
	score += rewardWeight * rewardPotential(b, pos, p)
	score += centerWeights[pos.Row][pos.Col]
	score -= threatWeight * opponentThreat(b, pos, p.Opponent())
	return score
}

// anchorsTouching lists the 2x2 anchors whose block contains pos.
func anchorsTouching(pos game.Pos) []game.Pos {
	var anchors []game.Pos
	for _, a := range [4]game.Pos{
		{Row: pos.Row, Col: pos.Col},
		{Row: pos.Row, Col: pos.Col - 1},
		{Row: pos.Row - 1, Col: pos.Col},
		{Row: pos.Row - 1, Col: pos.Col - 1},
	} {
		if a.Row >= 0 && a.Row < game.Size-1 && a.Col >= 0 && a.Col < game.Size-1 {
			anchors = append(anchors, a)
		}
	}
	return anchors
}

// squareTally counts the player's stones and the empty cells in the 2x2
// block at anchor, and reports the empty cell found last.
func squareTally(b *game.Board, anchor game.Pos, p game.Player) (own, empty int, gap game.Pos) {
	for dr := 0; dr <= 1; dr++ {
		for dc := 0; dc <= 1; dc++ {
			cell := game.Pos{Row: anchor.Row + dr, Col: anchor.Col + dc}
			owner, occupied := b.At(cell.Row, cell.Col).Owner()
			switch {
			case !occupied:
				empty++
				gap = cell
			case owner == p:
				own++
			}
		}
	}
	return own, empty, gap
}

// rewardPotential counts the squares a placement at pos would complete
// for the player, capped to keep the heuristic bounded.
func rewardPotential(b *game.Board, pos game.Pos, p game.Player) int {
	n := 0
	for _, anchor := range anchorsTouching(pos) {
		own, empty, _ := squareTally(b, anchor, p)
		if own == 3 && empty == 1 {
			n++
			if n == maxRewardPotential {
				break
			}
		}
	}
	return n
}

// opponentThreat counts opposing three-of-four squares a placement at
// pos leaves intact: the opponent can still complete them next turn.
func opponentThreat(b *game.Board, pos game.Pos, opp game.Player) int {
	n := 0
	for r := 0; r < game.Size-1; r++ {
		for c := 0; c < game.Size-1; c++ {
			own, empty, gap := squareTally(b, game.Pos{Row: r, Col: c}, opp)
			if own == 3 && empty == 1 && gap != pos {
				n++
				if n == maxThreat {
					return n
				}
			}
		}
	}
	return n
}

// SuggestCapture scores every capturable opposing stone and returns the
// best target.
func (a *Advisor) SuggestCapture(b *game.Board) (game.Pos, bool) {
	var (
		best      game.Pos
		bestScore int
		found     bool
	)
	for _, pos := range b.LegalCaptures() {
		score := captureBase + centerWeights[pos.Row][pos.Col]
		if pos.Row == game.Size/2 || pos.Col == game.Size/2 {
			// Central-line stones are the likeliest future reward pieces.
			score += centralLineBonus
		}
		if !found || score > bestScore {
			best, bestScore, found = pos, score, true
		}
	}
	return best, found
}

package advisor

import (
	"errors"
	"math"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"wudao/game"
)

// SuggestStep recommends a movement-phase move by parallel Monte-Carlo
// rollout. One worker per legal candidate runs randomized self-play
// clones of the board until the shared wall-clock budget expires, and
// reports its mean rollout score once into a mutex-guarded best-result
// register. Ties keep the first worker to report, which depends on
// scheduling; rollouts are unseeded, so runs are not reproducible.
func (a *Advisor) SuggestStep(b *game.Board) (game.Step, SearchMetrics, bool) {
	steps := b.LegalSteps()
	if len(steps) == 0 {
		return game.Step{}, SearchMetrics{}, false
	}
	a.metrics.Start(len(steps))
	deadline := time.Now().Add(a.budget)

	var (
		mu       sync.Mutex
		best     game.Step
		bestMean = math.Inf(-1)
		found    bool
	)
	g := new(errgroup.Group)
	for _, step := range steps {
		step := step
		g.Go(func() error {
			mean, rollouts := a.sampleStep(b, step, deadline)
			if rollouts == 0 {
				return nil
			}
			mu.Lock()
			if !found || mean > bestMean {
				best, bestMean, found = step, mean, true
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return best, a.metrics.Complete(), found
}

// sampleStep accumulates a running mean over as many rollouts of the
// candidate as fit in the budget. Every rollout starts from a fresh
// deep copy; the caller's board is never touched.
func (a *Advisor) sampleStep(root *game.Board, step game.Step, deadline time.Time) (float64, int) {
	mover := root.CurrentPlayer()
	var total float64
	n := 0
	for time.Now().Before(deadline) {
		b := root.Clone()
		score, ok := a.simulate(b, step, mover)
		if !ok {
			return 0, 0
		}
		total += score
		n++
		a.metrics.AddRollout()
	}
	if n == 0 {
		return 0, 0
	}
	return total / float64(n), n
}

func (a *Advisor) simulate(b *game.Board, step game.Step, mover game.Player) (float64, bool) {
	if _, err := b.Move(step.From, step.To); err != nil {
		var win game.ImmediateWinError
		if errors.As(err, &win) {
			a.metrics.AddDecisive()
			return decisive(win.Winner, mover), true
		}
		return 0, false
	}
	return a.playout(b, mover), true
}

// playout self-plays uniformly random legal actions for whichever phase
// the rollout is in, up to the cutoff, and scores the end state from
// the mover's perspective.
func (a *Advisor) playout(b *game.Board, mover game.Player) float64 {
	for depth := 0; depth < a.cutoff; depth++ {
		if winner, over := b.Winner(); over {
			a.metrics.AddDecisive()
			return decisive(winner, mover)
		}
		if score, over := a.randomPly(b, mover); over {
			return score
		}
	}
	return a.evaluate(b, mover)
}

// randomPly applies one random legal action. It reports a terminal
// score when the action decides the game.
func (a *Advisor) randomPly(b *game.Board, mover game.Player) (float64, bool) {
	switch b.Phase() {
	case game.Placement:
		cells := b.LegalPlacements()
		pos := cells[rand.Intn(len(cells))]
		if _, err := b.Place(pos.Row, pos.Col); err != nil {
			return a.evaluate(b, mover), true
		}
	case game.Capture:
		targets := b.LegalCaptures()
		if len(targets) == 0 {
			// Unreachable while the board forfeits unpayable quotas.
			return a.evaluate(b, mover), true
		}
		pos := targets[rand.Intn(len(targets))]
		if err := b.Capture(pos.Row, pos.Col); err != nil {
			return a.terminalOrEval(b, err, mover)
		}
	case game.Movement:
		steps := b.LegalSteps()
		if len(steps) == 0 {
			return a.evaluate(b, mover), true
		}
		step := steps[rand.Intn(len(steps))]
		if _, err := b.Move(step.From, step.To); err != nil {
			return a.terminalOrEval(b, err, mover)
		}
	}
	return 0, false
}

func (a *Advisor) terminalOrEval(b *game.Board, err error, mover game.Player) (float64, bool) {
	var win game.ImmediateWinError
	if errors.As(err, &win) {
		a.metrics.AddDecisive()
		return decisive(win.Winner, mover), true
	}
	return a.evaluate(b, mover), true
}

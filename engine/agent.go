package engine

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"

	"wudao/advisor"
	"wudao/game"
)

// Agent plays one command per turn against the board. Implementations
// return the board's own error verbatim so the engine can tell an
// immediate win from a bug.
type Agent interface {
	Act(b *game.Board) error
}

// AdvisorAgent plays whatever the advisor recommends for the current
// phase.
type AdvisorAgent struct {
	Advisor *advisor.Advisor

	// LastSearch holds the metrics of the most recent movement search.
	LastSearch advisor.SearchMetrics
}

func NewAdvisorAgent(adv *advisor.Advisor) *AdvisorAgent {
	return &AdvisorAgent{Advisor: adv}
}

func (a *AdvisorAgent) Act(b *game.Board) error {
	switch b.Phase() {
	case game.Placement:
		pos, ok := a.Advisor.SuggestPlacement(b)
		if !ok {
			return errors.New("no placement available")
		}
		_, err := b.Place(pos.Row, pos.Col)
		return err
	case game.Capture:
		pos, ok := a.Advisor.SuggestCapture(b)
		if !ok {
			return errors.New("no capture target available")
		}
		return b.Capture(pos.Row, pos.Col)
	default:
		step, metrics, ok := a.Advisor.SuggestStep(b)
		a.LastSearch = metrics
		if !ok {
			return fmt.Errorf("no legal move for %s", b.CurrentPlayer())
		}
		_, err := b.Move(step.From, step.To)
		return err
	}
}

// RandomAgent plays a uniformly random legal action. Used as a
// self-play baseline.
type RandomAgent struct{}

func (RandomAgent) Act(b *game.Board) error {
	switch b.Phase() {
	case game.Placement:
		cells := b.LegalPlacements()
		if len(cells) == 0 {
			return errors.New("no empty cell to place on")
		}
		pos := cells[rand.Intn(len(cells))]
		_, err := b.Place(pos.Row, pos.Col)
		return err
	case game.Capture:
		targets := b.LegalCaptures()
		if len(targets) == 0 {
			return errors.New("no capture target available")
		}
		pos := targets[rand.Intn(len(targets))]
		return b.Capture(pos.Row, pos.Col)
	default:
		steps := b.LegalSteps()
		if len(steps) == 0 {
			return fmt.Errorf("no legal move for %s", b.CurrentPlayer())
		}
		step := steps[rand.Intn(len(steps))]
		_, err := b.Move(step.From, step.To)
		return err
	}
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"wudao/advisor"
	"wudao/engine"
	"wudao/game"
)

// runPlay drives an interactive game on stdin/stdout. The human plays
// Black, the advisor plays White.
func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	adv := advisor.New(
		advisor.WithBudget(cfg.Advisor.Budget()),
		advisor.WithCutoff(cfg.Advisor.RolloutCutoff),
	)
	opponent := engine.NewAdvisorAgent(adv)

	board := game.NewBoard()
	in := bufio.NewScanner(os.Stdin)

	fmt.Println("You are Black (●). Enter moves as 'r c' to place or capture,")
	fmt.Println("'r c r c' to move a stone, or 'q' to quit.")
	fmt.Println(board)

	for {
		if w, over := board.Winner(); over {
			fmt.Printf("game over, winner: %s\n", w)
			break
		}

		phase, player := board.State()

		var err error
		if player == game.White {
			err = opponent.Act(board)
			if err == nil {
				fmt.Printf("White played.\n%s", board)
			}
		} else {
			err = humanTurn(board, adv, in, phase)
			if err == nil {
				fmt.Println(board)
			}
		}
		if err != nil {
			var win game.ImmediateWinError
			if errors.As(err, &win) {
				fmt.Printf("%s\ngame over, winner: %s\n", board, win.Winner)
				break
			}
			if errors.Is(err, errQuit) {
				break
			}
			fmt.Printf("rejected: %v\n", err)
		}
	}

	if recordPath != "" {
		if err := saveRecord(board, recordPath); err != nil {
			return err
		}
		fmt.Printf("record written to %s\n", recordPath)
	}
	return nil
}

var errQuit = errors.New("quit")

func humanTurn(b *game.Board, adv *advisor.Advisor, in *bufio.Scanner, phase game.Phase) error {
	if hints {
		printHint(b, adv, phase)
	}

	fmt.Printf("black %s> ", phase)
	if !in.Scan() {
		return errQuit
	}
	line := strings.TrimSpace(in.Text())
	if line == "q" || line == "quit" {
		return errQuit
	}

	fields := strings.Fields(line)
	nums := make([]int, 0, 4)
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return fmt.Errorf("bad coordinate %q", f)
		}
		nums = append(nums, n)
	}

	switch phase {
	case game.Placement:
		if len(nums) != 2 {
			return errors.New("placement takes two coordinates: r c")
		}
		bonus, err := b.Place(nums[0], nums[1])
		if err != nil {
			return err
		}
		if bonus > 0 {
			fmt.Printf("pattern completed, %d extra placement(s)\n", bonus)
		}
		return nil
	case game.Capture:
		if len(nums) != 2 {
			return errors.New("capture takes two coordinates: r c")
		}
		return b.Capture(nums[0], nums[1])
	case game.Movement:
		if len(nums) != 4 {
			return errors.New("movement takes four coordinates: r c r c")
		}
		caps, err := b.Move(game.Pos{Row: nums[0], Col: nums[1]}, game.Pos{Row: nums[2], Col: nums[3]})
		if err != nil {
			return err
		}
		if caps > 0 {
			fmt.Printf("pattern completed, capture %d stone(s)\n", caps)
		}
		return nil
	}
	return fmt.Errorf("unknown phase %v", phase)
}

func printHint(b *game.Board, adv *advisor.Advisor, phase game.Phase) {
	switch phase {
	case game.Placement:
		if pos, ok := adv.SuggestPlacement(b); ok {
			fmt.Printf("hint: place at %d %d\n", pos.Row, pos.Col)
		}
	case game.Capture:
		if pos, ok := adv.SuggestCapture(b); ok {
			fmt.Printf("hint: capture %d %d\n", pos.Row, pos.Col)
		}
	case game.Movement:
		if step, _, ok := adv.SuggestStep(b); ok {
			fmt.Printf("hint: move %d %d %d %d\n",
				step.From.Row, step.From.Col, step.To.Row, step.To.Col)
		}
	}
}

func saveRecord(b *game.Board, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return game.Encode(f, b.Record())
}

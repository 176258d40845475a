// Package experiments runs advisor self-play matchups and writes the
// per-game results to CSV for offline analysis.
package experiments

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"wudao/advisor"
	"wudao/engine"
)

// Matchup pits an advisor configuration (black) against a baseline
// random agent or another advisor (white).
type Matchup struct {
	Name         string
	Games        int
	MaxTurns     int
	Budget       time.Duration
	Cutoff       int
	RandomWhite  bool // white plays uniformly random when set
}

// GameResult is one CSV row of a self-play run.
type GameResult struct {
	Matchup  string
	Game     int
	GameID   string
	Winner   string
	Decided  bool
	Turns    int
	Actions  int
	Rollouts int64
}

// Run plays every matchup and writes results.csv under outDir.
func Run(matchups []Matchup, outDir string) error {
	var results []GameResult
	for _, m := range matchups {
		log.Info().Str("matchup", m.Name).Int("games", m.Games).Msg("matchup started")
		for i := 0; i < m.Games; i++ {
			result, rollouts, err := playGame(m)
			if err != nil {
				return fmt.Errorf("matchup %s game %d: %w", m.Name, i+1, err)
			}
			results = append(results, GameResult{
				Matchup:  m.Name,
				Game:     i + 1,
				GameID:   result.GameID.String(),
				Winner:   result.Winner.String(),
				Decided:  result.Decided,
				Turns:    result.Turns,
				Actions:  result.Actions,
				Rollouts: rollouts,
			})
		}
	}
	return writeResults(results, outDir)
}

func playGame(m Matchup) (engine.Result, int64, error) {
	options := []advisor.Option{advisor.WithMetrics()}
	if m.Budget > 0 {
		options = append(options, advisor.WithBudget(m.Budget))
	}
	if m.Cutoff > 0 {
		options = append(options, advisor.WithCutoff(m.Cutoff))
	}
	black := engine.NewAdvisorAgent(advisor.New(options...))

	var white engine.Agent
	var whiteAdvisor *engine.AdvisorAgent
	if m.RandomWhite {
		white = engine.RandomAgent{}
	} else {
		whiteAdvisor = engine.NewAdvisorAgent(advisor.New(options...))
		white = whiteAdvisor
	}

	e := engine.New(black, white, engine.WithMaxTurns(m.MaxTurns))
	result, err := e.Run()
	if err != nil {
		return result, 0, err
	}

	rollouts := black.LastSearch.Rollouts
	if whiteAdvisor != nil {
		rollouts += whiteAdvisor.LastSearch.Rollouts
	}
	return result, rollouts, nil
}

func writeResults(results []GameResult, outDir string) error {
	dir := filepath.Join(outDir, time.Now().UTC().Format("2006-01-02T150405Z"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create results directory: %w", err)
	}
	path := filepath.Join(dir, "results.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"matchup", "game", "game_id", "winner", "decided", "turns", "actions", "rollouts"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write results header: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.Matchup,
			strconv.Itoa(r.Game),
			r.GameID,
			r.Winner,
			strconv.FormatBool(r.Decided),
			strconv.Itoa(r.Turns),
			strconv.Itoa(r.Actions),
			strconv.FormatInt(r.Rollouts, 10),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write result row: %w", err)
		}
	}
	log.Info().Str("path", path).Int("games", len(results)).Msg("results written")
	return nil
}

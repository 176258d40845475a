package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wudao/config"
	"wudao/experiments"
	"wudao/game"
)

var (
	configPath string
	hints      bool
	recordPath string

	rootCmd = &cobra.Command{
		Use:   "wudao",
		Short: "Play, replay and analyze games of Wudao on a 5x5 board",
	}

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Play an interactive game against the move advisor",
		RunE:  runPlay,
	}

	replayCmd = &cobra.Command{
		Use:   "replay [record.csv]",
		Short: "Step through a recorded game action by action",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplay,
	}

	selfplayCmd = &cobra.Command{
		Use:   "selfplay",
		Short: "Run advisor self-play matchups and write results to CSV",
		RunE:  runSelfplay,
	}
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	playCmd.Flags().BoolVar(&hints, "hints", false, "print the advisor's suggestion before each of your turns")
	playCmd.Flags().StringVar(&recordPath, "record", "", "write the finished game's action record to this CSV file")
	rootCmd.AddCommand(playCmd, replayCmd, selfplayCmd)
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	actions, err := game.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}

	rep := game.NewReplayer(actions)
	fmt.Println(rep.Board())
	step := 0
	for {
		b, ok, err := rep.StepForward()
		if err != nil {
			return fmt.Errorf("replaying action %d: %w", step, err)
		}
		if !ok {
			break
		}
		step++
		fmt.Printf("-- action %d: %s\n%s", step, actions[step-1], b)
	}
	if w, over := rep.Board().Winner(); over {
		fmt.Printf("winner: %s\n", w)
	}
	return nil
}

func runSelfplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	matchups := []experiments.Matchup{
		{
			Name:     "advisor-vs-advisor",
			Games:    cfg.SelfPlay.Games,
			MaxTurns: cfg.SelfPlay.MaxTurns,
			Budget:   cfg.Advisor.Budget(),
			Cutoff:   cfg.Advisor.RolloutCutoff,
		},
		{
			Name:        "advisor-vs-random",
			Games:       cfg.SelfPlay.Games,
			MaxTurns:    cfg.SelfPlay.MaxTurns,
			Budget:      cfg.Advisor.Budget(),
			Cutoff:      cfg.Advisor.RolloutCutoff,
			RandomWhite: true,
		},
	}
	return experiments.Run(matchups, cfg.SelfPlay.OutDir)
}

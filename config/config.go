// Package config loads tunable settings for the advisor and self-play
// runs from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Advisor  AdvisorConfig  `yaml:"advisor"`
	SelfPlay SelfPlayConfig `yaml:"selfplay"`
}

type AdvisorConfig struct {
	// BudgetMs is the wall-clock budget of one movement search.
	BudgetMs int `yaml:"budget_ms"`
	// RolloutCutoff caps the self-play depth of one rollout.
	RolloutCutoff int `yaml:"rollout_cutoff"`
}

type SelfPlayConfig struct {
	Games    int    `yaml:"games"`
	MaxTurns int    `yaml:"max_turns"`
	OutDir   string `yaml:"out_dir"`
}

func Default() Config {
	return Config{
		Advisor: AdvisorConfig{
			BudgetMs:      1000,
			RolloutCutoff: 20,
		},
		SelfPlay: SelfPlayConfig{
			Games:    10,
			MaxTurns: 1000,
			OutDir:   "selfplay",
		},
	}
}

// Load reads path over the defaults. A missing path returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Budget converts the advisor budget to a duration.
func (c AdvisorConfig) Budget() time.Duration {
	return time.Duration(c.BudgetMs) * time.Millisecond
}

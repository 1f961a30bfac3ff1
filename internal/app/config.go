package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DesiredPath string // hcl file or directory: the freshly compiled patch
	CurrentPath string // hcl file or directory: the running patch; empty on first run

	Output    string // "text" or "json"
	LogFormat string
	LogLevel  string

	MatchThreshold  float64
	AmbiguityMargin float64
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.DesiredPath == "" {
		return nil, errors.New("DesiredPath is a required configuration field and cannot be empty")
	}
	if cfg.MatchThreshold < 0 || cfg.MatchThreshold > 1 {
		return nil, fmt.Errorf("MatchThreshold must be within [0,1], got %v", cfg.MatchThreshold)
	}
	if cfg.AmbiguityMargin < 0 || cfg.AmbiguityMargin > 1 {
		return nil, fmt.Errorf("AmbiguityMargin must be within [0,1], got %v", cfg.AmbiguityMargin)
	}

	return &cfg, nil
}

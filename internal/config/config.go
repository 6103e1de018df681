package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// GameDuration is the game length in seconds.
	GameDuration int `env:"GAME_DURATION" envDefault:"120"`
	// SkipPenalty is subtracted from the score for every skipped target.
	SkipPenalty int `env:"SKIP_PENALTY" envDefault:"50"`

	// Default grid for clients that do not report their own layout; narrow
	// viewports report 4 or 6 columns instead.
	GridColumns int `env:"GRID_COLUMNS" envDefault:"12"`
	GridRows    int `env:"GRID_ROWS" envDefault:"8"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.GridColumns < 1 || cfg.GridRows < 1 {
		return nil, fmt.Errorf("grid %dx%d is not usable", cfg.GridColumns, cfg.GridRows)
	}
	return &cfg, nil
}

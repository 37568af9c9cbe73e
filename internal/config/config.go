// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/pefman/orlog-duel/internal/engine"
)

var (
	ErrLogFormat  = errors.New("log format must be console or json")
	ErrMaxRounds  = errors.New("max rounds must not be negative")
	ErrMaxMatches = errors.New("max matches must be positive")
)

// Config holds every ORLOG_* setting. Zero Seed means a fresh random seed.
type Config struct {
	Addr           string   `env:"ORLOG_ADDR" envDefault:":8081"`
	LogLevel       string   `env:"ORLOG_LOG_LEVEL" envDefault:"info"`
	LogFormat      string   `env:"ORLOG_LOG_FORMAT" envDefault:"console"`
	LogOutput      []string `env:"ORLOG_LOG_OUTPUT" envDefault:"stderr" envSeparator:","`
	Seed           int64    `env:"ORLOG_SEED" envDefault:"0"`
	AllowedOrigins []string `env:"ORLOG_ALLOWED_ORIGINS" envSeparator:","`
	// MaxMatches bounds the match tallies kept for the stats endpoints.
	MaxMatches int `env:"ORLOG_MAX_MATCHES" envDefault:"1000"`

	P1Name    string   `env:"ORLOG_P1_NAME" envDefault:"Player 1"`
	P2Name    string   `env:"ORLOG_P2_NAME" envDefault:"Player 2"`
	P1Favors  []string `env:"ORLOG_P1_FAVORS" envSeparator:","`
	P2Favors  []string `env:"ORLOG_P2_FAVORS" envSeparator:","`
	MaxRounds int      `env:"ORLOG_MAX_ROUNDS" envDefault:"100"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("%w: %q", ErrLogFormat, c.LogFormat)
	}
	if c.MaxRounds < 0 {
		return ErrMaxRounds
	}
	if c.MaxMatches <= 0 {
		return ErrMaxMatches
	}
	for i, fs := range c.Favors() {
		if len(fs) > engine.MaxFavors {
			return fmt.Errorf("player %d: %w", i+1, engine.ErrTooManyFavors)
		}
	}
	return nil
}

func (c Config) Names() [2]string { return [2]string{c.P1Name, c.P2Name} }

// Favors returns the trimmed, non-empty favor names per seat.
func (c Config) Favors() [2][]string {
	return [2][]string{clean(c.P1Favors), clean(c.P2Favors)}
}

// OriginAllowed reports whether a websocket Origin header is acceptable.
// An empty allow list accepts any origin.
func (c Config) OriginAllowed(origin string) bool {
	if len(c.AllowedOrigins) == 0 || origin == "" {
		return true
	}
	for _, o := range c.AllowedOrigins {
		if strings.EqualFold(strings.TrimSpace(o), origin) {
			return true
		}
	}
	return false
}

func clean(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

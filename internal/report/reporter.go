// Package report turns a loaded telemetry table into human-readable
// markdown-flavored summaries. Every report is a pure function of the table
// passed in: no state survives between calls, and a table missing what a
// report needs yields a diagnostic string rather than an error.
package report

import (
	"errors"
	"log/slog"

	"github.com/jonboulle/clockwork"
)

type Config struct {
	Logger *slog.Logger

	// Optional with defaults.
	Clock clockwork.Clock
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return errors.New("logger is required")
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return nil
}

type Reporter struct {
	log   *slog.Logger
	clock clockwork.Clock
}

func New(cfg Config) (*Reporter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Reporter{log: cfg.Logger, clock: cfg.Clock}, nil
}

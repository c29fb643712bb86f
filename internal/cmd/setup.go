package cmd

import (
	"fmt"

	"github.com/Iron-Ham/groupspin/internal/config"
	"github.com/Iron-Ham/groupspin/internal/errors"
	"github.com/Iron-Ham/groupspin/internal/logging"
	"github.com/Iron-Ham/groupspin/internal/roster"
)

// loadConfig loads and validates the viper-backed configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// resolveRoster picks the participants for a session. Names given on the
// command line win, then the --roster file, then roster.file, then
// roster.participants.
func resolveRoster(cfg *config.Config, args []string, file string) (roster.Roster, error) {
	switch {
	case len(args) > 0:
		r := roster.Normalize(args)
		if err := r.Validate(); err != nil {
			return nil, err
		}
		return r, nil
	case file != "":
		return roster.Load(file)
	case cfg.Roster.File != "":
		return roster.Load(cfg.Roster.File)
	default:
		r := roster.Normalize(cfg.Roster.Participants)
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%w (pass names, --roster, or set roster.participants)", err)
		}
		return r, nil
	}
}

// openLogger returns the session logger. Logging failures never stop a
// session; they fall back to a no-op logger.
func openLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}
	logger, err := logging.New(logging.Options{
		Dir:      cfg.Logging.ResolveDir(),
		Level:    cfg.Logging.Level,
		Rotation: cfg.Logging.Rotation(),
	})
	if err != nil {
		return logging.NopLogger()
	}
	return logger
}

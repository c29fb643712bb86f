package session

import (
	"time"

	"github.com/Iron-Ham/groupspin/internal/config"
	"github.com/Iron-Ham/groupspin/internal/event"
	"github.com/Iron-Ham/groupspin/internal/logging"
	"github.com/Iron-Ham/groupspin/internal/placement"
	"github.com/Iron-Ham/groupspin/internal/roulette"
	"github.com/Iron-Ham/groupspin/internal/timer"
)

// DefaultAutoGap is the pause between sequential auto spins.
const DefaultAutoGap = 300 * time.Millisecond

// DefaultAutoStop is used for auto spins when none is configured.
const DefaultAutoStop = 2 * time.Second

// Settings are the construction-time inputs of a Controller.
type Settings struct {
	// Roster is the ordered, non-empty list of unique participants.
	Roster []string
	// NumGroups is the number of groups, at least 1.
	NumGroups int
	// GroupNames are optional display names carried on assignment events.
	GroupNames []string
	// Manual tunes spins started by Pick. A zero AutoStop waits for RequestStop.
	Manual roulette.Options
	// Auto tunes spins started by the auto-assign loop. AutoStop must be
	// positive; zero is replaced with DefaultAutoStop.
	Auto roulette.Options
	// AutoGap is the pause after each auto landing before the next spin.
	AutoGap time.Duration
}

// DefaultSettings returns settings for roster split into numGroups groups
// with the standard animation tunables.
func DefaultSettings(roster []string, numGroups int) Settings {
	return Settings{
		Roster:    roster,
		NumGroups: numGroups,
		Manual:    roulette.DefaultOptions(),
		Auto:      roulette.DefaultOptions().WithAutoStop(DefaultAutoStop),
		AutoGap:   DefaultAutoGap,
	}
}

// SettingsFromConfig builds Settings from the loaded configuration. The
// roster is passed separately because it may come from a file.
func SettingsFromConfig(cfg *config.Config, roster []string) Settings {
	base := roulette.Options{
		Interval:    cfg.Animation.Interval(),
		DecelSteps:  cfg.Animation.DecelSteps,
		DecelFactor: cfg.Animation.DecelFactor,
		MaxInterval: cfg.Animation.MaxInterval(),
	}
	return Settings{
		Roster:     roster,
		NumGroups:  cfg.Groups.Count,
		GroupNames: cfg.Groups.DisplayNames(),
		Manual:     base.WithAutoStop(cfg.Animation.ManualAutoStop()),
		Auto:       base.WithAutoStop(cfg.Animation.AutoStop()),
		AutoGap:    cfg.Auto.Gap(),
	}
}

// ChooserFromConfig returns the placement Chooser selected by the
// placement settings.
func ChooserFromConfig(p config.PlacementConfig) placement.Chooser {
	if p.TieBreak == config.TieBreakLowest {
		return placement.Lowest{}
	}
	return placement.NewPickerFromString(p.Seed)
}

// Deps are the collaborators a Controller is wired to.
type Deps struct {
	// Scheduler drives animation ticks and auto gaps. Nil runs headless:
	// every spin completes immediately.
	Scheduler timer.Scheduler
	// Chooser picks target groups. Nil means a randomly seeded Picker.
	Chooser placement.Chooser
	// Bus receives outbound events. Nil creates a private bus.
	Bus *event.Bus
	// Logger receives session logs. Nil discards them.
	Logger *logging.Logger
}

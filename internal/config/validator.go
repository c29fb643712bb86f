package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Iron-Ham/groupspin/internal/roster"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "animation.interval_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Upper bounds that keep the UI usable.
const (
	maxGroups        = 26
	maxLogSizeMB     = 1000
	maxIntervalLimit = 10000
)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidTieBreaks returns the list of valid placement tie-break policies
func ValidTieBreaks() []string {
	return []string{TieBreakRandom, TieBreakLowest}
}

// ValidThemes returns the list of valid TUI themes
func ValidThemes() []string {
	return []string{ThemeDefault, ThemeHighContrast}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, c.validateRoster()...)
	errors = append(errors, c.validateGroups()...)
	errors = append(errors, c.validateAnimation()...)
	errors = append(errors, c.validateAuto()...)
	errors = append(errors, c.validatePlacement()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)
	return errors
}

// validateRoster checks inline participants. An empty inline roster is
// allowed here; commands that need one report it when they start.
func (c *Config) validateRoster() []ValidationError {
	if len(c.Roster.Participants) == 0 {
		return nil
	}
	if err := roster.Normalize(c.Roster.Participants).Validate(); err != nil {
		return []ValidationError{{
			Field:   "roster.participants",
			Value:   c.Roster.Participants,
			Message: err.Error(),
		}}
	}
	return nil
}

func (c *Config) validateGroups() []ValidationError {
	var errors []ValidationError

	if c.Groups.Count < 1 || c.Groups.Count > maxGroups {
		errors = append(errors, ValidationError{
			Field:   "groups.count",
			Value:   c.Groups.Count,
			Message: fmt.Sprintf("must be between 1 and %d", maxGroups),
		})
	}
	if len(c.Groups.Names) > c.Groups.Count && c.Groups.Count > 0 {
		errors = append(errors, ValidationError{
			Field:   "groups.names",
			Value:   len(c.Groups.Names),
			Message: fmt.Sprintf("has more names than groups.count (%d)", c.Groups.Count),
		})
	}

	seen := make(map[string]bool)
	for i, name := range c.Groups.Names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if seen[name] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("groups.names[%d]", i),
				Value:   name,
				Message: "duplicate group name",
			})
		}
		seen[name] = true
	}

	return errors
}

func (c *Config) validateAnimation() []ValidationError {
	var errors []ValidationError
	a := c.Animation

	if a.IntervalMs <= 0 || a.IntervalMs > maxIntervalLimit {
		errors = append(errors, ValidationError{
			Field:   "animation.interval_ms",
			Value:   a.IntervalMs,
			Message: fmt.Sprintf("must be between 1 and %d", maxIntervalLimit),
		})
	}
	if a.DecelSteps < 0 {
		errors = append(errors, ValidationError{
			Field:   "animation.decel_steps",
			Value:   a.DecelSteps,
			Message: "must be non-negative",
		})
	}
	if a.DecelFactor < 1 {
		errors = append(errors, ValidationError{
			Field:   "animation.decel_factor",
			Value:   a.DecelFactor,
			Message: "must be at least 1",
		})
	}
	if a.MaxIntervalMs < a.IntervalMs || a.MaxIntervalMs > maxIntervalLimit {
		errors = append(errors, ValidationError{
			Field:   "animation.max_interval_ms",
			Value:   a.MaxIntervalMs,
			Message: fmt.Sprintf("must be between animation.interval_ms and %d", maxIntervalLimit),
		})
	}
	if a.AutoStopMs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "animation.auto_stop_ms",
			Value:   a.AutoStopMs,
			Message: "must be positive (auto spins need to stop themselves)",
		})
	}
	if a.ManualAutoStopMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "animation.manual_auto_stop_ms",
			Value:   a.ManualAutoStopMs,
			Message: "must be non-negative (0 waits for an explicit stop)",
		})
	}

	return errors
}

func (c *Config) validateAuto() []ValidationError {
	if c.Auto.GapMs < 0 {
		return []ValidationError{{
			Field:   "auto.gap_ms",
			Value:   c.Auto.GapMs,
			Message: "must be non-negative",
		}}
	}
	return nil
}

func (c *Config) validatePlacement() []ValidationError {
	if c.Placement.TieBreak != "" && !slices.Contains(ValidTieBreaks(), c.Placement.TieBreak) {
		return []ValidationError{{
			Field:   "placement.tie_break",
			Value:   c.Placement.TieBreak,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidTieBreaks(), ", ")),
		}}
	}
	return nil
}

func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.Theme != "" && !slices.Contains(ValidThemes(), c.TUI.Theme) {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidThemes(), ", ")),
		})
	}
	if c.TUI.BlinkCount < 0 {
		errors = append(errors, ValidationError{
			Field:   "tui.blink_count",
			Value:   c.TUI.BlinkCount,
			Message: "must be non-negative",
		})
	}
	if c.TUI.BlinkCount > 0 && c.TUI.BlinkIntervalMs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "tui.blink_interval_ms",
			Value:   c.TUI.BlinkIntervalMs,
			Message: "must be positive when tui.blink_count is set",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

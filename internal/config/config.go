package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/groupspin/internal/logging"
)

// Config represents the complete groupspin configuration
type Config struct {
	Roster    RosterConfig    `mapstructure:"roster" yaml:"roster"`
	Groups    GroupsConfig    `mapstructure:"groups" yaml:"groups"`
	Animation AnimationConfig `mapstructure:"animation" yaml:"animation"`
	Auto      AutoConfig      `mapstructure:"auto" yaml:"auto"`
	Placement PlacementConfig `mapstructure:"placement" yaml:"placement"`
	TUI       TUIConfig       `mapstructure:"tui" yaml:"tui"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// RosterConfig names the participants
type RosterConfig struct {
	// Participants is the inline roster, in display order.
	Participants []string `mapstructure:"participants" yaml:"participants"`
	// File points at a roster file; when set it replaces Participants.
	File string `mapstructure:"file" yaml:"file"`
}

// GroupsConfig controls the groups participants are placed into
type GroupsConfig struct {
	// Count is the number of groups (default: 4)
	Count int `mapstructure:"count" yaml:"count"`
	// Names are optional display names; missing entries fall back to "Group N".
	Names []string `mapstructure:"names" yaml:"names"`
}

// AnimationConfig holds the roulette tunables
type AnimationConfig struct {
	IntervalMs    int     `mapstructure:"interval_ms" yaml:"interval_ms"`
	DecelSteps    int     `mapstructure:"decel_steps" yaml:"decel_steps"`
	DecelFactor   float64 `mapstructure:"decel_factor" yaml:"decel_factor"`
	MaxIntervalMs int     `mapstructure:"max_interval_ms" yaml:"max_interval_ms"`
	// AutoStopMs is how long each auto-assign spin runs before stopping itself.
	AutoStopMs int `mapstructure:"auto_stop_ms" yaml:"auto_stop_ms"`
	// ManualAutoStopMs does the same for manual picks; 0 waits for an explicit stop.
	ManualAutoStopMs int `mapstructure:"manual_auto_stop_ms" yaml:"manual_auto_stop_ms"`
}

// AutoConfig controls sequential auto-assignment
type AutoConfig struct {
	// GapMs is the pause between one landing and the next auto spin.
	GapMs int `mapstructure:"gap_ms" yaml:"gap_ms"`
}

// PlacementConfig controls the placement rule's randomness
type PlacementConfig struct {
	// Seed makes tie-breaks reproducible. Empty means a fresh random seed.
	Seed string `mapstructure:"seed" yaml:"seed"`
	// TieBreak is "random" (default) or "lowest".
	TieBreak string `mapstructure:"tie_break" yaml:"tie_break"`
}

// TUIConfig controls the terminal UI
type TUIConfig struct {
	// Theme is "default" or "high_contrast"
	Theme string `mapstructure:"theme" yaml:"theme"`
	// BlinkCount is how many times a group panel flashes after an assignment (0 disables)
	BlinkCount      int `mapstructure:"blink_count" yaml:"blink_count"`
	BlinkIntervalMs int `mapstructure:"blink_interval_ms" yaml:"blink_interval_ms"`
	// Emoji maps participant names to a symbol shown in their place
	Emoji    map[string]string `mapstructure:"emoji" yaml:"emoji"`
	ShowHelp bool              `mapstructure:"show_help" yaml:"show_help"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is one of: debug, info, warn, error
	Level string `mapstructure:"level" yaml:"level"`
	// Dir holds groupspin.log; empty means <config dir>/logs
	Dir        string `mapstructure:"dir" yaml:"dir"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// Tie-break policies
const (
	TieBreakRandom = "random"
	TieBreakLowest = "lowest"
)

// Themes
const (
	ThemeDefault      = "default"
	ThemeHighContrast = "high_contrast"
)

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Roster: RosterConfig{
			Participants: []string{},
		},
		Groups: GroupsConfig{
			Count: 4,
			Names: []string{},
		},
		Animation: AnimationConfig{
			IntervalMs:       150,
			DecelSteps:       6,
			DecelFactor:      1.15,
			MaxIntervalMs:    2200,
			AutoStopMs:       2000,
			ManualAutoStopMs: 0,
		},
		Auto: AutoConfig{
			GapMs: 300,
		},
		Placement: PlacementConfig{
			TieBreak: TieBreakRandom,
		},
		TUI: TUIConfig{
			Theme:           ThemeDefault,
			BlinkCount:      3,
			BlinkIntervalMs: 120,
			Emoji:           map[string]string{},
			ShowHelp:        true,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
	}
}

// Interval returns the initial tick period
func (c *AnimationConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// MaxInterval returns the tick period ceiling
func (c *AnimationConfig) MaxInterval() time.Duration {
	return time.Duration(c.MaxIntervalMs) * time.Millisecond
}

// AutoStop returns the auto-assign spin duration
func (c *AnimationConfig) AutoStop() time.Duration {
	return time.Duration(c.AutoStopMs) * time.Millisecond
}

// ManualAutoStop returns the manual pick spin duration (0 means wait for stop)
func (c *AnimationConfig) ManualAutoStop() time.Duration {
	return time.Duration(c.ManualAutoStopMs) * time.Millisecond
}

// Gap returns the pause between auto spins
func (c *AutoConfig) Gap() time.Duration {
	return time.Duration(c.GapMs) * time.Millisecond
}

// BlinkInterval returns the confirmation blink period
func (c *TUIConfig) BlinkInterval() time.Duration {
	return time.Duration(c.BlinkIntervalMs) * time.Millisecond
}

// GroupName returns the display name of group i
func (c *GroupsConfig) GroupName(i int) string {
	if i >= 0 && i < len(c.Names) && c.Names[i] != "" {
		return c.Names[i]
	}
	return fmt.Sprintf("Group %d", i+1)
}

// DisplayNames returns a display name for every group
func (c *GroupsConfig) DisplayNames() []string {
	names := make([]string, c.Count)
	for i := range names {
		names[i] = c.GroupName(i)
	}
	return names
}

// ResolveDir returns the log directory, defaulting to <config dir>/logs
func (c *LoggingConfig) ResolveDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return filepath.Join(ConfigDir(), "logs")
}

// Rotation converts the logging settings into a rotation config
func (c *LoggingConfig) Rotation() logging.RotationConfig {
	return logging.RotationConfig{
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		Compress:   c.Compress,
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("roster.participants", defaults.Roster.Participants)
	viper.SetDefault("roster.file", defaults.Roster.File)

	viper.SetDefault("groups.count", defaults.Groups.Count)
	viper.SetDefault("groups.names", defaults.Groups.Names)

	viper.SetDefault("animation.interval_ms", defaults.Animation.IntervalMs)
	viper.SetDefault("animation.decel_steps", defaults.Animation.DecelSteps)
	viper.SetDefault("animation.decel_factor", defaults.Animation.DecelFactor)
	viper.SetDefault("animation.max_interval_ms", defaults.Animation.MaxIntervalMs)
	viper.SetDefault("animation.auto_stop_ms", defaults.Animation.AutoStopMs)
	viper.SetDefault("animation.manual_auto_stop_ms", defaults.Animation.ManualAutoStopMs)

	viper.SetDefault("auto.gap_ms", defaults.Auto.GapMs)

	viper.SetDefault("placement.seed", defaults.Placement.Seed)
	viper.SetDefault("placement.tie_break", defaults.Placement.TieBreak)

	viper.SetDefault("tui.theme", defaults.TUI.Theme)
	viper.SetDefault("tui.blink_count", defaults.TUI.BlinkCount)
	viper.SetDefault("tui.blink_interval_ms", defaults.TUI.BlinkIntervalMs)
	viper.SetDefault("tui.emoji", defaults.TUI.Emoji)
	viper.SetDefault("tui.show_help", defaults.TUI.ShowHelp)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults when the
// loaded values are unusable
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "groupspin")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".groupspin"
	}
	return filepath.Join(home, ".config", "groupspin")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

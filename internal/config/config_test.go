package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Groups.Count != 4 {
		t.Errorf("Groups.Count = %d, want 4", cfg.Groups.Count)
	}
	if cfg.Animation.IntervalMs != 150 {
		t.Errorf("Animation.IntervalMs = %d, want 150", cfg.Animation.IntervalMs)
	}
	if cfg.Animation.DecelSteps != 6 {
		t.Errorf("Animation.DecelSteps = %d, want 6", cfg.Animation.DecelSteps)
	}
	if cfg.Animation.DecelFactor != 1.15 {
		t.Errorf("Animation.DecelFactor = %v, want 1.15", cfg.Animation.DecelFactor)
	}
	if cfg.Animation.MaxIntervalMs != 2200 {
		t.Errorf("Animation.MaxIntervalMs = %d, want 2200", cfg.Animation.MaxIntervalMs)
	}
	if cfg.Animation.AutoStopMs != 2000 {
		t.Errorf("Animation.AutoStopMs = %d, want 2000", cfg.Animation.AutoStopMs)
	}
	if cfg.Animation.ManualAutoStopMs != 0 {
		t.Errorf("Animation.ManualAutoStopMs = %d, want 0", cfg.Animation.ManualAutoStopMs)
	}
	if cfg.Auto.GapMs != 300 {
		t.Errorf("Auto.GapMs = %d, want 300", cfg.Auto.GapMs)
	}
	if cfg.Placement.TieBreak != TieBreakRandom {
		t.Errorf("Placement.TieBreak = %q", cfg.Placement.TieBreak)
	}
	if cfg.TUI.Theme != ThemeDefault || cfg.TUI.BlinkCount != 3 || !cfg.TUI.ShowHelp {
		t.Errorf("unexpected TUI defaults %+v", cfg.TUI)
	}
	if !cfg.Logging.Enabled || cfg.Logging.Level != "info" {
		t.Errorf("unexpected logging defaults %+v", cfg.Logging)
	}

	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("default config should validate, got %v", errs)
	}
}

func TestDurations(t *testing.T) {
	cfg := Default()
	cfg.Animation.ManualAutoStopMs = 500

	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"interval", cfg.Animation.Interval(), 150 * time.Millisecond},
		{"max interval", cfg.Animation.MaxInterval(), 2200 * time.Millisecond},
		{"auto stop", cfg.Animation.AutoStop(), 2 * time.Second},
		{"manual auto stop", cfg.Animation.ManualAutoStop(), 500 * time.Millisecond},
		{"gap", cfg.Auto.Gap(), 300 * time.Millisecond},
		{"blink", cfg.TUI.BlinkInterval(), 120 * time.Millisecond},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestGroupNames(t *testing.T) {
	g := GroupsConfig{Count: 3, Names: []string{"Red", ""}}

	want := []string{"Red", "Group 2", "Group 3"}
	got := g.DisplayNames()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("DisplayNames() = %v, want %v", got, want)
	}
	if g.GroupName(-1) != "Group 0" {
		t.Errorf("GroupName(-1) = %q", g.GroupName(-1))
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("honors XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
		if got := ConfigDir(); got != filepath.Join("/tmp/xdg", "groupspin") {
			t.Errorf("ConfigDir() = %q", got)
		}
		if got := ConfigFile(); got != filepath.Join("/tmp/xdg", "groupspin", "config.yaml") {
			t.Errorf("ConfigFile() = %q", got)
		}
	})

	t.Run("falls back to home", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}
		if got := ConfigDir(); got != filepath.Join(home, ".config", "groupspin") {
			t.Errorf("ConfigDir() = %q", got)
		}
	})
}

func TestLoggingResolveDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	l := LoggingConfig{}
	if got := l.ResolveDir(); got != filepath.Join("/tmp/xdg", "groupspin", "logs") {
		t.Errorf("ResolveDir() = %q", got)
	}
	l.Dir = "/var/log/gs"
	if got := l.ResolveDir(); got != "/var/log/gs" {
		t.Errorf("ResolveDir() = %q", got)
	}

	l = LoggingConfig{MaxSizeMB: 2, MaxBackups: 4, Compress: true}
	r := l.Rotation()
	if r.MaxSizeMB != 2 || r.MaxBackups != 4 || !r.Compress {
		t.Errorf("Rotation() = %+v", r)
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		SetDefaults()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Groups.Count != 4 || cfg.Animation.DecelSteps != 6 {
			t.Errorf("unexpected config %+v", cfg)
		}
	})

	t.Run("reads yaml file", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		SetDefaults()

		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
roster:
  participants: [Ada, Bo, Cy]
groups:
  count: 2
  names: [Red, Blue]
animation:
  decel_steps: 2
placement:
  seed: classroom
  tie_break: lowest
tui:
  emoji:
    Ada: "🦊"
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(cfg.Roster.Participants) != 3 || cfg.Groups.Count != 2 {
			t.Errorf("roster/groups not loaded: %+v %+v", cfg.Roster, cfg.Groups)
		}
		if cfg.Groups.GroupName(1) != "Blue" {
			t.Errorf("GroupName(1) = %q", cfg.Groups.GroupName(1))
		}
		if cfg.Animation.DecelSteps != 2 || cfg.Animation.IntervalMs != 150 {
			t.Errorf("animation = %+v", cfg.Animation)
		}
		if cfg.Placement.Seed != "classroom" || cfg.Placement.TieBreak != TieBreakLowest {
			t.Errorf("placement = %+v", cfg.Placement)
		}
		if cfg.TUI.Emoji["ada"] != "🦊" && cfg.TUI.Emoji["Ada"] != "🦊" {
			t.Errorf("emoji = %v", cfg.TUI.Emoji)
		}
	})

	t.Run("invalid values fail", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		SetDefaults()
		viper.Set("groups.count", 0)
		viper.Set("logging.level", "loud")

		_, err := Load()
		verrs, ok := err.(ValidationErrors)
		if !ok {
			t.Fatalf("Load() error = %T %v, want ValidationErrors", err, err)
		}
		if len(verrs) != 2 {
			t.Errorf("got %d errors, want 2: %v", len(verrs), verrs)
		}
	})

	t.Run("Get falls back to defaults", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		SetDefaults()
		viper.Set("animation.interval_ms", -5)

		if cfg := Get(); cfg.Animation.IntervalMs != 150 {
			t.Errorf("Get() IntervalMs = %d, want default 150", cfg.Animation.IntervalMs)
		}
	})
}

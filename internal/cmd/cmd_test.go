package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/groupspin/internal/logging"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

// setupTestEnvironment points the config directory at a temp dir, writes
// configYAML there when given, and resets global command state.
func setupTestEnvironment(t *testing.T, configYAML string) string {
	t.Helper()

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	if configYAML != "" {
		dir := filepath.Join(xdg, "groupspin")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configYAML), 0o644))
	}

	resetCommands()
	t.Cleanup(resetCommands)
	return xdg
}

func resetCommands() {
	viper.Reset()
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}
}

const lowestTieBreak = `
placement:
  tie_break: lowest
`

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "groupspin" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "groupspin")
	}

	cmdMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}
	for _, name := range []string{"start", "draw", "config", "logs"} {
		if !cmdMap[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestDraw_YAML(t *testing.T) {
	setupTestEnvironment(t, lowestTieBreak)

	out, err := executeCommand(rootCmd, "draw", "A", "B", "C", "D", "--groups", "2", "--format", "yaml")
	require.NoError(t, err)

	var res drawResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.NotEmpty(t, res.Session)
	assert.Empty(t, res.Waiting)
	assert.Equal(t, []drawGroup{
		{Name: "Group 1", Members: []string{"A", "C"}},
		{Name: "Group 2", Members: []string{"B", "D"}},
	}, res.Groups)
}

func TestDraw_RosterFileAndGroupNames(t *testing.T) {
	setupTestEnvironment(t, lowestTieBreak+`
groups:
  count: 3
  names: [Red, Blue, Green]
`)

	rosterPath := filepath.Join(t.TempDir(), "class.txt")
	require.NoError(t, os.WriteFile(rosterPath, []byte("# class\nAda\nBo\nCy\nDee\nEve\n"), 0o644))

	out, err := executeCommand(rootCmd, "draw", "--roster", rosterPath, "-f", "yaml")
	require.NoError(t, err)

	var res drawResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	require.Len(t, res.Groups, 3)
	assert.Equal(t, drawGroup{Name: "Red", Members: []string{"Ada", "Dee"}}, res.Groups[0])
	assert.Equal(t, drawGroup{Name: "Blue", Members: []string{"Bo", "Eve"}}, res.Groups[1])
	assert.Equal(t, drawGroup{Name: "Green", Members: []string{"Cy"}}, res.Groups[2])
}

func TestDraw_SeedIsReproducible(t *testing.T) {
	run := func() string {
		setupTestEnvironment(t, "")
		out, err := executeCommand(rootCmd, "draw", "A", "B", "C", "D", "E", "F", "-n", "3", "--seed", "monday", "-f", "yaml")
		require.NoError(t, err)

		var res drawResult
		require.NoError(t, yaml.Unmarshal([]byte(out), &res))
		b, err := json.Marshal(res.Groups)
		require.NoError(t, err)
		return string(b)
	}

	assert.Equal(t, run(), run())
}

func TestDraw_Text(t *testing.T) {
	setupTestEnvironment(t, lowestTieBreak)

	out, err := executeCommand(rootCmd, "draw", "Ada", "Bo", "-n", "2")
	require.NoError(t, err)
	for _, want := range []string{"Group 1", "Group 2", "Ada", "Bo"} {
		assert.Contains(t, out, want)
	}
}

func TestDraw_Errors(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		args    []string
		wantErr string
	}{
		{
			name:    "empty roster",
			args:    []string{"draw"},
			wantErr: "roster is empty",
		},
		{
			name:    "duplicate names",
			args:    []string{"draw", "Ada", "Ada"},
			wantErr: "appears twice",
		},
		{
			name:    "zero groups",
			args:    []string{"draw", "Ada", "--groups", "0"},
			wantErr: "groups.count",
		},
		{
			name:    "bad format",
			args:    []string{"draw", "Ada", "--format", "xml"},
			wantErr: "unsupported format",
		},
		{
			name:    "invalid config file",
			config:  "animation:\n  interval_ms: 0\n",
			args:    []string{"draw", "Ada"},
			wantErr: "animation.interval_ms",
		},
		{
			name:    "invalid config file names the source",
			config:  "animation:\n  interval_ms: 0\n",
			args:    []string{"draw", "Ada"},
			wantErr: "invalid configuration: ",
		},
		{
			name:    "missing roster file",
			args:    []string{"draw", "--roster", "/nonexistent/roster.yaml"},
			wantErr: "roster file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestEnvironment(t, tt.config)
			_, err := executeCommand(rootCmd, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDraw_Animated(t *testing.T) {
	setupTestEnvironment(t, lowestTieBreak+`
animation:
  interval_ms: 1
  decel_steps: 1
  max_interval_ms: 5
  auto_stop_ms: 3
auto:
  gap_ms: 1
`)

	out, err := executeCommand(rootCmd, "draw", "A", "B", "C", "-n", "2", "--animate")
	require.NoError(t, err)

	assert.Contains(t, out, "A → Group 1 (2 left)")
	assert.Contains(t, out, "B → Group 2 (1 left)")
	assert.Contains(t, out, "C → Group 1 (0 left)")
	assert.Contains(t, out, "↻")
	assert.Less(t, strings.Index(out, "A → "), strings.Index(out, "C → "))
}

func TestConfigCommands(t *testing.T) {
	t.Run("show", func(t *testing.T) {
		setupTestEnvironment(t, "groups:\n  count: 5\n")
		out, err := executeCommand(rootCmd, "config", "show")
		require.NoError(t, err)
		assert.Contains(t, out, "# Config file: ")
		assert.Contains(t, out, "count: 5")
		assert.Contains(t, out, "decel_steps: 6")
	})

	t.Run("validate ok", func(t *testing.T) {
		setupTestEnvironment(t, "")
		out, err := executeCommand(rootCmd, "config", "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration is valid")
	})

	t.Run("validate fails", func(t *testing.T) {
		setupTestEnvironment(t, "placement:\n  tie_break: sideways\n")
		_, err := executeCommand(rootCmd, "config", "validate")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "placement.tie_break")
	})

	t.Run("path", func(t *testing.T) {
		xdg := setupTestEnvironment(t, "")
		out, err := executeCommand(rootCmd, "config", "path")
		require.NoError(t, err)
		assert.Contains(t, out, filepath.Join(xdg, "groupspin", "config.yaml"))
		assert.Contains(t, out, "(not created)")
	})

	t.Run("init", func(t *testing.T) {
		xdg := setupTestEnvironment(t, "")
		_, err := executeCommand(rootCmd, "config", "init")
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(xdg, "groupspin", "config.yaml"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "interval_ms: 150")

		_, err = executeCommand(rootCmd, "config", "init")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})
}

func TestLogsCommand(t *testing.T) {
	xdg := setupTestEnvironment(t, lowestTieBreak)

	_, err := executeCommand(rootCmd, "draw", "Ada", "Bo", "-n", "2")
	require.NoError(t, err)

	resetCommands()
	out, err := executeCommand(rootCmd, "logs", "--participant", "Bo", "--format", "json", "-n", "0")
	require.NoError(t, err)

	var entries []logging.LogEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Equal(t, "Bo", e.Participant)
	}
	assert.Equal(t, "participant assigned", entries[len(entries)-1].Message)

	resetCommands()
	out, err = executeCommand(rootCmd, "logs", "--grep", "^session completed$")
	require.NoError(t, err)
	assert.Contains(t, out, "session completed")
	assert.NotContains(t, out, "participant assigned")

	resetCommands()
	exportPath := filepath.Join(t.TempDir(), "spins.csv")
	out, err = executeCommand(rootCmd, "logs", "--export", exportPath, "--format", "csv", "-n", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported")
	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "timestamp,level,message"))

	resetCommands()
	out, err = executeCommand(rootCmd, "logs", "--dir", filepath.Join(xdg, "missing"))
	require.NoError(t, err)
	assert.Contains(t, out, "No logs found")

	resetCommands()
	_, err = executeCommand(rootCmd, "logs", "--level", "loud")
	require.Error(t, err)
}

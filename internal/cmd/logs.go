package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/groupspin/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View session logs",
	Long: `View, filter, and export groupspin logs.

Entries are read from the active log file and its rotated backups,
oldest first. Filters combine; by default the last 50 entries are shown.

Examples:
  # Show warnings and errors
  groupspin logs --level warn

  # Everything that happened to one participant in one session
  groupspin logs -s 0b6c... -p Ada -n 0

  # Show logs from the last hour
  groupspin logs --since 1h

  # Export the filtered entries as CSV
  groupspin logs --level info --export spins.csv --format csv`,
	RunE: runLogs,
}

var (
	logsSessionID   string
	logsParticipant string
	logsComponent   string
	logsTail        int
	logsLevel       string
	logsSince       string
	logsGrep        string
	logsDir         string
	logsExport      string
	logsFormat      string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVarP(&logsSessionID, "session", "s", "", "Only entries from this session ID")
	logsCmd.Flags().StringVarP(&logsParticipant, "participant", "p", "", "Only entries about this participant")
	logsCmd.Flags().StringVar(&logsComponent, "component", "", "Only entries from this component (session, roulette, tui)")
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show logs since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter messages matching pattern (regex)")
	logsCmd.Flags().StringVar(&logsDir, "dir", "", "Log directory (default: logging.dir)")
	logsCmd.Flags().StringVar(&logsExport, "export", "", "Write the matching entries to this file instead of the terminal")
	logsCmd.Flags().StringVar(&logsFormat, "format", logging.FormatText,
		"Output format: "+strings.Join(logging.ExportFormats(), ", "))
}

func runLogs(cmd *cobra.Command, args []string) error {
	if logsLevel != "" && !logging.IsValidLevel(logsLevel) {
		return fmt.Errorf("invalid level: %s (valid: %s)", logsLevel, strings.Join(logging.ValidLevels(), ", "))
	}

	filter := logging.LogFilter{
		Level:       logsLevel,
		SessionID:   logsSessionID,
		Participant: logsParticipant,
		Component:   logsComponent,
	}
	if logsSince != "" {
		d, err := time.ParseDuration(logsSince)
		if err != nil {
			return fmt.Errorf("invalid --since duration: %w", err)
		}
		filter.StartTime = time.Now().Add(-d)
	}

	var grep *regexp.Regexp
	if logsGrep != "" {
		re, err := regexp.Compile(logsGrep)
		if err != nil {
			return fmt.Errorf("invalid --grep pattern: %w", err)
		}
		grep = re
	}

	dir := logsDir
	if dir == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir = cfg.Logging.ResolveDir()
	}

	entries, err := logging.AggregateLogs(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(cmd.OutOrStdout(), "No logs found in %s\n", dir)
			return nil
		}
		return err
	}

	entries = logging.FilterLogs(entries, filter)
	if grep != nil {
		entries = grepEntries(entries, grep)
	}
	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}

	if logsExport != "" {
		f, err := os.Create(logsExport)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		if err := logging.ExportLogEntries(entries, f, logsFormat); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(entries), logsExport)
		return nil
	}

	if strings.EqualFold(logsFormat, logging.FormatText) {
		return displayLogs(cmd.OutOrStdout(), entries)
	}
	return logging.ExportLogEntries(entries, cmd.OutOrStdout(), logsFormat)
}

func grepEntries(entries []logging.LogEntry, re *regexp.Regexp) []logging.LogEntry {
	var out []logging.LogEntry
	for _, e := range entries {
		if re.MatchString(e.Message) {
			out = append(out, e)
		}
	}
	return out
}

var (
	logTimeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	logContextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	logLevelStyles  = map[string]lipgloss.Style{
		logging.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		logging.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		logging.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		logging.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

// displayLogs writes entries as colored lines for a terminal.
func displayLogs(w io.Writer, entries []logging.LogEntry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, formatLogEntry(e)); err != nil {
			return err
		}
	}
	return nil
}

func formatLogEntry(e logging.LogEntry) string {
	var sb strings.Builder

	sb.WriteString(logTimeStyle.Render(e.Timestamp.Format("15:04:05.000")))
	sb.WriteString(" ")

	level := fmt.Sprintf("%-5s", e.Level)
	if st, ok := logLevelStyles[e.Level]; ok {
		level = st.Render(level)
	}
	sb.WriteString(level)
	sb.WriteString(" ")
	sb.WriteString(e.Message)

	var ctx []string
	if e.Participant != "" {
		ctx = append(ctx, "participant="+e.Participant)
	}
	if e.RunID != 0 {
		ctx = append(ctx, fmt.Sprintf("run=%d", e.RunID))
	}
	if e.Component != "" {
		ctx = append(ctx, "component="+e.Component)
	}
	if e.SessionID != "" {
		ctx = append(ctx, "session="+shortID(e.SessionID))
	}
	if len(ctx) > 0 {
		sb.WriteString(" ")
		sb.WriteString(logContextStyle.Render("[" + strings.Join(ctx, " ") + "]"))
	}
	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

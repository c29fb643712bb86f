package logging

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LogEntry is one parsed log line.
type LogEntry struct {
	Timestamp   time.Time      `json:"time" yaml:"time"`
	Level       string         `json:"level" yaml:"level"`
	Message     string         `json:"msg" yaml:"msg"`
	SessionID   string         `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	RunID       uint64         `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Participant string         `json:"participant,omitempty" yaml:"participant,omitempty"`
	Component   string         `json:"component,omitempty" yaml:"component,omitempty"`
	Attrs       map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// LogFilter selects entries. Zero-valued fields do not filter; set fields
// combine with AND.
type LogFilter struct {
	// Level keeps entries at or above this level.
	Level           string
	StartTime       time.Time
	EndTime         time.Time
	SessionID       string
	RunID           uint64
	Participant     string
	Component       string
	MessageContains string
}

// Export formats understood by ExportLogEntries.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatCSV  = "csv"
	FormatYAML = "yaml"
)

// ExportFormats lists the supported export formats.
func ExportFormats() []string {
	return []string{FormatJSON, FormatText, FormatCSV, FormatYAML}
}

var levelOrder = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// AggregateLogs reads groupspin.log and its rotated backups (plain or
// gzipped) from dir and returns every parseable entry sorted by time.
// Malformed lines are skipped.
func AggregateLogs(dir string) ([]LogEntry, error) {
	active := filepath.Join(dir, LogFileName)
	files := []string{active}

	backups, err := filepath.Glob(active + ".*")
	if err != nil {
		return nil, fmt.Errorf("failed to list log backups: %w", err)
	}
	files = append(files, backups...)

	var entries []LogEntry
	found := false
	for _, path := range files {
		got, err := readLogFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		found = true
		entries = append(entries, got...)
	}
	if !found {
		return nil, fmt.Errorf("no log file found in %s: %w", dir, os.ErrNotExist)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

func readLogFile(path string) ([]LogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open compressed log %s: %w", path, err)
		}
		defer func() { _ = zr.Close() }()
		r = zr
	}
	return ParseLogEntries(r)
}

// ParseLogEntries parses JSON lines from r, skipping blank and malformed
// lines.
func ParseLogEntries(r io.Reader) ([]LogEntry, error) {
	const maxLine = 1024 * 1024
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	var entries []LogEntry
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry, err := parseLogEntry(line)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log: %w", err)
	}
	return entries, nil
}

func parseLogEntry(line string) (LogEntry, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return LogEntry{}, fmt.Errorf("invalid JSON: %w", err)
	}

	entry := LogEntry{}
	if s, ok := raw["time"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			entry.Timestamp = t
		}
	}
	entry.Level, _ = raw["level"].(string)
	entry.Message, _ = raw["msg"].(string)
	entry.SessionID, _ = raw[KeySession].(string)
	entry.Participant, _ = raw[KeyParticipant].(string)
	entry.Component, _ = raw[KeyComponent].(string)
	switch v := raw[KeyRun].(type) {
	case float64:
		entry.RunID = uint64(v)
	case string:
		entry.RunID, _ = strconv.ParseUint(v, 10, 64)
	}

	for k, v := range raw {
		switch k {
		case "time", "level", "msg", KeySession, KeyRun, KeyParticipant, KeyComponent:
			continue
		}
		if entry.Attrs == nil {
			entry.Attrs = make(map[string]any)
		}
		entry.Attrs[k] = v
	}
	return entry, nil
}

// FilterLogs returns the entries matching filter.
func FilterLogs(entries []LogEntry, filter LogFilter) []LogEntry {
	if filter == (LogFilter{}) {
		return entries
	}
	var out []LogEntry
	for _, e := range entries {
		if filter.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func (f LogFilter) matches(e LogEntry) bool {
	if f.Level != "" {
		want, okWant := levelOrder[strings.ToUpper(f.Level)]
		got, okGot := levelOrder[e.Level]
		if okWant && okGot && got < want {
			return false
		}
	}
	if !f.StartTime.IsZero() && e.Timestamp.Before(f.StartTime) {
		return false
	}
	if !f.EndTime.IsZero() && e.Timestamp.After(f.EndTime) {
		return false
	}
	if f.SessionID != "" && e.SessionID != f.SessionID {
		return false
	}
	if f.RunID != 0 && e.RunID != f.RunID {
		return false
	}
	if f.Participant != "" && e.Participant != f.Participant {
		return false
	}
	if f.Component != "" && e.Component != f.Component {
		return false
	}
	if f.MessageContains != "" && !strings.Contains(e.Message, f.MessageContains) {
		return false
	}
	return true
}

// ExportLogs aggregates dir and writes every entry to outputPath.
func ExportLogs(dir, outputPath, format string) error {
	entries, err := AggregateLogs(dir)
	if err != nil {
		return fmt.Errorf("failed to aggregate logs: %w", err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := ExportLogEntries(entries, f, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ExportLogEntries writes entries to w in one of ExportFormats.
func ExportLogEntries(entries []LogEntry, w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case FormatText:
		return exportText(w, entries)
	case FormatCSV:
		return exportCSV(w, entries)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported export format: %s (supported: %s)",
			format, strings.Join(ExportFormats(), ", "))
	}
}

// FormatEntry renders e as a single human-readable line:
// [TIMESTAMP] LEVEL - MESSAGE (context) {attrs}
func FormatEntry(e LogEntry) string {
	parts := []string{
		"[" + e.Timestamp.Format("2006-01-02 15:04:05.000") + "]",
		e.Level,
		"-",
		e.Message,
	}

	var ctx []string
	if e.SessionID != "" {
		ctx = append(ctx, "session="+e.SessionID)
	}
	if e.RunID != 0 {
		ctx = append(ctx, "run="+strconv.FormatUint(e.RunID, 10))
	}
	if e.Participant != "" {
		ctx = append(ctx, "participant="+e.Participant)
	}
	if e.Component != "" {
		ctx = append(ctx, "component="+e.Component)
	}
	if len(ctx) > 0 {
		parts = append(parts, "("+strings.Join(ctx, ", ")+")")
	}
	if len(e.Attrs) > 0 {
		if b, err := json.Marshal(e.Attrs); err == nil {
			parts = append(parts, string(b))
		}
	}
	return strings.Join(parts, " ")
}

func exportText(w io.Writer, entries []LogEntry) error {
	for _, e := range entries {
		if _, err := io.WriteString(w, FormatEntry(e)+"\n"); err != nil {
			return fmt.Errorf("failed to write text entry: %w", err)
		}
	}
	return nil
}

func exportCSV(w io.Writer, entries []LogEntry) error {
	cw := csv.NewWriter(w)
	header := []string{"timestamp", "level", "message", "session_id", "run_id", "participant", "component", "attrs"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, e := range entries {
		attrs := ""
		if len(e.Attrs) > 0 {
			if b, err := json.Marshal(e.Attrs); err == nil {
				attrs = string(b)
			}
		}
		run := ""
		if e.RunID != 0 {
			run = strconv.FormatUint(e.RunID, 10)
		}
		record := []string{
			e.Timestamp.Format(time.RFC3339Nano),
			e.Level,
			e.Message,
			e.SessionID,
			run,
			e.Participant,
			e.Component,
			attrs,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

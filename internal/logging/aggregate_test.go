package logging

import (
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

const sampleLog = `{"time":"2026-01-02T10:00:01Z","level":"INFO","msg":"session started","session_id":"s1","component":"session"}
{"time":"2026-01-02T10:00:03Z","level":"DEBUG","msg":"roulette started","session_id":"s1","run_id":1,"participant":"Ada","component":"roulette"}
not json at all

{"time":"2026-01-02T10:00:05Z","level":"INFO","msg":"participant assigned","session_id":"s1","run_id":1,"participant":"Ada","group":2}
{"time":"2026-01-02T10:00:09Z","level":"ERROR","msg":"duplicate assignment","session_id":"s1","participant":"Bo"}
`

func TestParseLogEntries(t *testing.T) {
	entries, err := ParseLogEntries(strings.NewReader(sampleLog))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}

	e := entries[2]
	if e.Message != "participant assigned" || e.RunID != 1 || e.Participant != "Ada" || e.SessionID != "s1" {
		t.Errorf("unexpected entry %+v", e)
	}
	if e.Attrs["group"] != float64(2) {
		t.Errorf("Attrs[group] = %v", e.Attrs["group"])
	}
	if _, ok := e.Attrs[KeyParticipant]; ok {
		t.Error("standard fields must not be duplicated into Attrs")
	}
	if entries[0].Attrs != nil {
		t.Errorf("entry without extra fields has Attrs %v", entries[0].Attrs)
	}
}

func TestAggregateLogs_ReadsBackups(t *testing.T) {
	dir := t.TempDir()
	active := filepath.Join(dir, LogFileName)

	lines := strings.Split(strings.TrimSpace(sampleLog), "\n")
	// newest in the active file, older in plain and gzipped backups
	writeFile(t, active, lines[5]+"\n")
	writeFile(t, BackupPath(active, 1), lines[4]+"\n")

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, _ = zw.Write([]byte(lines[0] + "\n" + lines[1] + "\n"))
	_ = zw.Close()
	writeFile(t, BackupPath(active, 2)+".gz", gz.String())

	entries, err := AggregateLogs(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"session started", "roulette started", "participant assigned", "duplicate assignment"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, msg := range want {
		if entries[i].Message != msg {
			t.Errorf("entry %d = %q, want %q", i, entries[i].Message, msg)
		}
	}
}

func TestAggregateLogs_MissingDir(t *testing.T) {
	_, err := AggregateLogs(filepath.Join(t.TempDir(), "nope"))
	if err == nil || !strings.Contains(err.Error(), "no log file") {
		t.Errorf("err = %v", err)
	}
}

func TestAggregateLogs_FromLogger(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, LevelDebug)
	if err != nil {
		t.Fatal(err)
	}
	logger.WithSession("abc").WithParticipant("Cy").Info("assigned", "group", 1)
	_ = logger.Close()

	entries, err := AggregateLogs(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].SessionID != "abc" || entries[0].Participant != "Cy" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestFilterLogs(t *testing.T) {
	entries, err := ParseLogEntries(strings.NewReader(sampleLog))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		filter LogFilter
		want   int
	}{
		{"empty filter", LogFilter{}, 4},
		{"level info", LogFilter{Level: "info"}, 3},
		{"level error", LogFilter{Level: LevelError}, 1},
		{"participant", LogFilter{Participant: "Ada"}, 2},
		{"run", LogFilter{RunID: 1}, 2},
		{"component", LogFilter{Component: "roulette"}, 1},
		{"message", LogFilter{MessageContains: "assign"}, 2},
		{"time window", LogFilter{
			StartTime: time.Date(2026, 1, 2, 10, 0, 2, 0, time.UTC),
			EndTime:   time.Date(2026, 1, 2, 10, 0, 6, 0, time.UTC),
		}, 2},
		{"combined", LogFilter{Participant: "Ada", Level: LevelInfo}, 1},
		{"no match", LogFilter{SessionID: "other"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilterLogs(entries, tt.filter); len(got) != tt.want {
				t.Errorf("got %d entries, want %d", len(got), tt.want)
			}
		})
	}
}

func TestExportLogEntries(t *testing.T) {
	entries, err := ParseLogEntries(strings.NewReader(sampleLog))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := ExportLogEntries(entries, &buf, "JSON"); err != nil {
			t.Fatal(err)
		}
		var got []LogEntry
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if len(got) != 4 || got[1].RunID != 1 {
			t.Errorf("decoded %+v", got)
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		if err := ExportLogEntries(entries, &buf, FormatText); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		if !strings.Contains(out, "[2026-01-02 10:00:03.000] DEBUG - roulette started (session=s1, run=1, participant=Ada, component=roulette)") {
			t.Errorf("unexpected text output:\n%s", out)
		}
		if !strings.Contains(out, `{"group":2}`) {
			t.Errorf("attrs missing from text output:\n%s", out)
		}
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		if err := ExportLogEntries(entries, &buf, FormatCSV); err != nil {
			t.Fatal(err)
		}
		records, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 5 {
			t.Fatalf("got %d records, want 5", len(records))
		}
		if records[0][4] != "run_id" || records[2][4] != "1" || records[1][4] != "" {
			t.Errorf("run_id column = %q %q %q", records[0][4], records[1][4], records[2][4])
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := ExportLogEntries(entries, &buf, FormatYAML); err != nil {
			t.Fatal(err)
		}
		var got []map[string]any
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if len(got) != 4 || got[3]["participant"] != "Bo" {
			t.Errorf("decoded %v", got)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		err := ExportLogEntries(entries, &bytes.Buffer{}, "xml")
		if err == nil || !strings.Contains(err.Error(), "unsupported export format") {
			t.Errorf("err = %v", err)
		}
	})
}

func TestExportLogs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, LogFileName), sampleLog)
	out := filepath.Join(t.TempDir(), "export.txt")

	if err := ExportLogs(dir, out, FormatText); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "\n"); n != 4 {
		t.Errorf("got %d lines, want 4", n)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

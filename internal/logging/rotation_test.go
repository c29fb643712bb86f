package logging

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const chunk = 600 * 1024

func TestNewRotatingWriter(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", LogFileName)

		rw, err := NewRotatingWriter(path, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewRotatingWriter failed: %v", err)
		}
		defer func() { _ = rw.Close() }()

		if _, err := os.Stat(path); err != nil {
			t.Errorf("log file was not created: %v", err)
		}
		if rw.Path() != path {
			t.Errorf("Path() = %q, want %q", rw.Path(), path)
		}
	})

	t.Run("appends to existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), LogFileName)
		if err := os.WriteFile(path, []byte("existing\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		rw, err := NewRotatingWriter(path, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewRotatingWriter failed: %v", err)
		}
		if rw.Size() != int64(len("existing\n")) {
			t.Errorf("Size() = %d", rw.Size())
		}
		if _, err := rw.Write([]byte("new\n")); err != nil {
			t.Fatal(err)
		}
		_ = rw.Close()

		data, _ := os.ReadFile(path)
		if string(data) != "existing\nnew\n" {
			t.Errorf("content = %q", data)
		}
	})
}

func TestRotatingWriter_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), LogFileName)
	rw, err := NewRotatingWriter(path, RotationConfig{MaxSizeMB: 1, MaxBackups: 2})
	if err != nil {
		t.Fatal(err)
	}

	for _, c := range []string{"a", "b", "c", "d"} {
		if _, err := rw.Write([]byte(strings.Repeat(c, chunk))); err != nil {
			t.Fatalf("Write(%s) failed: %v", c, err)
		}
	}
	if err := rw.Close(); err != nil {
		t.Fatal(err)
	}

	firstByte := func(p string) string {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		return string(data[:1])
	}

	if got := firstByte(path); got != "d" {
		t.Errorf("active file starts with %q, want d", got)
	}
	if got := firstByte(BackupPath(path, 1)); got != "c" {
		t.Errorf("backup 1 starts with %q, want c", got)
	}
	if got := firstByte(BackupPath(path, 2)); got != "b" {
		t.Errorf("backup 2 starts with %q, want b", got)
	}
	if _, err := os.Stat(BackupPath(path, 3)); !os.IsNotExist(err) {
		t.Error("backup 3 should not exist with MaxBackups=2")
	}
}

func TestRotatingWriter_DisabledWhenZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), LogFileName)
	rw, err := NewRotatingWriter(path, RotationConfig{})
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if _, err := rw.Write([]byte(strings.Repeat("x", chunk))); err != nil {
			t.Fatal(err)
		}
	}
	_ = rw.Close()

	if _, err := os.Stat(BackupPath(path, 1)); !os.IsNotExist(err) {
		t.Error("no backup expected when rotation is disabled")
	}
	info, _ := os.Stat(path)
	if info.Size() != 3*chunk {
		t.Errorf("size = %d, want %d", info.Size(), 3*chunk)
	}
}

func TestRotatingWriter_Compress(t *testing.T) {
	path := filepath.Join(t.TempDir(), LogFileName)
	var reported []error
	rw, err := NewRotatingWriter(path, RotationConfig{
		MaxSizeMB:  1,
		MaxBackups: 1,
		Compress:   true,
		OnError:    func(err error) { reported = append(reported, err) },
	})
	if err != nil {
		t.Fatal(err)
	}
	_, _ = rw.Write([]byte(strings.Repeat("a", chunk)))
	_, _ = rw.Write([]byte(strings.Repeat("b", chunk)))
	if err := rw.Close(); err != nil {
		t.Fatal(err)
	}

	if len(reported) != 0 {
		t.Fatalf("unexpected errors: %v", reported)
	}
	if _, err := os.Stat(BackupPath(path, 1)); !os.IsNotExist(err) {
		t.Error("uncompressed backup should be removed")
	}

	f, err := os.Open(BackupPath(path, 1) + ".gz")
	if err != nil {
		t.Fatalf("compressed backup missing: %v", err)
	}
	defer func() { _ = f.Close() }()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != chunk || data[0] != 'a' {
		t.Errorf("decompressed %d bytes starting %q", len(data), data[:1])
	}
}

func TestRotatingWriter_WriteAfterClose(t *testing.T) {
	rw, err := NewRotatingWriter(filepath.Join(t.TempDir(), LogFileName), DefaultRotationConfig())
	if err != nil {
		t.Fatal(err)
	}
	_ = rw.Close()
	if _, err := rw.Write([]byte("late")); err == nil {
		t.Error("expected error writing to closed writer")
	}
	if err := rw.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := rw.Sync(); err != nil {
		t.Errorf("Sync() after close error = %v", err)
	}
}

func TestRotatingWriter_ConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), LogFileName)
	rw, err := NewRotatingWriter(path, DefaultRotationConfig())
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			for range 50 {
				_, _ = rw.Write([]byte("line\n"))
			}
		})
	}
	wg.Wait()
	_ = rw.Close()

	data, _ := os.ReadFile(path)
	if n := strings.Count(string(data), "line\n"); n != 1000 {
		t.Errorf("got %d lines, want 1000", n)
	}
}

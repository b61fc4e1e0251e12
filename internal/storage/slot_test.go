package storage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func slots(t *testing.T) map[string]Slot {
	t.Helper()
	dir := t.TempDir()

	file, err := NewFileSlot(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatalf("NewFileSlot: %v", err)
	}
	db, err := NewSQLiteSlot(filepath.Join(dir, "ledger.db"), nil)
	if err != nil {
		t.Fatalf("NewSQLiteSlot: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return map[string]Slot{
		"memory": NewMemorySlot(),
		"file":   file,
		"sqlite": db,
	}
}

func TestSlotRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range slots(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Read(ctx, "gengar-finance-data"); !errors.Is(err, ErrSlotEmpty) {
				t.Fatalf("Read on fresh slot = %v, want ErrSlotEmpty", err)
			}
			if err := s.Write(ctx, "gengar-finance-data", []byte(`{"a":1}`)); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if err := s.Write(ctx, "gengar-finance-data", []byte(`{"a":2}`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, err := s.Read(ctx, "gengar-finance-data")
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if string(got) != `{"a":2}` {
				t.Errorf("Read = %s, want overwritten value", got)
			}
			if _, err := s.Read(ctx, "other-key"); !errors.Is(err, ErrSlotEmpty) {
				t.Errorf("keys must be independent, got %v", err)
			}
		})
	}
}

func TestSlotRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemorySlot()
	if err := s.Write(ctx, "k", []byte("v")); !errors.Is(err, ErrWrite) {
		t.Errorf("Write = %v, want ErrWrite", err)
	}
	if _, err := s.Read(ctx, "k"); !errors.Is(err, ErrRead) {
		t.Errorf("Read = %v, want ErrRead", err)
	}
}

func TestFileSlotLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSlot(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Write(context.Background(), "gengar/../key", []byte("x")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("dir has %d entries, want 1", len(entries))
	}
	if filepath.Dir(s.Path("gengar/../key")) != dir {
		t.Errorf("key escaped the data directory: %s", s.Path("gengar/../key"))
	}
}

func TestFileSlotWriteFailure(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSlot(dir)
	if err != nil {
		t.Fatal(err)
	}
	// A directory where the file should be makes the rename fail.
	if err := os.Mkdir(s.Path("blocked"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Path("blocked"), "x"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(context.Background(), "blocked", []byte("v")); !errors.Is(err, ErrWrite) {
		t.Errorf("Write = %v, want ErrWrite", err)
	}
}

func TestSQLiteSlotLogsThroughInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	db, err := NewSQLiteSlot(filepath.Join(t.TempDir(), "ledger.db"), logger)
	if err != nil {
		t.Fatalf("NewSQLiteSlot: %v", err)
	}
	defer db.Close()

	if err := db.Write(context.Background(), "k", []byte(`{}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "Slot saved to SQLite") || !strings.Contains(buf.String(), "key=k") {
		t.Errorf("log output = %q", buf.String())
	}
}

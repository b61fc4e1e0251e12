package cli

import (
	"bytes"
	"context"
	"testing"

	"ghostledger/internal/config"
	"ghostledger/internal/core"
	"ghostledger/internal/log"
)

func testLogger() *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = &bytes.Buffer{}
	return log.New(cfg)
}

func TestOpenLedgerSeedsAndPersists(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		DataBackend:   "file",
		DataDir:       t.TempDir(),
		Locale:        "en",
		TZOffsetHours: -3,
		Seed:          true,
	}

	l, err := OpenLedger(ctx, cfg, testLogger())
	if err != nil {
		t.Fatalf("OpenLedger: %v", err)
	}
	defer l.Close()

	if l.Persister.Key() != "gengar-finance-data" {
		t.Errorf("key = %q, want the en-US storage key", l.Persister.Key())
	}
	s, err := l.OpenStore(ctx, testLogger(), nil, nil)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	if len(s.Snapshot().Expenses) == 0 {
		t.Fatal("expected seeded expenses")
	}

	if _, err := s.AddExpense(ctx, core.ExpenseInput{
		Amount: core.Money{Cents: 100}, Description: "Coffee", Category: core.ExpenseFood,
		OccurredOn: core.NewDate(2024, 5, 1),
	}); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	reopened, err := l.OpenStore(ctx, testLogger(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := reopened.Snapshot().Expenses[0].Description; got != "Coffee" {
		t.Errorf("reopened first expense = %q, want Coffee", got)
	}
}

func TestOpenLedgerRejectsUnknownLocale(t *testing.T) {
	cfg := &config.Config{DataBackend: "memory", Locale: "fr"}
	if _, err := OpenLedger(context.Background(), cfg, testLogger()); err == nil {
		t.Error("expected error")
	}
}

func TestSetupLoggerLevel(t *testing.T) {
	logger := SetupLogger(log.ComponentCLI, "debug", &bytes.Buffer{})
	if !logger.Enabled(context.Background(), -4) {
		t.Error("debug level should be enabled")
	}
}

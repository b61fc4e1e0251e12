package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ghostledger/internal/amqp"
	"ghostledger/internal/core"
	"ghostledger/internal/locale"
	"ghostledger/internal/report"
	"ghostledger/internal/sheets"
)

// Loader reads the current ledger from the storage slot.
type Loader interface {
	Key() string
	Load(ctx context.Context) (core.FinanceData, error)
}

// Recorder receives one observation per consumed change and per mirror run.
type Recorder interface {
	ObserveMutation(entity, op string, err error, d time.Duration)
	ObserveMirror(trigger string, rows int, err error, d time.Duration)
}

const (
	TriggerEvent   = "event"
	TriggerTick    = "tick"
	TriggerStartup = "startup"
)

// MirrorWorker rewrites the statement sheet from the storage slot whenever a
// change is announced, and periodically as a backstop for lost messages.
type MirrorWorker struct {
	loader   Loader
	writer   sheets.StatementWriter
	locale   locale.Locale
	recorder Recorder
	logger   *slog.Logger

	// serializes runs so an event and a tick never interleave writes
	mu sync.Mutex
}

func NewMirrorWorker(loader Loader, writer sheets.StatementWriter, loc locale.Locale, recorder Recorder, logger *slog.Logger) *MirrorWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &MirrorWorker{
		loader:   loader,
		writer:   writer,
		locale:   loc,
		recorder: recorder,
		logger:   logger,
	}
}

// HandleChange processes a single change message from AMQP. Messages for
// another storage key are acknowledged without work.
func (w *MirrorWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	if msg.Key != w.loader.Key() {
		w.logger.DebugContext(ctx, "Ignoring change for another ledger",
			"key", msg.Key,
			"want_key", w.loader.Key())
		return nil
	}

	w.logger.InfoContext(ctx, "Processing change message",
		"entity", msg.Change.Entity,
		"op", msg.Change.Op,
		"id", msg.Change.ID,
		"revision", msg.Change.Revision)

	// only committed mutations are announced
	if w.recorder != nil {
		w.recorder.ObserveMutation(msg.Change.Entity, msg.Change.Op, nil, msg.Change.Duration)
	}
	return w.Mirror(ctx, TriggerEvent)
}

// Mirror reloads the slot and replaces the statement: every transaction,
// newest first, followed by the all-time totals.
func (w *MirrorWorker) Mirror(ctx context.Context, trigger string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	rows, err := w.mirror(ctx)
	if w.recorder != nil {
		w.recorder.ObserveMirror(trigger, rows, err, time.Since(start))
	}
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to mirror statement",
			"trigger", trigger,
			"error", err)
		return err
	}

	w.logger.InfoContext(ctx, "Statement mirrored",
		"trigger", trigger,
		"rows", rows,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (w *MirrorWorker) mirror(ctx context.Context) (int, error) {
	data, err := w.loader.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load ledger: %w", err)
	}

	entries := report.RecentTransactions(data, -1)
	st := sheets.BuildStatement(entries, report.PeriodTotals(entries), w.locale)
	if err := w.writer.ReplaceStatement(ctx, st); err != nil {
		return 0, fmt.Errorf("replace statement: %w", err)
	}
	return len(entries), nil
}

// Run mirrors once at startup and then every interval until ctx is done.
// Failed runs are logged and retried on the next tick.
func (w *MirrorWorker) Run(ctx context.Context, interval time.Duration) error {
	if err := w.Mirror(ctx, TriggerStartup); err != nil && ctx.Err() != nil {
		return nil
	}
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Mirror loop stopped")
			return nil
		case <-ticker.C:
			_ = w.Mirror(ctx, TriggerTick)
		}
	}
}

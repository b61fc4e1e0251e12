// Package store owns the authoritative in-memory ledger. Every mutation is
// applied to a copy, persisted in full, and only then made visible.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"ghostledger/internal/backup"
	"ghostledger/internal/core"
	"ghostledger/internal/log"
	"ghostledger/internal/report"
	"ghostledger/internal/storage"
)

// Persister loads and saves the whole ledger.
type Persister interface {
	Load(ctx context.Context) (core.FinanceData, error)
	Save(ctx context.Context, data core.FinanceData) error
}

// Notifier is told about every committed mutation. Failures are logged and
// never undo the mutation.
type Notifier interface {
	PublishChange(ctx context.Context, c core.Change) error
}

// Recorder observes mutation outcomes, typically for metrics.
type Recorder interface {
	ObserveMutation(entity, op string, err error, d time.Duration)
}

// Options carries the store's collaborators. Zero values get defaults.
type Options struct {
	Clock    core.Clock
	Policy   core.TimePolicy
	IDs      core.IDGenerator
	Notifier Notifier
	Recorder Recorder
	Logger   *slog.Logger
}

// FinanceStore is safe for concurrent use; mutations are serialised.
type FinanceStore struct {
	mu       sync.RWMutex
	data     core.FinanceData
	revision uint64

	persister Persister
	clock     core.Clock
	policy    core.TimePolicy
	ids       core.IDGenerator
	notifier  Notifier
	recorder  Recorder
	logger    *slog.Logger
}

// Open loads the ledger through p and returns a store serving it.
func Open(ctx context.Context, p Persister, opts Options) (*FinanceStore, error) {
	s := newStore(p, opts)
	data, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	data.Normalize()
	data.Totals = report.ComputeTotals(data, s.clock.Now(), s.policy)
	s.data = data

	s.logger.InfoContext(ctx, "Ledger loaded",
		"expenses", len(data.Expenses),
		"income", len(data.Income),
		"goals", len(data.Goals),
		"limits", len(data.Limits))
	return s, nil
}

func newStore(p Persister, opts Options) *FinanceStore {
	if opts.Clock == nil {
		opts.Clock = core.SystemClock{}
	}
	if opts.Policy.Location == nil {
		opts.Policy = core.DefaultTimePolicy()
	}
	if opts.IDs == nil {
		opts.IDs = core.NewID
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &FinanceStore{
		data:      core.NewFinanceData(),
		persister: p,
		clock:     opts.Clock,
		policy:    opts.Policy,
		ids:       opts.IDs,
		notifier:  opts.Notifier,
		recorder:  opts.Recorder,
		logger:    opts.Logger.With(log.FieldComponent, log.ComponentStore),
	}
}

// Snapshot returns a deep copy with totals for the current month.
func (s *FinanceStore) Snapshot() core.FinanceData {
	s.mu.RLock()
	d := s.data.Clone()
	s.mu.RUnlock()
	d.Totals = report.ComputeTotals(d, s.clock.Now(), s.policy)
	return d
}

// Revision increases by one on every committed mutation.
func (s *FinanceStore) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// mutate runs apply on a copy of the ledger. When apply reports a change the
// copy is persisted and swapped in; on any error the live ledger is left as
// it was.
func (s *FinanceStore) mutate(ctx context.Context, entity, op string, apply func(d *core.FinanceData) (id string, changed bool, err error)) error {
	start := time.Now()

	s.mu.Lock()
	next := s.data.Clone()
	id, changed, err := apply(&next)
	if err != nil || !changed {
		s.mu.Unlock()
		s.observe(entity, op, err, start)
		return err
	}

	now := s.clock.Now()
	next.Totals = report.ComputeTotals(next, now, s.policy)
	if err := s.persister.Save(ctx, next); err != nil {
		s.mu.Unlock()
		if !errors.Is(err, storage.ErrWrite) {
			err = fmt.Errorf("%w: %w", storage.ErrWrite, err)
		}
		s.logger.ErrorContext(ctx, "Failed to persist ledger, mutation discarded",
			log.FieldEntity, entity, log.FieldOperation, op, log.FieldError, err)
		s.observe(entity, op, err, start)
		return fmt.Errorf("%s %s: %w", op, entity, err)
	}

	s.data = next
	s.revision++
	change := core.Change{Entity: entity, Op: op, ID: id, Revision: s.revision, At: now, Duration: time.Since(start)}
	s.mu.Unlock()

	s.observe(entity, op, nil, start)
	s.logger.DebugContext(ctx, "Ledger mutated",
		log.FieldEntity, entity, log.FieldOperation, op, log.FieldID, id, log.FieldRevision, change.Revision)
	s.notify(ctx, change)
	return nil
}

func (s *FinanceStore) observe(entity, op string, err error, start time.Time) {
	if s.recorder != nil {
		s.recorder.ObserveMutation(entity, op, err, time.Since(start))
	}
}

func (s *FinanceStore) notify(ctx context.Context, c core.Change) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishChange(ctx, c); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish change event",
			log.FieldEntity, c.Entity, log.FieldRevision, c.Revision, log.FieldError, err)
	}
}

// Replace overwrites the whole ledger.
func (s *FinanceStore) Replace(ctx context.Context, data core.FinanceData) error {
	data = data.Clone()
	data.Normalize()
	return s.mutate(ctx, core.EntityAll, log.OpReplace, func(d *core.FinanceData) (string, bool, error) {
		*d = data
		return "", true, nil
	})
}

// Import reads a backup from r and, only if it decodes cleanly, replaces the
// ledger with it. A zero timeout means no bound beyond ctx.
func (s *FinanceStore) Import(ctx context.Context, r io.Reader, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	data, err := backup.Import(ctx, r)
	if err != nil {
		s.logger.WarnContext(ctx, "Import rejected, ledger unchanged", log.FieldError, err)
		s.observe(core.EntityAll, log.OpImport, err, time.Now())
		return err
	}
	return s.Replace(context.WithoutCancel(ctx), data)
}

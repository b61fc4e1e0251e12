// Package cli provides the initialization shared by cmd/ghostledger and
// cmd/ghostledger-worker.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ghostledger/internal/backend"
	"ghostledger/internal/backup"
	"ghostledger/internal/config"
	"ghostledger/internal/core"
	"ghostledger/internal/locale"
	"ghostledger/internal/log"
	"ghostledger/internal/store"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger for component at level, writing to
// out, and sets it as the slog default. An unknown level falls back to info.
func SetupLogger(component, level string, out io.Writer) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Component = component
	cfg.Output = out
	if lvl, err := log.ParseLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it with validate.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger, validate func(*config.Config) error) *config.Config {
	cfg := config.Load()
	if err := validate(cfg); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// Ledger bundles what both commands derive from the configuration.
type Ledger struct {
	Persister *backup.SlotPersister
	Locale    locale.Locale
	Policy    core.TimePolicy

	cleanup backend.CleanupFunc
}

// OpenLedger creates the configured storage slot and binds it to the
// configured locale and storage key.
func OpenLedger(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Ledger, error) {
	loc, err := locale.Lookup(cfg.Locale)
	if err != nil {
		return nil, err
	}
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Slog()).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	p := backup.NewSlotPersister(res.Slot, cfg.StorageKey, loc, cfg.Seed,
		logger.WithComponent(log.ComponentBackup).Slog())
	logger.Info("Ledger storage ready",
		log.FieldBackend, bcfg.Type.String(),
		log.FieldKey, p.Key(),
		log.FieldLocale, loc.Tag)

	return &Ledger{
		Persister: p,
		Locale:    loc,
		Policy:    core.NewTimePolicy(cfg.TZOffsetHours),
		cleanup:   res.Cleanup,
	}, nil
}

// OpenStore loads the ledger into a FinanceStore.
func (l *Ledger) OpenStore(ctx context.Context, logger *log.Logger, notifier store.Notifier, recorder store.Recorder) (*store.FinanceStore, error) {
	s, err := store.Open(ctx, l.Persister, store.Options{
		Policy:   l.Policy,
		Notifier: notifier,
		Recorder: recorder,
		Logger:   logger.Slog(),
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

// Close releases the storage backend.
func (l *Ledger) Close() error {
	if l == nil || l.cleanup == nil {
		return nil
	}
	return l.cleanup()
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. cleanup
// runs before cancellation and is bounded by timeout.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()
		cancel()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-time.After(timeout):
			logger.Warn("Shutdown timeout reached")
		}
		close(done)
	}()

	return ctx, done
}

// ExitOnError logs err and exits with status 1. A nil err is a no-op.
func ExitOnError(logger *log.Logger, msg string, err error) {
	if err == nil {
		return
	}
	code := 1
	if errors.Is(err, context.Canceled) {
		code = 130
	}
	logger.Error(msg, log.FieldError, err)
	os.Exit(code)
}

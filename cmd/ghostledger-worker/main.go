package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"ghostledger/internal/amqp"
	"ghostledger/internal/cli"
	"ghostledger/internal/config"
	"ghostledger/internal/log"
	"ghostledger/internal/metrics"
	"ghostledger/internal/sheets"
	gsheet "ghostledger/internal/sheets/google"
	"ghostledger/internal/sheets/memory"
	"ghostledger/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := config.Load()
	logger := cli.SetupLogger(log.ComponentWorker, cfg.LogLevel, os.Stdout)
	logger.Info("Starting ghostledger-worker")

	cfg = cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	ledger, err := cli.OpenLedger(ctx, cfg, logger)
	cli.ExitOnError(logger, "Failed to open ledger storage", err)
	defer ledger.Close()

	var writer sheets.StatementWriter
	if cfg.SheetsEnabled() {
		writer, err = gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			SheetName:          cfg.GoogleSheetName,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
		}, logger.WithComponent(log.ComponentSheets).Slog())
		cli.ExitOnError(logger, "Failed to initialize Google Sheets client", err)
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, mirroring in memory")
		writer = memory.New()
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
		ledger.Persister.Key(), logger.WithComponent(log.ComponentAMQP).Slog())
	cli.ExitOnError(logger, "Failed to initialize AMQP client", err)
	defer amqpClient.Close()

	m := metrics.New()
	mirror := worker.NewMirrorWorker(ledger.Persister, writer, ledger.Locale, m,
		logger.WithComponent(log.ComponentWorker).Slog())

	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           newRouter(logger, m),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := amqpClient.ConsumeChanges(gctx, mirror.HandleChange)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return mirror.Run(gctx, cfg.MirrorInterval)
	})
	g.Go(func() error {
		logger.Info("Metrics server listening", "addr", cfg.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
	}
	if ctx.Err() != nil {
		<-done
	}
	logger.Info("Worker shutdown complete")
}

func newRouter(logger *log.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(log.Middleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())
	return r
}

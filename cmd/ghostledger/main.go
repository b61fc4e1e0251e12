package main

import (
	"context"
	"errors"
	"os"
	"time"

	"ghostledger/internal/amqp"
	"ghostledger/internal/cli"
	"ghostledger/internal/config"
	"ghostledger/internal/core"
	"ghostledger/internal/log"
	"ghostledger/internal/report"
	"ghostledger/internal/store"
)

func main() {
	os.Exit(runMain())
}

// runMain returns the exit status so deferred cleanup runs before exit.
func runMain() int {
	cli.LoadEnvFile()
	cfg := config.Load()
	// diagnostics go to stderr so command output stays pipeable
	logger := cli.SetupLogger(log.ComponentCLI, cfg.LogLevel, os.Stderr)
	cfg = cli.LoadAndValidateConfig(logger, (*config.Config).Validate)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ledger, err := cli.OpenLedger(ctx, cfg, logger)
	cli.ExitOnError(logger, "Failed to open ledger storage", err)
	defer ledger.Close()

	var notifier store.Notifier
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
			ledger.Persister.Key(), logger.WithComponent(log.ComponentAMQP).Slog())
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change events", log.FieldError, err)
		} else {
			defer client.Close()
			notifier = client
		}
	}

	s, err := ledger.OpenStore(ctx, logger, notifier, nil)
	cli.ExitOnError(logger, "Failed to load ledger", err)

	clock := core.SystemClock{}
	a := &app{
		store:         s,
		reporter:      report.NewReporter(s, clock, ledger.Policy, time.Minute),
		locale:        ledger.Locale,
		policy:        ledger.Policy,
		clock:         clock,
		importTimeout: cfg.ImportTimeout,
		defaultPIN:    os.Getenv("LEDGER_PIN"),
		out:           os.Stdout,
		errOut:        os.Stderr,
	}

	if err := a.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		logger.Error("Command failed", log.FieldError, err)
		return 1
	}
	return 0
}

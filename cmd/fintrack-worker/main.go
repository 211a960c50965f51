package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/log"
	gsheet "fintrack/internal/sheets/google"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)

	logger.Info("Starting fintrack-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if err := cfg.ValidateSheets(); err != nil {
		logger.Error("Sheets configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	store := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer store.Close()

	sheetsClient, err := gsheet.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(store, sheetsClient, sheetsClient, cfg.SyncBatchSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catch up on anything written while the worker was down.
	logger.Info("Performing startup sync check")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Startup sync check failed", log.FieldError, err)
		// Continue; the reconciliation loop retries.
	}

	_, done := cli.GracefulShutdown(logger, 30*time.Second, cancel)

	if err := syncWorker.Run(ctx, amqpClient, cfg.SyncInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
}

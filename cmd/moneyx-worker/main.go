package main

import (
	"context"
	"errors"
	"os"
	"time"

	"moneyx/internal/amqp"
	"moneyx/internal/cache"
	"moneyx/internal/cli"
	"moneyx/internal/config"
	"moneyx/internal/log"
	gsheet "moneyx/internal/sheets/google"
	"moneyx/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	logger.Info("Starting moneyx-worker", log.FieldOperation, log.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	repo := cli.InitSQLite(logger, cfg.WorkerDBPath)
	defer repo.Close()

	creds, err := gsheet.CredentialsOption(gsheet.Credentials{
		JSON: cfg.GoogleServiceAccountJSON,
		File: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		logger.Error("Failed to load Google credentials", log.FieldError, err)
		os.Exit(1)
	}
	sheetsClient, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, logger, creds)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	if err := sheetsClient.EnsureHeader(ctx, time.Now().Year()); err != nil {
		logger.Warn("Could not ensure sheet header", log.FieldError, err)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	seen := cache.NewLRUCache[bool](10000, 24*time.Hour)
	caches := cache.NewManager(logger)
	caches.Register(seen)
	go caches.Run(ctx, time.Hour)

	syncWorker := worker.NewSyncWorker(sheetsClient, repo, seen, logger)

	err = amqpClient.ConsumeLedgerEvents(ctx, syncWorker.HandleLedgerEvent)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"ledger/internal/amqp"
	"ledger/internal/backend"
	"ledger/internal/cli"
	"ledger/internal/config"
	applog "ledger/internal/log"
	gsheet "ledger/internal/sheets/google"
	"ledger/internal/worker"
)

const dialAttempts = 10

func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel, os.Stdout).WithComponent(applog.ComponentWorker)
	logger.Info("Starting ledger-worker")

	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("Configuration validation failed",
			applog.NewFields().WithError(err, applog.ErrorTypeConfiguration).ToSlice()...)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Worker stopped", applog.FieldError, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *applog.Logger) error {
	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// the worker only reads the ledger; it never publishes
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	bcfg.AMQPURL = ""
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return err
	}
	defer res.Close()

	sheetsClient, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		return err
	}
	if err := sheetsClient.EnsureHeader(ctx); err != nil {
		return err
	}
	logger.Info("Google Sheets mirror ready",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName)

	amqpClient, err := amqp.DialWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, dialAttempts)
	if err != nil {
		return err
	}
	defer amqpClient.Close()

	mirror := worker.NewMirrorWorker(sheetsClient, res.Store, logger, cfg.MirrorMaxRetries)

	logger.Info("Performing startup backfill", applog.FieldOperation, applog.OpBackfill)
	if _, err := mirror.Backfill(ctx); err != nil {
		logger.Error("Startup backfill failed", applog.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeEntryRecorded(gctx, mirror.HandleEntryRecorded)
	})
	g.Go(func() error {
		return mirror.Run(gctx, cfg.MirrorBackfillInterval)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		<-done
		logger.Info("Worker shutdown complete", applog.FieldOperation, applog.OpShutdown)
		return nil
	}
	return err
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/KhemraButh/Loan-Performance/internal/amqp"
	"github.com/KhemraButh/Loan-Performance/internal/config"
	applog "github.com/KhemraButh/Loan-Performance/internal/log"
	"github.com/KhemraButh/Loan-Performance/internal/records/google"
	"github.com/KhemraButh/Loan-Performance/internal/storage"
	"github.com/KhemraButh/Loan-Performance/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.Config{Level: applog.DefaultConfig().Level, Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting loanperf-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required: the worker pulls from the spreadsheet")
		os.Exit(1)
	}

	sheetsClient, err := google.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	if err := storage.RunMigrations(cfg.SQLiteDBPath); err != nil {
		logger.Error("Failed to run migrations", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Notifications are optional; without a broker the dashboards pick
	// up new snapshots when their own cache expires.
	var publisher worker.Publisher
	if cfg.AMQPURL != "" {
		mq, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer mq.Close()
		publisher = mq
		logger.Info("Publishing refresh notifications", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	w := worker.NewRefreshWorker(sheetsClient, repo, publisher, cfg.RefreshInterval)
	logger.Info("Refresh loop starting", "interval", cfg.RefreshInterval)
	if err := w.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("Refresh loop failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}

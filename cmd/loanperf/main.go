package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/KhemraButh/Loan-Performance/internal/amqp"
	"github.com/KhemraButh/Loan-Performance/internal/config"
	apphttp "github.com/KhemraButh/Loan-Performance/internal/http"
	applog "github.com/KhemraButh/Loan-Performance/internal/log"
	"github.com/KhemraButh/Loan-Performance/internal/portfolio"
	"github.com/KhemraButh/Loan-Performance/internal/records"
	"github.com/KhemraButh/Loan-Performance/internal/records/google"
	"github.com/KhemraButh/Loan-Performance/internal/records/memory"
	"github.com/KhemraButh/Loan-Performance/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var (
		fetcher   records.Fetcher
		snapshots records.SnapshotStore
	)

	switch cfg.DataBackend {
	case "sheets":
		cli, err := google.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err, "backend", cfg.DataBackend)
			os.Exit(1)
		}
		fetcher = cli
		logger.Info("Initialized Google Sheets backend", "backend", cfg.DataBackend)

		// Local snapshot doubles as a fallback when the spreadsheet
		// is unreachable.
		if cfg.SQLiteDBPath != "" {
			repo, err := openSnapshotStore(cfg.SQLiteDBPath)
			if err != nil {
				logger.Warn("Snapshot fallback disabled", "error", err, "path", cfg.SQLiteDBPath)
			} else {
				defer repo.Close()
				snapshots = repo
				logger.Info("Snapshot fallback enabled", "path", cfg.SQLiteDBPath)
			}
		}
	case "sqlite":
		repo, err := openSnapshotStore(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open snapshot database", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		fetcher = repo
		logger.Info("Initialized SQLite snapshot backend", "backend", cfg.DataBackend, "path", cfg.SQLiteDBPath)
	default:
		fetcher = memory.NewDemo()
		logger.Info("Initialized demo memory backend", "backend", cfg.DataBackend)
	}

	svc := portfolio.New(fetcher, snapshots, cfg.RefreshInterval)
	srv := apphttp.NewServer(":"+cfg.Port, svc)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// When a refresh worker announces new data, drop the cached record
	// set so the next request picks it up.
	if cfg.AMQPURL != "" {
		mq, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer mq.Close()

		go func() {
			err := mq.ConsumeSnapshotRefreshed(ctx, func(msg *amqp.SnapshotRefreshedMessage) error {
				logger.Info("Snapshot refreshed upstream", "fetched_at", msg.FetchedAt, "records", msg.RecordCount)
				svc.Invalidate()
				srv.PurgeViews()
				return nil
			})
			if err != nil && err != context.Canceled {
				logger.Error("Snapshot notification consumption failed", "error", err)
			}
		}()
		logger.Info("Listening for snapshot notifications", "queue", cfg.AMQPQueue)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting loanperf server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func openSnapshotStore(path string) (*storage.SQLiteRepository, error) {
	if err := storage.RunMigrations(path); err != nil {
		return nil, err
	}
	return storage.NewSQLiteRepository(path)
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/smb_books/internal/jobs"
	"github.com/SscSPs/smb_books/internal/platform/bootstrap"
	"github.com/SscSPs/smb_books/internal/platform/config"
	"github.com/hibiken/asynq"
)

func main() {
	logger := bootstrap.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer app.Close()

	sweepTask, err := jobs.NewIntegritySweepTask("")
	if err != nil {
		logger.Error("Failed to build integrity sweep task", slog.String("error", err.Error()))
		os.Exit(1)
	}
	sweep := jobs.NewIntegritySweepJob(app.Services.Reporting, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Concurrency: cfg.WorkerConcurrency,
		Logger:      logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLedgerIntegritySweep, Handler: sweep.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.IntegrityCron, Task: sweepTask},
		},
	})
	if err != nil {
		logger.Error("Failed to initialize worker", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Worker starting", slog.String("integrity_cron", cfg.IntegrityCron), slog.Int("concurrency", cfg.WorkerConcurrency))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

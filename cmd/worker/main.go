package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/stocklight/stocklight/internal/alerts"
	"github.com/stocklight/stocklight/internal/app"
	jobmetrics "github.com/stocklight/stocklight/internal/jobs"
	"github.com/stocklight/stocklight/internal/ledger"
	"github.com/stocklight/stocklight/internal/platform/cache"
	"github.com/stocklight/stocklight/internal/platform/db"
	"github.com/stocklight/stocklight/internal/shared"
	"github.com/stocklight/stocklight/internal/sku"
	"github.com/stocklight/stocklight/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	skuRepo := sku.NewRepository(pool)
	ledgerService := ledger.NewService(skuRepo)
	publisher := alerts.NewPublisher(redisClient, cfg.AlertChannel)
	idempotencyStore := shared.NewIdempotencyStore(pool)

	metrics := jobmetrics.NewMetrics(nil)
	scanJob := jobs.NewReorderScanJob(ledgerService, publisher, logger).WithMetrics(metrics)
	cleanupJob := jobs.NewIdempotencyCleanupJob(idempotencyStore, cfg.IdempotencyRetention, logger).WithMetrics(metrics)

	scanTask, err := jobs.NewReorderScanTask("scheduled")
	if err != nil {
		logger.Error("build reorder scan task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReorderScan, Handler: scanJob.Handle},
			{Type: jobs.TaskIdempotencyCleanup, Handler: cleanupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.ReorderScanSpec, Task: scanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 3 * * *", Task: jobs.NewIdempotencyCleanupTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}

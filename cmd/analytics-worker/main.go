package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fabrikline/wholesale-backend/internal/analytics"
	"github.com/fabrikline/wholesale-backend/internal/jobs"
	"github.com/fabrikline/wholesale-backend/pkg/config"
	"github.com/fabrikline/wholesale-backend/pkg/db"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
	"github.com/fabrikline/wholesale-backend/pkg/metrics"
	"github.com/fabrikline/wholesale-backend/pkg/pubsub"
	"github.com/fabrikline/wholesale-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "analytics-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "analytics-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "failed to close database client", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "failed to close redis client", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "failed to close pubsub client", err)
		}
	}()

	subscription := pubsubClient.AnalyticsSubscription()
	if subscription == nil {
		requireResource(ctx, logg, "analytics subscription", errors.New("subscription not configured"))
	}

	worker, err := analytics.NewWorker(subscription, analytics.NewRepository(dbClient.DB()), redisClient, logg)
	requireResource(ctx, logg, "analytics worker", err)

	retentionJob, err := jobs.NewEventsRetentionJob(analytics.NewRepository(dbClient.DB()), logg, cfg.Jobs.EventRetentionDays)
	requireResource(ctx, logg, "events retention job", err)

	jobLock, err := jobs.NewRedisLock(redisClient, redisClient.JobLockKey("maintenance"), cfg.Jobs.LockTTL)
	requireResource(ctx, logg, "job lock", err)

	maintenance, err := jobs.NewRunner(jobs.RunnerParams{
		Logger:   logg,
		Registry: jobs.NewRegistry(retentionJob),
		Lock:     jobLock,
		Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
		Cadence:  cfg.Jobs.MaintenanceCadence,
	})
	requireResource(ctx, logg, "maintenance runner", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithField(runCtx, "env", cfg.App.Env)
	logg.Info(runCtx, "analytics worker ready")

	go func() {
		if err := maintenance.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(runCtx, "maintenance runner failed", err)
		}
	}()

	if err := worker.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "analytics worker failed", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}

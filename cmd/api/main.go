package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fabrikline/wholesale-backend/api/controllers"
	"github.com/fabrikline/wholesale-backend/api/routes"
	"github.com/fabrikline/wholesale-backend/internal/analytics"
	"github.com/fabrikline/wholesale-backend/internal/auth"
	"github.com/fabrikline/wholesale-backend/internal/companies"
	"github.com/fabrikline/wholesale-backend/internal/currency"
	"github.com/fabrikline/wholesale-backend/internal/jobs"
	"github.com/fabrikline/wholesale-backend/internal/pricing"
	"github.com/fabrikline/wholesale-backend/internal/products"
	"github.com/fabrikline/wholesale-backend/internal/sizecharts"
	"github.com/fabrikline/wholesale-backend/internal/uploads"
	"github.com/fabrikline/wholesale-backend/internal/users"
	"github.com/fabrikline/wholesale-backend/pkg/auth/session"
	"github.com/fabrikline/wholesale-backend/pkg/config"
	"github.com/fabrikline/wholesale-backend/pkg/db"
	"github.com/fabrikline/wholesale-backend/pkg/enums"
	"github.com/fabrikline/wholesale-backend/pkg/httpclient"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
	"github.com/fabrikline/wholesale-backend/pkg/metrics"
	"github.com/fabrikline/wholesale-backend/pkg/migrate"
	"github.com/fabrikline/wholesale-backend/pkg/pubsub"
	"github.com/fabrikline/wholesale-backend/pkg/redis"
	"github.com/fabrikline/wholesale-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(gormDB),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.NewRepository(gormDB))
	if err != nil {
		logg.Error(ctx, "failed to create product service", err)
		os.Exit(1)
	}

	chartService, err := sizecharts.NewService(sizecharts.NewRepository(gormDB))
	if err != nil {
		logg.Error(ctx, "failed to create size chart service", err)
		os.Exit(1)
	}

	pricingService, err := pricing.NewService(pricing.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(ctx, "failed to create pricing service", err)
		os.Exit(1)
	}

	companyService, err := companies.NewService(companies.NewRepository(gormDB))
	if err != nil {
		logg.Error(ctx, "failed to create company service", err)
		os.Exit(1)
	}

	readiness := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}

	var publisher analytics.EventPublisher
	if cfg.Features.AnalyticsBus && cfg.PubSub.AnalyticsTopic != "" {
		pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer pubsubClient.Close()
		publisher = analytics.NewPubSubPublisher(pubsubClient.AnalyticsPublisher())
		readiness["pubsub"] = pubsubClient
	}

	analyticsService, err := analytics.NewService(analytics.NewRepository(gormDB), publisher, logg)
	if err != nil {
		logg.Error(ctx, "failed to create analytics service", err)
		os.Exit(1)
	}

	var uploadService uploads.Service
	if cfg.GCS.BucketName != "" {
		gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap object storage", err)
			os.Exit(1)
		}
		defer gcsClient.Close()
		readiness["gcs"] = gcsClient

		uploadService, err = uploads.NewService(uploads.NewRepository(gormDB), gcsClient, logg, cfg.Uploads.MaxUploadMB)
		if err != nil {
			logg.Error(ctx, "failed to create upload service", err)
			os.Exit(1)
		}
	}

	base, err := enums.ParseCurrency(cfg.Rates.BaseCurrency)
	if err != nil {
		logg.Error(ctx, "invalid base currency", err)
		os.Exit(1)
	}
	rateStore := currency.NewStore(base)
	ratesMetrics := metrics.NewRatesMetrics(prometheus.DefaultRegisterer)
	clientMetrics := metrics.NewClientMetrics(prometheus.DefaultRegisterer)

	providerCredential := httpclient.NewStaticToken(cfg.Rates.APIKey)
	providerHTTP := httpclient.NewAuthenticated(http.DefaultTransport, cfg.Client, providerCredential, func() {
		logg.Warn(ctx, "rates provider rejected the configured credential")
	}, logg, clientMetrics)
	provider := currency.NewProviderClient(
		currency.WithBaseURL(cfg.Rates.ProviderURL),
		currency.WithHTTPClient(providerHTTP),
	)

	rateService, err := currency.NewService(rateStore, provider, redisClient, logg, ratesMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create rate service", err)
		os.Exit(1)
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rateService.Hydrate(runCtx)
	if err := rateService.Refresh(runCtx); err != nil {
		logg.Warn(logg.WithField(runCtx, "error", err.Error()), "initial rate refresh failed, serving cached table")
	}
	if cfg.Features.RatesRefresh {
		ratesJob, err := jobs.NewRatesRefreshJob(rateService)
		if err != nil {
			logg.Error(ctx, "failed to build rates refresh job", err)
			os.Exit(1)
		}
		// No lock: each instance refreshes its own in-process table.
		refreshRunner, err := jobs.NewRunner(jobs.RunnerParams{
			Logger:   logg,
			Registry: jobs.NewRegistry(ratesJob),
			Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
			Cadence:  cfg.Rates.RefreshInterval,
		})
		if err != nil {
			logg.Error(ctx, "failed to build rates refresh runner", err)
			os.Exit(1)
		}
		go func() {
			_ = refreshRunner.Run(runCtx)
		}()
	}

	handler := routes.NewRouter(routes.Deps{
		Config:    cfg,
		Logger:    logg,
		Redis:     redisClient,
		Sessions:  sessionManager,
		Readiness: readiness,
		Auth:      authService,
		Products:  productService,
		Charts:    chartService,
		Pricing:   pricingService,
		Rates:     rateStore,
		Analytics: analyticsService,
		Companies: companyService,
		Uploads:   uploadService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-runCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "server shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

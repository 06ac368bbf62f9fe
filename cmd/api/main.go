package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/platewise/platewise-backend/api/routes"
	"github.com/platewise/platewise-backend/internal/analytics"
	"github.com/platewise/platewise-backend/internal/colmap"
	"github.com/platewise/platewise-backend/internal/ingest"
	"github.com/platewise/platewise-backend/internal/insights"
	"github.com/platewise/platewise-backend/internal/restaurants"
	"github.com/platewise/platewise-backend/internal/transactions"
	"github.com/platewise/platewise-backend/internal/uploads"
	"github.com/platewise/platewise-backend/pkg/config"
	"github.com/platewise/platewise-backend/pkg/db"
	"github.com/platewise/platewise-backend/pkg/gemini"
	"github.com/platewise/platewise-backend/pkg/logger"
	"github.com/platewise/platewise-backend/pkg/metrics"
	"github.com/platewise/platewise-backend/pkg/migrate"
	"github.com/platewise/platewise-backend/pkg/redis"
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
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, analytics cache disabled")
	}

	var textGen *gemini.Client
	if cfg.Gemini.Enabled() {
		textGen, err = gemini.New(context.Background(), cfg.Gemini)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap gemini client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "gemini not configured, using deterministic fallbacks")
	}

	registry := prometheus.NewRegistry()
	ingestMetrics := metrics.NewIngestMetrics(registry)

	restaurantService, err := restaurants.NewService(restaurants.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create restaurant service", err)
		os.Exit(1)
	}

	uploadsService, err := uploads.NewService(uploads.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create uploads service", err)
		os.Exit(1)
	}

	var mapperGen colmap.TextGenerator
	var enricherGen insights.TextGenerator
	if textGen != nil {
		mapperGen = textGen
		enricherGen = textGen
	}

	mapper, err := colmap.NewService(mapperGen, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create column mapper", err)
		os.Exit(1)
	}

	enricher, err := insights.NewEnricher(enricherGen, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create insight enricher", err)
		os.Exit(1)
	}

	txRepo := transactions.NewRepository(dbClient.DB())
	cache := analytics.NewCache(redisClient, cfg.Analytics.CacheTTL, logg)

	analyticsService, err := analytics.NewService(txRepo, cache, enricher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	ingestService, err := ingest.NewService(txRepo, uploadsService, mapper, cache, ingestMetrics, cfg.Upload.Dir, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create ingest service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			restaurantService,
			ingestService,
			uploadsService,
			analyticsService,
		),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

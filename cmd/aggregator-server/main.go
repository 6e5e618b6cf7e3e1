// cmd/aggregator-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"activity-aggregator/internal/common/cache"
	"activity-aggregator/internal/common/config"
	"activity-aggregator/internal/common/database"
	"activity-aggregator/internal/common/logger"
	"activity-aggregator/internal/common/observability"
	"activity-aggregator/internal/fallback"
	"activity-aggregator/internal/pipeline"
	"activity-aggregator/internal/providers"
	"activity-aggregator/internal/providers/attractions"
	"activity-aggregator/internal/providers/cityguide"
	"activity-aggregator/internal/providers/dining"
	"activity-aggregator/internal/providers/marketplace"
	"activity-aggregator/internal/providers/ticketing"
	transport "activity-aggregator/internal/transport/http"
	"activity-aggregator/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting aggregator server...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init query cache (optional, degraded without it) ---
	var queryCache *cache.Cache
	if cfg.Cache.Enabled {
		ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
		err = retryWithBackoff(func() error {
			queryCache = cache.NewRedis(cfg.Database.Redis, ttl)
			return queryCache.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, serving uncached", zap.Error(err))
			queryCache = nil
		} else {
			defer queryCache.Close()
			zapLog.Info("Query cache connected", zap.Duration("ttl", ttl))
		}
	}

	// --- Init PostgreSQL for the curated city guide (optional) ---
	var pg *database.PostgresClient
	if cfg.Providers.CityGuide.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Warn("postgres unavailable, city guide disabled", zap.Error(err))
			pg = nil
		} else {
			defer pg.Close()
			zapLog.Info("PostgreSQL connected")
		}
	}

	// --- Register providers in merge order ---
	var providerList []providers.Provider

	if cfg.Providers.Ticketing.Enabled {
		providerList = append(providerList,
			ticketing.New(ticketing.LoadConfig(cfg.Providers.Ticketing), log))
	}
	if cfg.Providers.Marketplace.Enabled {
		providerList = append(providerList,
			marketplace.New(marketplace.LoadConfig(cfg.Providers.Marketplace), log))
	}
	if cfg.Providers.Attractions.Enabled {
		providerList = append(providerList,
			attractions.New(attractions.LoadConfig(cfg.Providers.Attractions), log))
	}
	if cfg.Providers.Dining.Enabled {
		providerList = append(providerList,
			dining.New(dining.LoadConfig(cfg.Providers.Dining), log))
	}
	if cfg.Providers.CityGuide.Enabled {
		providerList = append(providerList,
			cityguide.New(cityguide.LoadConfig(cfg.Providers.CityGuide), pg, log))
	}

	for _, p := range providerList {
		zapLog.Info("provider registered", zap.String("source", p.Name()))
	}
	if len(providerList) == 0 {
		zapLog.Warn("no providers enabled, every response will be synthetic")
	}

	aggregator := pipeline.New(providerList, fallback.New(log), log)

	// --- HTTP server ---
	handler := transport.NewHandler(aggregator, queryCache, registry.Default(), log)
	router := transport.NewRouter(handler, log, transport.RouterOptions{
		RateLimit:       cfg.Server.RateLimit,
		RateLimitWindow: time.Duration(cfg.Server.RateLimitWindow) * time.Second,
		Observability:   obs,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Aggregator server stopped gracefully")
}

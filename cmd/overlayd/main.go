package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nickdnj/TempestWeather/internal/adapter/httpapi"
	kafkaadapter "github.com/nickdnj/TempestWeather/internal/adapter/kafka"
	"github.com/nickdnj/TempestWeather/internal/adapter/noaa"
	"github.com/nickdnj/TempestWeather/internal/adapter/tempest"
	"github.com/nickdnj/TempestWeather/internal/config"
	"github.com/nickdnj/TempestWeather/internal/observability"
	"github.com/nickdnj/TempestWeather/internal/overlay"
	"github.com/nickdnj/TempestWeather/internal/station"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	store := station.NewStore()

	// Observation publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher station.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaObsTopic, logger)
		publisher = kafkaPublisher
		logger.Info("observation publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaObsTopic)
	} else {
		logger.Info("observation publishing disabled")
	}

	listener := station.NewListener(cfg.ListenAddr(), store, publisher, logger, metrics)

	forecastClient := tempest.NewClient(cfg.APIToken, cfg.StationID, cfg.LocationState, cfg.ForecastTimeout, logger, metrics)
	forecast := tempest.NewCachedClient(forecastClient, cfg.ForecastCacheTTL, metrics)

	prefetcher := tempest.NewPrefetcher(forecast, cfg.PrefetchInterval, cfg.ForecastTimeout, logger)
	if err := prefetcher.Start(); err != nil {
		logger.Error("failed to start forecast prefetcher", "error", err)
		os.Exit(1)
	}

	tideClient := noaa.NewClient(cfg.TideTimeout, logger, metrics)
	tides := noaa.NewCachedClient(tideClient, cfg.TideCacheTTL, metrics)

	assets := overlay.NewAssets(cfg.AssetRoot, logger)
	renderer := overlay.NewRenderer(assets, metrics)
	cache := overlay.NewCache(cfg.RenderCacheSize, metrics)
	service := overlay.NewService(store, forecast, tides, cache, renderer, cfg.TideStations, logger)

	srv := httpapi.NewServer(cfg.HTTPAddr, service, httpapi.AnyReady{listener, service}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start UDP broadcast listener.
	go func() {
		if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("broadcast listener error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	prefetcher.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

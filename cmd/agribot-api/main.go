// Package main provides the AgriBot API server entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agrisense-ai/agribot/internal/cache"
	"github.com/agrisense-ai/agribot/internal/config"
	"github.com/agrisense-ai/agribot/internal/dialogue"
	"github.com/agrisense-ai/agribot/internal/generation"
	"github.com/agrisense-ai/agribot/internal/knowledge"
	"github.com/agrisense-ai/agribot/internal/observability"
	"github.com/agrisense-ai/agribot/internal/session"
	"github.com/agrisense-ai/agribot/internal/weather"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "agribot",
	})

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Bool("generation_online", cfg.Generation.APIKey != "").
		Bool("weather_configured", cfg.Weather.ChannelID != "").
		Msg("Starting AgriBot API")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bot, cleanup := buildPipeline(ctx, logger, cfg)
	defer cleanup()

	router := NewRouter(logger, cfg, bot)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error().Err(err).Msg("Server error")
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
}

// buildPipeline assembles the routing pipeline from config. The returned
// cleanup closes the cache client; the session sweeper stops with ctx.
func buildPipeline(ctx context.Context, logger *observability.Logger, cfg *config.Config) (*dialogue.Bot, func()) {
	cacheClient := newCacheClient(logger, cfg)

	store := knowledge.Load(logger, knowledge.Options{
		DataPath:   cfg.Knowledge.DataPath,
		SQLitePath: cfg.Knowledge.SQLitePath,
	})

	weatherClient := weather.NewClient(logger, cacheClient, weather.Config{
		BaseURL:   cfg.Weather.BaseURL,
		ChannelID: cfg.Weather.ChannelID,
		Timeout:   cfg.Weather.Timeout,
		CacheTTL:  cfg.Weather.CacheTTL,
	})

	gen := generation.NewClient(ctx, logger, generation.Config{
		APIKey: cfg.Generation.APIKey,
		Model:  cfg.Generation.Model,
	})

	sessions := session.NewStore(logger, gen.Open, session.Config{
		TTL:           cfg.Sessions.TTL,
		MaxSessions:   cfg.Sessions.MaxSessions,
		SweepInterval: cfg.Sessions.SweepInterval,
	})
	go sessions.Run(ctx)

	bot := dialogue.NewBot(logger, dialogue.Deps{
		Store:    store,
		Weather:  weatherClient,
		Gen:      gen,
		Sessions: sessions,
	})

	cleanup := func() {
		if err := cacheClient.Close(); err != nil {
			logger.Warn().Err(err).Msg("cache close failed")
		}
	}
	return bot, cleanup
}

// newCacheClient selects the cache driver, falling back to memory when Redis
// is unreachable.
func newCacheClient(logger *observability.Logger, cfg *config.Config) cache.Client {
	if cfg.Cache.Driver == "redis" {
		client, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
		if err == nil {
			return client
		}
		logger.Warn().Err(err).Msg("redis unavailable, using in-memory cache")
	}
	return cache.NewMemoryClient(cfg.Cache.MaxEntries)
}

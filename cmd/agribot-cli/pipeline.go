package main

import (
	"context"

	"github.com/agrisense-ai/agribot/internal/cache"
	"github.com/agrisense-ai/agribot/internal/config"
	"github.com/agrisense-ai/agribot/internal/dialogue"
	"github.com/agrisense-ai/agribot/internal/generation"
	"github.com/agrisense-ai/agribot/internal/knowledge"
	"github.com/agrisense-ai/agribot/internal/observability"
	"github.com/agrisense-ai/agribot/internal/session"
	"github.com/agrisense-ai/agribot/internal/weather"
)

// buildPipeline assembles the routing pipeline for in-process use. The CLI
// always uses the in-memory cache; Redis is a server concern.
func buildPipeline(ctx context.Context, logger *observability.Logger, cfg *config.Config) *dialogue.Bot {
	cacheClient := cache.NewMemoryClient(cfg.Cache.MaxEntries)

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

	return dialogue.NewBot(logger, dialogue.Deps{
		Store:    store,
		Weather:  weatherClient,
		Gen:      gen,
		Sessions: sessions,
	})
}

// loadStore loads just the knowledge store, for inspection commands.
func loadStore(logger *observability.Logger, cfg *config.Config) *knowledge.Store {
	return knowledge.Load(logger, knowledge.Options{
		DataPath:   cfg.Knowledge.DataPath,
		SQLitePath: cfg.Knowledge.SQLitePath,
	})
}

// Package main provides the API router setup.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/agrisense-ai/agribot/cmd/agribot-api/handlers"
	"github.com/agrisense-ai/agribot/cmd/agribot-api/middleware"
	"github.com/agrisense-ai/agribot/internal/config"
	"github.com/agrisense-ai/agribot/internal/dialogue"
	"github.com/agrisense-ai/agribot/internal/observability"
)

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger *observability.Logger, cfg *config.Config, bot *dialogue.Bot) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(cfg.Server.WriteTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"agribot"}`))
	})

	chatHandler := handlers.NewChatHandler(logger, bot)
	r.Post("/chat", chatHandler.Chat)
	r.Post("/api/chat", chatHandler.APIChat)

	return r
}

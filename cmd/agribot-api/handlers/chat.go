// Package handlers provides HTTP handlers for the AgriBot API.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/agrisense-ai/agribot/internal/dialogue"
	"github.com/agrisense-ai/agribot/internal/observability"
)

// SessionHeader carries the client's conversation session id. The server
// echoes it back (minting one on first contact).
const SessionHeader = "X-Session-ID"

// ChatHandler handles chat messages.
type ChatHandler struct {
	logger *observability.Logger
	bot    *dialogue.Bot
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(logger *observability.Logger, bot *dialogue.Bot) *ChatHandler {
	return &ChatHandler{logger: logger, bot: bot}
}

// ChatRequestDTO is the inbound chat message envelope.
type ChatRequestDTO struct {
	Message string `json:"message"`
}

// ChatResponseDTO is the outbound chat reply envelope.
type ChatResponseDTO struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp,omitempty"`
	SessionID string `json:"sessionId"`
	Status    string `json:"status"`
}

// Chat handles POST /chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, false)
}

// APIChat handles POST /api/chat, which adds a timestamp for integration
// with existing websites.
func (h *ChatHandler) APIChat(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, true)
}

func (h *ChatHandler) serve(w http.ResponseWriter, r *http.Request, withTimestamp bool) {
	var req ChatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		h.writeError(w, http.StatusBadRequest, "Empty message")
		return
	}

	reply, sessionID := h.bot.Reply(r.Context(), r.Header.Get(SessionHeader), req.Message)

	resp := ChatResponseDTO{
		Response:  reply,
		SessionID: sessionID,
		Status:    "success",
	}
	if withTimestamp {
		resp.Timestamp = h.bot.Timestamp()
	}

	w.Header().Set(SessionHeader, sessionID)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode chat response")
	}
}

func (h *ChatHandler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":  message,
		"status": "error",
	})
}

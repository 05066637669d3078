package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisense-ai/agribot/internal/dialogue"
	"github.com/agrisense-ai/agribot/internal/generation"
	"github.com/agrisense-ai/agribot/internal/knowledge"
	"github.com/agrisense-ai/agribot/internal/observability"
	"github.com/agrisense-ai/agribot/internal/session"
	"github.com/agrisense-ai/agribot/internal/weather"
)

// newTestHandler builds a handler over an offline pipeline: greetings and
// farewells answer normally, generation-backed paths return the fixed
// offline message. No network involved.
func newTestHandler(t *testing.T) *ChatHandler {
	t.Helper()

	logger := observability.Nop()
	gen := generation.NewClient(context.Background(), logger, generation.Config{})
	sessions := session.NewStore(logger, func(ctx context.Context) generation.Conversation {
		return gen.Open(ctx)
	}, session.Config{})

	bot := dialogue.NewBot(logger, dialogue.Deps{
		Store:    knowledge.Load(logger, knowledge.Options{}),
		Weather:  weather.NewClient(logger, nil, weather.Config{}),
		Gen:      gen,
		Sessions: sessions,
		Pick:     func(int) int { return 0 },
	})
	return NewChatHandler(logger, bot)
}

func postChat(t *testing.T, h http.HandlerFunc, body, sessionID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestChat_Success(t *testing.T) {
	h := newTestHandler(t)

	rec := postChat(t, h.Chat, `{"message":"hello"}`, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ChatResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.NotEmpty(t, resp.Response)
	assert.NotEmpty(t, resp.SessionID)
	assert.Empty(t, resp.Timestamp)
	assert.Equal(t, resp.SessionID, rec.Header().Get(SessionHeader))
}

func TestChat_SessionRoundTrip(t *testing.T) {
	h := newTestHandler(t)

	first := postChat(t, h.Chat, `{"message":"hello"}`, "")
	sid := first.Header().Get(SessionHeader)
	require.NotEmpty(t, sid)

	second := postChat(t, h.Chat, `{"message":"hello again"}`, sid)
	assert.Equal(t, sid, second.Header().Get(SessionHeader))
}

func TestAPIChat_IncludesTimestamp(t *testing.T) {
	h := newTestHandler(t)

	rec := postChat(t, h.APIChat, `{"message":"hello"}`, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ChatResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Timestamp)
}

func TestChat_EmptyMessage(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty string", `{"message":""}`},
		{"whitespace only", `{"message":"   "}`},
		{"missing field", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postChat(t, h.Chat, tt.body, "")

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "Empty message", resp["error"])
			assert.Equal(t, "error", resp["status"])
		})
	}
}

func TestChat_MalformedBody(t *testing.T) {
	h := newTestHandler(t)

	rec := postChat(t, h.Chat, `{"message":`, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid request body", resp["error"])
}

func TestChat_OfflineGeneration(t *testing.T) {
	h := newTestHandler(t)

	rec := postChat(t, h.Chat, `{"message":"how do I grow rice"}`, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ChatResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, generation.OfflineMessage, resp.Response)
}

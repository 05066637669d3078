// Package generation provides the conversational generation backend client:
// prompt assembly, Gemini chat sessions, and reply post-processing.
package generation

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/agrisense-ai/agribot/internal/observability"
)

// Fixed user-facing strings for degraded states.
const (
	// OfflineMessage is returned when the backend never initialized.
	OfflineMessage = "I'm sorry, my AI capabilities are currently offline. Please try again later."
	// ConnectionApology is returned when a backend call fails.
	ConnectionApology = "I'm sorry, I'm having trouble connecting to my knowledge source right now. Please try again later."
)

// systemInstruction seeds every conversation.
const systemInstruction = `You are a friendly and knowledgeable Agriculture Assistant.
Your goal is to provide helpful, accurate, and concise information about farming,
crops, soil, pests, and weather.
When weather data is provided, analyze and explain it for the farmer.
Format answers clearly and use emojis where appropriate.`

// acknowledgement is the canned model turn confirming the instructions.
const acknowledgement = "Understood! I am ready to assist with any agriculture-related questions. 🌱"

// Conversation is one stateful exchange with the generation backend. Turns
// are append-only; Send adds the next user turn and returns the reply text.
type Conversation interface {
	Send(ctx context.Context, prompt string) (string, error)
}

// Backend opens conversations seeded with the assistant instructions.
type Backend interface {
	NewConversation(ctx context.Context) (Conversation, error)
}

// Client wraps the generation backend. A Client without a backend is in
// offline mode: every call short-circuits to OfflineMessage with no I/O.
type Client struct {
	backend Backend
	logger  *observability.Logger
}

// Config holds generation backend settings.
type Config struct {
	APIKey string
	Model  string
}

// NewClient creates a generation client. A missing API key or a failed
// backend initialization yields an offline client, never an error: the bot
// keeps serving with a fixed message.
func NewClient(ctx context.Context, logger *observability.Logger, cfg Config) *Client {
	log := logger.WithComponent("generation")

	if cfg.APIKey == "" {
		log.Warn().Msg("no API key configured, generation runs offline")
		return &Client{logger: log}
	}

	backend, err := newGeminiBackend(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		log.Error().Err(err).Msg("generation backend init failed, running offline")
		return &Client{logger: log}
	}

	log.Info().Str("model", cfg.Model).Msg("generation backend ready")
	return &Client{backend: backend, logger: log}
}

// NewClientWithBackend creates a client over a caller-supplied backend.
func NewClientWithBackend(logger *observability.Logger, backend Backend) *Client {
	return &Client{backend: backend, logger: logger.WithComponent("generation")}
}

// Online reports whether the backend initialized.
func (c *Client) Online() bool {
	return c.backend != nil
}

// Open starts a new seeded conversation. Returns nil in offline mode.
func (c *Client) Open(ctx context.Context) Conversation {
	if c.backend == nil {
		return nil
	}
	conv, err := c.backend.NewConversation(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("could not open conversation")
		return nil
	}
	return conv
}

// Respond submits the user text, with optional serialized context, as the
// next turn of conv and returns the post-processed reply. All failures
// collapse to fixed apology strings; nothing propagates.
func (c *Client) Respond(ctx context.Context, conv Conversation, userText string, contextData any) string {
	if c.backend == nil || conv == nil {
		return OfflineMessage
	}

	prompt := BuildPrompt(userText, contextData)
	reply, err := conv.Send(ctx, prompt)
	if err != nil {
		c.logger.Error().Err(err).Msg("generation call failed")
		return ConnectionApology
	}
	return UnwrapMarkdownFence(reply)
}

// geminiBackend implements Backend over the Gemini SDK.
type geminiBackend struct {
	client *genai.Client
	model  string
}

func newGeminiBackend(ctx context.Context, apiKey, model string) (*geminiBackend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &geminiBackend{client: client, model: model}, nil
}

// NewConversation opens a chat seeded with the instruction turn and its
// acknowledgement.
func (b *geminiBackend) NewConversation(ctx context.Context) (Conversation, error) {
	history := []*genai.Content{
		genai.NewContentFromText(systemInstruction, genai.RoleUser),
		genai.NewContentFromText(acknowledgement, genai.RoleModel),
	}
	chat, err := b.client.Chats.Create(ctx, b.model, nil, history)
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return &geminiConversation{chat: chat}, nil
}

type geminiConversation struct {
	chat *genai.Chat
}

func (g *geminiConversation) Send(ctx context.Context, prompt string) (string, error) {
	resp, err := g.chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return resp.Text(), nil
}

package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisense-ai/agribot/internal/observability"
)

type countingConv struct {
	sends int
	reply string
	err   error
}

func (c *countingConv) Send(context.Context, string) (string, error) {
	c.sends++
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

type countingBackend struct {
	conv   *countingConv
	opened int
	err    error
}

func (b *countingBackend) NewConversation(context.Context) (Conversation, error) {
	b.opened++
	if b.err != nil {
		return nil, b.err
	}
	return b.conv, nil
}

func TestNewClient_NoKeyRunsOffline(t *testing.T) {
	c := NewClient(context.Background(), observability.Nop(), Config{Model: "gemini-2.0-flash"})

	assert.False(t, c.Online())
	assert.Nil(t, c.Open(context.Background()))
	got := c.Respond(context.Background(), nil, "hello", nil)
	assert.Equal(t, OfflineMessage, got)
}

func TestRespond_OfflineNeverTouchesBackend(t *testing.T) {
	conv := &countingConv{reply: "unused"}
	c := NewClientWithBackend(observability.Nop(), &countingBackend{conv: conv})

	// A nil conversation short-circuits even with a live backend.
	got := c.Respond(context.Background(), nil, "hello", nil)

	assert.Equal(t, OfflineMessage, got)
	assert.Zero(t, conv.sends)
}

func TestRespond_Success(t *testing.T) {
	conv := &countingConv{reply: "```markdown\nPlant after the last frost.\n```"}
	backend := &countingBackend{conv: conv}
	c := NewClientWithBackend(observability.Nop(), backend)

	opened := c.Open(context.Background())
	require.NotNil(t, opened)
	assert.Equal(t, 1, backend.opened)

	got := c.Respond(context.Background(), opened, "when to plant corn", nil)

	assert.Equal(t, "Plant after the last frost.", got)
	assert.Equal(t, 1, conv.sends)
}

func TestRespond_SendFailure(t *testing.T) {
	conv := &countingConv{err: errors.New("rate limited")}
	c := NewClientWithBackend(observability.Nop(), &countingBackend{conv: conv})

	got := c.Respond(context.Background(), conv, "when to plant corn", nil)

	assert.Equal(t, ConnectionApology, got)
	assert.Equal(t, 1, conv.sends)
}

func TestOpen_BackendFailureReturnsNil(t *testing.T) {
	c := NewClientWithBackend(observability.Nop(), &countingBackend{err: errors.New("unreachable")})

	assert.True(t, c.Online())
	assert.Nil(t, c.Open(context.Background()))
}

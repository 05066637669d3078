package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisense-ai/agribot/internal/cache"
	"github.com/agrisense-ai/agribot/internal/observability"
)

func feedServer(t *testing.T, body string, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		assert.Equal(t, "/channels/777/feeds.json", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("results"))
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLatest(t *testing.T) {
	srv := feedServer(t, `{"feeds":[{"field1":"28.5","field2":"65","field3":"1013"}]}`, nil)
	c := NewClient(observability.Nop(), nil, Config{BaseURL: srv.URL, ChannelID: "777"})

	r, err := c.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Reading{Temperature: "28.5", Humidity: "65", Pressure: "1013"}, r)
}

func TestLatest_MissingPressureField(t *testing.T) {
	srv := feedServer(t, `{"feeds":[{"field1":"28.5","field2":"65"}]}`, nil)
	c := NewClient(observability.Nop(), nil, Config{BaseURL: srv.URL, ChannelID: "777"})

	r, err := c.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PressureUnavailable, r.Pressure)
}

func TestLatest_NotConfigured(t *testing.T) {
	c := NewClient(observability.Nop(), nil, Config{})

	_, err := c.Latest(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestLatest_EmptyFeed(t *testing.T) {
	srv := feedServer(t, `{"feeds":[]}`, nil)
	c := NewClient(observability.Nop(), nil, Config{BaseURL: srv.URL, ChannelID: "777"})

	_, err := c.Latest(context.Background())
	assert.ErrorContains(t, err, "empty")
}

func TestLatest_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	c := NewClient(observability.Nop(), nil, Config{BaseURL: srv.URL, ChannelID: "777"})

	_, err := c.Latest(context.Background())
	assert.ErrorContains(t, err, "502")
}

func TestLatest_MalformedBody(t *testing.T) {
	srv := feedServer(t, `{"feeds":`, nil)
	c := NewClient(observability.Nop(), nil, Config{BaseURL: srv.URL, ChannelID: "777"})

	_, err := c.Latest(context.Background())
	assert.ErrorContains(t, err, "decode feed")
}

func TestLatest_CacheShortCircuitsFetch(t *testing.T) {
	var hits atomic.Int64
	srv := feedServer(t, `{"feeds":[{"field1":"28.5","field2":"65","field3":"1013"}]}`, &hits)
	c := NewClient(observability.Nop(), cache.NewMemoryClient(16), Config{
		BaseURL:   srv.URL,
		ChannelID: "777",
		CacheTTL:  time.Minute,
	})

	first, err := c.Latest(context.Background())
	require.NoError(t, err)

	second, err := c.Latest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), hits.Load(), "second read must come from cache")
}

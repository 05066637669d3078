// Package weather provides the ThingSpeak sensor feed collaborator.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/agrisense-ai/agribot/internal/cache"
	"github.com/agrisense-ai/agribot/internal/observability"
)

// ErrNotConfigured indicates no feed channel is configured. This is a normal
// no-weather-available state, not a failure.
var ErrNotConfigured = errors.New("weather feed not configured")

// PressureUnavailable is the sentinel for a reading without a pressure field.
const PressureUnavailable = "N/A"

// Reading is the latest sensor reading. Values are kept as the feed reports
// them (strings); nothing downstream does arithmetic on them.
type Reading struct {
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
	Pressure    string `json:"pressure"`
}

// Client fetches the most recent reading from a ThingSpeak channel.
type Client struct {
	httpClient *http.Client
	logger     *observability.Logger
	cache      cache.Client
	baseURL    string
	channelID  string
	cacheTTL   time.Duration
}

// Config holds weather client settings.
type Config struct {
	BaseURL   string
	ChannelID string
	Timeout   time.Duration
	CacheTTL  time.Duration
}

// NewClient creates a weather client. Cache may be nil to disable caching.
func NewClient(logger *observability.Logger, c cache.Client, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.thingspeak.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.WithComponent("weather"),
		cache:      c,
		baseURL:    cfg.BaseURL,
		channelID:  cfg.ChannelID,
		cacheTTL:   cfg.CacheTTL,
	}
}

// feedDocument mirrors the ThingSpeak feeds.json response.
type feedDocument struct {
	Feeds []feedItem `json:"feeds"`
}

type feedItem struct {
	Field1 string `json:"field1"`
	Field2 string `json:"field2"`
	Field3 string `json:"field3"`
}

// Latest returns the most recent reading. ErrNotConfigured when no channel is
// set; any other error means the feed was unreachable, malformed, or empty.
func (c *Client) Latest(ctx context.Context) (*Reading, error) {
	if c.channelID == "" {
		return nil, ErrNotConfigured
	}

	if r := c.cached(ctx); r != nil {
		return r, nil
	}

	url := fmt.Sprintf("%s/channels/%s/feeds.json?results=1", c.baseURL, c.channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var doc feedDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	if len(doc.Feeds) == 0 {
		return nil, fmt.Errorf("feed is empty")
	}

	latest := doc.Feeds[0]
	reading := &Reading{
		Temperature: latest.Field1,
		Humidity:    latest.Field2,
		Pressure:    latest.Field3,
	}
	if reading.Pressure == "" {
		reading.Pressure = PressureUnavailable
	}

	c.store(ctx, reading)
	return reading, nil
}

func (c *Client) cacheKey() string {
	return "weather:" + c.channelID
}

func (c *Client) cached(ctx context.Context) *Reading {
	if c.cache == nil {
		return nil
	}
	data, err := c.cache.Get(ctx, c.cacheKey())
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Msg("weather cache read failed")
		}
		return nil
	}
	var r Reading
	if err := json.Unmarshal(data, &r); err != nil {
		c.logger.Warn().Err(err).Msg("corrupt cached weather reading")
		return nil
	}
	return &r
}

func (c *Client) store(ctx context.Context, r *Reading) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, c.cacheKey(), data, c.cacheTTL); err != nil {
		c.logger.Warn().Err(err).Msg("weather cache write failed")
	}
}

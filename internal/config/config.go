// Package config provides unified configuration loading for AgriBot.
// Supports YAML files, .env files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for AgriBot.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Generation    GenerationConfig    `yaml:"generation"`
	Weather       WeatherConfig       `yaml:"weather"`
	Knowledge     KnowledgeConfig     `yaml:"knowledge"`
	Sessions      SessionConfig       `yaml:"sessions"`
	Cache         CacheConfig         `yaml:"cache"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// GenerationConfig holds generation backend settings. An empty APIKey is a
// normal state: the bot runs in offline mode and answers with a fixed message.
type GenerationConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// WeatherConfig holds ThingSpeak feed settings. An empty ChannelID disables
// live weather augmentation.
type WeatherConfig struct {
	ChannelID string        `yaml:"channel_id"`
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// KnowledgeConfig holds knowledge data source settings. Both paths are
// optional; the built-in dataset is used when neither resolves.
type KnowledgeConfig struct {
	DataPath   string `yaml:"data_path"`
	SQLitePath string `yaml:"sqlite_path"`
}

// SessionConfig holds conversation session store settings.
type SessionConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	MaxSessions   int           `yaml:"max_sessions"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	Driver     string      `yaml:"driver"` // memory or redis
	MaxEntries int         `yaml:"max_entries"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from a YAML file and applies environment overrides.
// A missing path loads defaults plus environment only.
func Load(path string) (*Config, error) {
	// Load .env if present (ignore errors if not found)
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     60 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
		},
		Generation: GenerationConfig{
			Model: "gemini-2.0-flash",
		},
		Weather: WeatherConfig{
			BaseURL:  "https://api.thingspeak.com",
			Timeout:  10 * time.Second,
			CacheTTL: time.Minute,
		},
		Knowledge: KnowledgeConfig{
			DataPath: "data/crops_data.json",
		},
		Sessions: SessionConfig{
			TTL:           30 * time.Minute,
			MaxSessions:   1024,
			SweepInterval: time.Minute,
		},
		Cache: CacheConfig{
			Driver:     "memory",
			MaxEntries: 1024,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				DB:       0,
				PoolSize: 10,
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "json",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}
	if c.Generation.Model == "" {
		return fmt.Errorf("generation model must not be empty")
	}
	if c.Sessions.MaxSessions < 1 {
		return fmt.Errorf("invalid max sessions: %d", c.Sessions.MaxSessions)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.Generation.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Generation.Model = v
	}
	if v := os.Getenv("THINGSPEAK_WEATHER_CHANNEL"); v != "" {
		cfg.Weather.ChannelID = v
	}
	if v := os.Getenv("AGRIBOT_DATA_PATH"); v != "" {
		cfg.Knowledge.DataPath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hyperdrift-io/need-to-know/internal/cache"
	"github.com/hyperdrift-io/need-to-know/internal/model"
	"github.com/hyperdrift-io/need-to-know/internal/service"
	"github.com/hyperdrift-io/need-to-know/pkg/llm"
)

const defaultFrontendOrigin = "http://localhost:3000"

type Config struct {
	Port string

	Provider        string
	Model           string
	GrokAPIKey      string
	GrokAPIURL      string
	AnthropicAPIKey string

	RedisURL    string
	DatabaseURL string
	FrontendURL string
	TopicsFile  string

	CacheTTL         time.Duration
	UpstreamTimeout  time.Duration
	CoalesceRequests bool
	LogLevel         slog.Level
}

// Load reads configuration from the environment. Call godotenv.Load first to
// pick up a local .env file.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Provider:         strings.ToLower(getEnv("LLM_PROVIDER", llm.ProviderGrok)),
		Model:            os.Getenv("LLM_MODEL"),
		GrokAPIKey:       os.Getenv("GROK_API_KEY"),
		GrokAPIURL:       getEnv("GROK_API_URL", llm.DefaultGrokURL),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		RedisURL:         os.Getenv("REDIS_URL"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		FrontendURL:      os.Getenv("FRONTEND_URL"),
		TopicsFile:       os.Getenv("TOPICS_FILE"),
		CacheTTL:         cache.DefaultTTL,
		UpstreamTimeout:  service.DefaultUpstreamTimeout,
		CoalesceRequests: true,
		LogLevel:         slog.LevelInfo,
	}

	if cfg.Provider != llm.ProviderGrok && cfg.Provider != llm.ProviderAnthropic {
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q (valid: %s, %s)", cfg.Provider, llm.ProviderGrok, llm.ProviderAnthropic)
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			slog.Warn("invalid CACHE_TTL, using default", "value", v, "default", cache.DefaultTTL)
		} else {
			cfg.CacheTTL = d
		}
	}

	if v := os.Getenv("UPSTREAM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			slog.Warn("invalid UPSTREAM_TIMEOUT, using default", "value", v, "default", service.DefaultUpstreamTimeout)
		} else {
			cfg.UpstreamTimeout = d
		}
	}

	if v := os.Getenv("COALESCE_REQUESTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			slog.Warn("invalid COALESCE_REQUESTS, using default", "value", v, "default", true)
		} else {
			cfg.CoalesceRequests = b
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			slog.Warn("invalid LOG_LEVEL, using info", "value", v)
		}
	}

	return cfg, nil
}

// APIKey returns the credential for the configured provider.
func (c *Config) APIKey() string {
	if c.Provider == llm.ProviderAnthropic {
		return c.AnthropicAPIKey
	}
	return c.GrokAPIKey
}

// BaseURL returns the upstream endpoint override for the configured provider.
func (c *Config) BaseURL() string {
	if c.Provider == llm.ProviderAnthropic {
		return ""
	}
	return c.GrokAPIURL
}

// SourceLabel is the attribution used for articles the model left unattributed.
func (c *Config) SourceLabel() string {
	if c.Provider == llm.ProviderAnthropic {
		return "Claude"
	}
	return model.DefaultSourceLabel
}

func (c *Config) AllowedOrigins() []string {
	origins := []string{defaultFrontendOrigin}
	if c.FrontendURL != "" && c.FrontendURL != defaultFrontendOrigin {
		origins = append(origins, c.FrontendURL)
	}
	return origins
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

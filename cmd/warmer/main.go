// Command warmer refreshes the cached summary of every catalog topic so that
// readers are served from cache.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hyperdrift-io/need-to-know/internal/cache"
	"github.com/hyperdrift-io/need-to-know/internal/config"
	"github.com/hyperdrift-io/need-to-know/internal/service"
	"github.com/hyperdrift-io/need-to-know/internal/topics"
	"github.com/hyperdrift-io/need-to-know/pkg/llm"
	"github.com/joho/godotenv"
)

const perTopicTimeout = 2 * time.Minute

func main() {

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if cfg.RedisURL == "" {
		log.Fatalf("REDIS_URL must be set, an in-memory cache would be discarded on exit")
	}

	store, closeCache, err := cache.Open(context.Background(), cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer closeCache()

	completer, err := llm.New(cfg.Provider, cfg.APIKey(), cfg.BaseURL(), cfg.Model)
	if err != nil {
		log.Fatalf("error configuring LLM client: %v", err)
	}
	if completer == nil {
		slog.Error("no API key configured for provider", "provider", cfg.Provider)
		return
	}

	catalog, err := topics.Load(cfg.TopicsFile)
	if err != nil {
		log.Fatalf("error loading topics: %v", err)
	}

	// Topics are warmed one at a time, so each fetch runs under its own
	// per-topic deadline instead of a shared flight.
	newsService := service.NewNewsService(store, completer,
		service.WithTTL(cfg.CacheTTL),
		service.WithUpstreamTimeout(cfg.UpstreamTimeout),
		service.WithSourceLabel(cfg.SourceLabel()),
		service.WithCoalescing(false),
	)

	var warmed, errors int

	for _, topic := range catalog.Values() {
		ctx, cancel := context.WithTimeout(context.Background(), perTopicTimeout)
		summary, err := newsService.FetchSummary(ctx, service.ArticleRequest{
			Topic:        topic,
			Count:        service.DefaultArticleCount,
			ForceRefetch: true,
		})
		cancel()

		if err != nil {
			slog.Error("error warming topic", "topic", topic, "error", err)
			errors++
			continue
		}

		slog.Info("topic warmed", "topic", topic, "articles", len(summary.Articles), "article_count", summary.ArticleCount)
		warmed++
	}

	slog.Info("warm complete", "provider", completer.Name(), "warmed", warmed, "errors", errors)
}

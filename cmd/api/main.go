package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hyperdrift-io/need-to-know/db"
	"github.com/hyperdrift-io/need-to-know/internal/cache"
	"github.com/hyperdrift-io/need-to-know/internal/config"
	"github.com/hyperdrift-io/need-to-know/internal/handler"
	"github.com/hyperdrift-io/need-to-know/internal/repository"
	"github.com/hyperdrift-io/need-to-know/internal/service"
	"github.com/hyperdrift-io/need-to-know/internal/topics"
	"github.com/hyperdrift-io/need-to-know/pkg/llm"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	store, closeCache, err := cache.Open(context.Background(), cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		log.Fatalf("error connecting to cache: %v", err)
	}
	defer closeCache()

	completer, err := llm.New(cfg.Provider, cfg.APIKey(), cfg.BaseURL(), cfg.Model)
	if err != nil {
		log.Fatalf("error configuring LLM client: %v", err)
	}
	if completer == nil {
		slog.Warn("no API key configured for provider, uncached requests will fail", "provider", cfg.Provider)
	}

	catalog, err := topics.Load(cfg.TopicsFile)
	if err != nil {
		log.Fatalf("error loading topics: %v", err)
	}

	var profiles handler.ProfileStore
	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("error connecting to DB: %v", err)
		}
		defer conn.Close()
		profiles = repository.NewProfileRepository(conn)
	} else {
		slog.Warn("DATABASE_URL not set, premium topics are disabled")
	}

	newsService := service.NewNewsService(store, completer,
		service.WithTTL(cfg.CacheTTL),
		service.WithUpstreamTimeout(cfg.UpstreamTimeout),
		service.WithSourceLabel(cfg.SourceLabel()),
		service.WithCoalescing(cfg.CoalesceRequests),
	)
	newsHandler := handler.NewNewsHandler(newsService)
	topicHandler := handler.NewTopicHandler(catalog, profiles)

	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestID(), handler.AccessLog())

	allowedOrigins := cfg.AllowedOrigins()
	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-User-ID", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
	}))

	r.GET("/news", newsHandler.GetNews)
	r.GET("/topics", topicHandler.GetTopics)
	r.GET("/health", handler.GetHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	err = r.Run(":" + cfg.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

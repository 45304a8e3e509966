package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hyperdrift-io/need-to-know/internal/model"
	"github.com/hyperdrift-io/need-to-know/internal/service"
)

type SummaryFetcher interface {
	FetchSummary(ctx context.Context, req service.ArticleRequest) (*model.NewsSummaryResult, error)
}

type NewsHandler struct {
	fetcher SummaryFetcher
}

func NewNewsHandler(fetcher SummaryFetcher) *NewsHandler {
	return &NewsHandler{fetcher: fetcher}
}

func (h *NewsHandler) GetNews(c *gin.Context) {
	topic := c.Query("topic")
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topic parameter is required"})
		return
	}

	count := getQueryInt("count", service.DefaultArticleCount, c)
	if count < 1 {
		slog.Warn("invalid query parameter, using default", "param", "count", "value", count, "default", service.DefaultArticleCount)
		count = service.DefaultArticleCount
	}

	summary, err := h.fetcher.FetchSummary(c.Request.Context(), service.ArticleRequest{
		Topic:        topic,
		Count:        count,
		ForceRefetch: c.Query("refetch") == "true",
	})
	if errors.Is(err, service.ErrTopicRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topic parameter is required"})
		return
	}
	if err != nil {
		slog.Error("error fetching news", "topic", topic, "count", count, "request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch news summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	param := c.Query(name)

	if param == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(param)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", param, "error", err)
		return defaultValue
	}

	return parsedValue
}

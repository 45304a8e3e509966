package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hyperdrift-io/need-to-know/internal/model"
	"github.com/hyperdrift-io/need-to-know/internal/topics"
)

const userIDHeader = "X-User-ID"

type ProfileStore interface {
	GetProfile(id string) (*model.Profile, error)
}

type TopicHandler struct {
	catalog  *topics.Catalog
	profiles ProfileStore
}

// NewTopicHandler serves the topic catalog. profiles may be nil, in which
// case every caller sees the free topics only.
func NewTopicHandler(catalog *topics.Catalog, profiles ProfileStore) *TopicHandler {
	return &TopicHandler{catalog: catalog, profiles: profiles}
}

type TopicsResponse struct {
	Topics  []topics.Topic `json:"topics"`
	Premium bool           `json:"premium"`
}

func (h *TopicHandler) GetTopics(c *gin.Context) {
	premium := h.isPremium(c)
	c.JSON(http.StatusOK, TopicsResponse{
		Topics:  h.catalog.Available(premium),
		Premium: premium,
	})
}

func (h *TopicHandler) isPremium(c *gin.Context) bool {
	userID := c.GetHeader(userIDHeader)
	if h.profiles == nil || userID == "" {
		return false
	}

	profile, err := h.profiles.GetProfile(userID)
	if err != nil {
		slog.Error("error fetching profile, serving free topics", "user_id", userID, "error", err)
		return false
	}
	return profile.Premium()
}

func GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Package service implements the cache-or-fetch pipeline that turns a topic
// into a normalized news summary.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/hyperdrift-io/need-to-know/internal/cache"
	"github.com/hyperdrift-io/need-to-know/internal/metrics"
	"github.com/hyperdrift-io/need-to-know/internal/model"
	"github.com/hyperdrift-io/need-to-know/pkg/llm"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultArticleCount = 5

	// DefaultUpstreamTimeout bounds a single upstream completion, including
	// one shared by coalesced callers.
	DefaultUpstreamTimeout = 90 * time.Second
)

var (
	ErrTopicRequired = errors.New("topic parameter is required")
	ErrConfiguration = errors.New("upstream API key is not configured")
	ErrFormat        = llm.ErrFormat
)

type ArticleRequest struct {
	Topic        string
	Count        int
	ForceRefetch bool
}

// CacheKey is shared by every reader and writer of a (topic, count) summary.
func CacheKey(topic string, count int) string {
	return fmt.Sprintf("news:%s:count:%d", topic, count)
}

type NewsService struct {
	cache       cache.Store
	completer   llm.Completer
	logger      *slog.Logger
	ttl         time.Duration
	timeout     time.Duration
	sourceLabel string
	coalesce    bool
	group       singleflight.Group
	now         func() time.Time
	intn        func(n int) int
}

type Option func(*NewsService)

func WithLogger(logger *slog.Logger) Option {
	return func(s *NewsService) { s.logger = logger }
}

// WithTTL sets how long fetched summaries stay cached. Non-positive values
// are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(s *NewsService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithUpstreamTimeout caps how long one upstream completion may run.
// Non-positive values are ignored.
func WithUpstreamTimeout(timeout time.Duration) Option {
	return func(s *NewsService) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithSourceLabel sets the source reported for articles the model did not
// attribute.
func WithSourceLabel(label string) Option {
	return func(s *NewsService) { s.sourceLabel = label }
}

// WithCoalescing collapses concurrent fetches for the same cache key into a
// single upstream call.
func WithCoalescing(enabled bool) Option {
	return func(s *NewsService) { s.coalesce = enabled }
}

func WithClock(now func() time.Time) Option {
	return func(s *NewsService) { s.now = now }
}

// WithRandom replaces the source of fallback impact scores. intn must return
// a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(s *NewsService) { s.intn = intn }
}

// NewNewsService returns a service backed by store. A nil completer is
// allowed: cached summaries are still served, and every miss fails with
// ErrConfiguration.
func NewNewsService(store cache.Store, completer llm.Completer, opts ...Option) *NewsService {
	s := &NewsService{
		cache:       store,
		completer:   completer,
		logger:      slog.Default(),
		ttl:         cache.DefaultTTL,
		timeout:     DefaultUpstreamTimeout,
		sourceLabel: model.DefaultSourceLabel,
		coalesce:    true,
		now:         time.Now,
		intn:        rand.Intn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *NewsService) FetchSummary(ctx context.Context, req ArticleRequest) (*model.NewsSummaryResult, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, ErrTopicRequired
	}

	count := req.Count
	if count <= 0 {
		count = DefaultArticleCount
	}

	key := CacheKey(req.Topic, count)

	if !req.ForceRefetch {
		if cached, ok := s.lookup(ctx, key); ok {
			s.logger.Info("returning cached news summary", "topic", req.Topic, "count", count)
			return cached, nil
		}
	}

	if !s.coalesce {
		return s.refresh(ctx, req.Topic, count, key)
	}

	// The shared call outlives any single caller so that an abandoned request
	// does not fail the others waiting on the same key. Forced and unforced
	// requests share a flight: either way the result is freshly fetched.
	ch := s.group.DoChan(key, func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx), req.Topic, count, key)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.NewsSummaryResult), nil
	}
}

func (s *NewsService) lookup(ctx context.Context, key string) (*model.NewsSummaryResult, bool) {
	value, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache lookup failed, fetching from upstream", "key", key, "error", err)
		metrics.RecordCacheLookup("error")
		return nil, false
	}
	if !ok {
		metrics.RecordCacheLookup("miss")
		return nil, false
	}

	var result model.NewsSummaryResult
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		s.logger.Warn("discarding unreadable cache entry", "key", key, "error", err)
		metrics.RecordCacheLookup("error")
		return nil, false
	}

	metrics.RecordCacheLookup("hit")
	return &result, true
}

func (s *NewsService) refresh(ctx context.Context, topic string, count int, key string) (*model.NewsSummaryResult, error) {
	if s.completer == nil {
		metrics.RecordFetchError("configuration")
		return nil, ErrConfiguration
	}

	provider := s.completer.Name()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	content, err := s.completer.Complete(ctx, llm.CompletionRequest{
		System:      systemPrompt,
		Prompt:      buildPrompt(topic, count),
		Temperature: temperature,
		MaxTokens:   maxTokens,
		JSONMode:    true,
	})
	if err != nil {
		kind := errorKind(err)
		metrics.RecordUpstream(provider, kind, time.Since(start))
		metrics.RecordFetchError(kind)
		s.logger.Error("upstream completion failed", "provider", provider, "topic", topic, "error", err)
		return nil, fmt.Errorf("fetching %q from %s: %w", topic, provider, err)
	}
	metrics.RecordUpstream(provider, "ok", time.Since(start))

	var env rawEnvelope
	repaired, err := llm.DecodeJSON(content, &env)
	if err != nil {
		metrics.RecordFetchError("format")
		s.logger.Error("failed to parse completion content", "provider", provider, "topic", topic, "content", content, "error", err)
		return nil, fmt.Errorf("parsing %s response for %q: %w", provider, topic, err)
	}
	if repaired {
		metrics.JSONRepairs.Inc()
		s.logger.Warn("repaired malformed completion JSON", "provider", provider, "topic", topic)
	}

	result, err := s.shape(env, topic, count)
	if err != nil {
		metrics.RecordFetchError("format")
		s.logger.Error("failed to shape completion content", "provider", provider, "topic", topic, "error", err)
		return nil, fmt.Errorf("shaping %s response for %q: %w", provider, topic, err)
	}

	s.store(ctx, key, result)
	return result, nil
}

func (s *NewsService) store(ctx context.Context, key string, result *model.NewsSummaryResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		metrics.CacheWriteErrors.Inc()
		s.logger.Error("failed to encode news summary for cache", "key", key, "error", err)
		return
	}

	if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
		metrics.CacheWriteErrors.Inc()
		s.logger.Error("failed to cache news summary", "key", key, "error", err)
	}
}

func errorKind(err error) string {
	var upstreamErr *llm.UpstreamError
	switch {
	case errors.As(err, &upstreamErr):
		return "upstream"
	case errors.Is(err, llm.ErrFormat):
		return "format"
	default:
		return "transport"
	}
}

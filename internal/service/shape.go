package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hyperdrift-io/need-to-know/internal/model"
	"github.com/hyperdrift-io/need-to-know/pkg/llm"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type rawEnvelope struct {
	Articles json.RawMessage `json:"articles"`
}

// rawArticle keeps every field of a model article undecoded so that a field
// of an unexpected shape can be treated as absent instead of failing the
// whole response.
type rawArticle map[string]json.RawMessage

func (s *NewsService) shape(env rawEnvelope, topic string, count int) (*model.NewsSummaryResult, error) {
	var raws []rawArticle
	if len(env.Articles) > 0 && !bytes.Equal(bytes.TrimSpace(env.Articles), []byte("null")) {
		if err := json.Unmarshal(env.Articles, &raws); err != nil {
			return nil, fmt.Errorf("%w: articles: %v", llm.ErrFormat, err)
		}
	}

	now := s.now().UTC().Format(isoMillis)

	articles := make([]model.NormalizedArticle, 0, len(raws))
	for i, raw := range raws {
		articles = append(articles, s.normalize(raw, topic, i, now))
	}

	articleCount := strconv.Itoa(len(raws))
	if len(raws) > count {
		articleCount = ">" + strconv.Itoa(count)
	}

	return &model.NewsSummaryResult{
		Topic:        topic,
		LastUpdated:  now,
		Articles:     articles,
		ArticleCount: articleCount,
	}, nil
}

func (s *NewsService) normalize(raw rawArticle, topic string, index int, now string) model.NormalizedArticle {
	metaSource, originLink := raw.meta()

	source := firstNonEmpty(metaSource, raw.str("source"), s.sourceLabel)

	date := raw.str("published_date", "date")
	if !isISODate(date) {
		date = now
	}

	return model.NormalizedArticle{
		ID:             fmt.Sprintf("%s-%d", topic, index),
		Title:          raw.str("title"),
		Summary:        raw.str("summary"),
		ImpactScore:    s.impactScore(raw),
		Date:           date,
		IsTrending:     raw.flag("isTrending") || index == 0,
		Source:         source,
		PremiumMetrics: raw.metrics(),
		Meta: model.ArticleMeta{
			Source:     source,
			OriginLink: originLink,
		},
	}
}

// impactScore uses the model's importance when present and non-zero and
// otherwise draws from the injected random source.
func (s *NewsService) impactScore(raw rawArticle) int {
	v, ok := raw.num("importance", "impactScore")
	if !ok || v == 0 {
		return model.MinImpactScore + s.intn(model.MaxImpactScore)
	}
	return roundClamp(v, model.MinImpactScore, model.MaxImpactScore)
}

func (a rawArticle) str(keys ...string) string {
	for _, key := range keys {
		var v string
		if err := json.Unmarshal(a[key], &v); err == nil && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (a rawArticle) num(keys ...string) (float64, bool) {
	for _, key := range keys {
		if v, ok := parseNumber(a[key]); ok {
			return v, true
		}
	}
	return 0, false
}

func (a rawArticle) flag(key string) bool {
	var v bool
	if err := json.Unmarshal(a[key], &v); err != nil {
		return false
	}
	return v
}

func (a rawArticle) meta() (source, originLink string) {
	var m rawArticle
	if err := json.Unmarshal(a["meta"], &m); err != nil {
		return "", ""
	}
	return m.str("source"), m.str("originLink", "origin_link")
}

// metrics accepts premium metrics either as a list of {name, score, note}
// or as an object keyed by metric name, preserving the model's order.
func (a rawArticle) metrics() []model.PremiumMetric {
	out := []model.PremiumMetric{}

	raw := bytes.TrimSpace(a["premiumMetrics"])
	if len(raw) == 0 {
		return out
	}

	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return out
		}
		for _, item := range items {
			if m, ok := parseMetric("", item); ok {
				out = append(out, m)
			}
		}
	case '{':
		dec := json.NewDecoder(bytes.NewReader(raw))
		if _, err := dec.Token(); err != nil {
			return out
		}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return out
			}
			name, _ := tok.(string)

			var item json.RawMessage
			if err := dec.Decode(&item); err != nil {
				return out
			}
			if m, ok := parseMetric(name, item); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

func parseMetric(name string, raw json.RawMessage) (model.PremiumMetric, bool) {
	if score, ok := parseNumber(raw); ok {
		return model.PremiumMetric{Name: name, Score: metricScore(score)}, true
	}

	var fields rawArticle
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return model.PremiumMetric{}, false
	}

	if n := fields.str("name"); n != "" {
		name = n
	}
	score, _ := fields.num("score")

	return model.PremiumMetric{
		Name:  name,
		Score: metricScore(score),
		Note:  fields.str("note"),
	}, true
}

func parseNumber(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func metricScore(v float64) int {
	return roundClamp(v, 0, model.MaxMetricScore)
}

func roundClamp(v float64, lo, hi int) int {
	return int(math.Max(float64(lo), math.Min(math.Round(v), float64(hi))))
}

// isISODate reports whether v is an RFC 3339 timestamp or a calendar date.
func isISODate(v string) bool {
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

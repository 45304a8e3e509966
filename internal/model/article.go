package model

const (
	DefaultSourceLabel = "Grok AI"
	MinImpactScore     = 1
	MaxImpactScore     = 10
	MaxMetricScore     = 100
)

type PremiumMetric struct {
	Name  string `json:"name,omitempty"`
	Score int    `json:"score"`
	Note  string `json:"note"`
}

type ArticleMeta struct {
	Source     string `json:"source"`
	OriginLink string `json:"originLink"`
}

// NormalizedArticle is the article shape served to the reader. ID is derived
// from the topic and the article's position, so it is only unique per summary.
type NormalizedArticle struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Summary        string          `json:"summary"`
	ImpactScore    int             `json:"impactScore"`
	Date           string          `json:"date"`
	IsTrending     bool            `json:"isTrending"`
	Source         string          `json:"source"`
	PremiumMetrics []PremiumMetric `json:"premiumMetrics"`
	Meta           ArticleMeta     `json:"meta"`
}

type NewsSummaryResult struct {
	Topic        string              `json:"topic"`
	LastUpdated  string              `json:"lastUpdated"`
	Articles     []NormalizedArticle `json:"articles"`
	ArticleCount string              `json:"articleCount"`
}

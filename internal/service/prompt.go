package service

import (
	"fmt"
	"strings"
)

const (
	systemPrompt = "You are an expert news analyst. Output only valid JSON."

	temperature = 0.3
	maxTokens   = 2000
)

// premiumDimensions is also the order premium metrics are reported in when
// the model returns them keyed by name.
var premiumDimensions = []string{
	"MarketRelevance",
	"SecurityImplications",
	"RegulatoryImpact",
	"InnovationScore",
	"AdoptionPotential",
}

const userPrompt = `Give the %d most important recent news in %s for professionals. For each article, provide: title, summary (1-2 sentences), importance (integer 1-10), published_date (ISO-8601), source, meta (source, originLink), and premiumMetrics as an object with keys: %s. Each premium metric has only: score (0-100), note (short string). Respond as compact JSON: {"articles": [...]}.`

func buildPrompt(topic string, count int) string {
	return fmt.Sprintf(userPrompt, count, topic, strings.Join(premiumDimensions, ", "))
}

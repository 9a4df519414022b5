package dto

import "time"

// IntelligenceResult is the JSON object a language model returns for one ticker.
type IntelligenceResult struct {
	Ticker    string `json:"ticker"`
	Headline  string `json:"headline"`
	Summary   string `json:"summary"`
	Sentiment string `json:"sentiment"`
	Category  string `json:"category"`
}

// NewsHeadline is one item from a news feed.
type NewsHeadline struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Link        string     `json:"link"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

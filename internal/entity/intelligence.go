package entity

import (
	"fmt"
	"strings"
	"time"
)

// Sentiment is the market sentiment attached to an intelligence record.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// ParseSentiment accepts any casing of the three sentiment values.
func ParseSentiment(s string) (Sentiment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return SentimentPositive, nil
	case "neutral":
		return SentimentNeutral, nil
	case "negative":
		return SentimentNegative, nil
	}
	return "", fmt.Errorf("unknown sentiment %q", s)
}

// IntelligenceRecord is a generated news/sentiment entry for one ticker.
type IntelligenceRecord struct {
	Ticker    string    `json:"ticker"`
	Headline  string    `json:"headline"`
	Summary   string    `json:"summary"`
	Sentiment Sentiment `json:"sentiment"`
	Category  string    `json:"category"`
}

// DailyIntelligence is the row appended to the daily intelligence table.
type DailyIntelligence struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	Ticker         string    `gorm:"type:varchar(50);not null" json:"ticker"`
	Headline       string    `gorm:"type:text" json:"headline"`
	Summary        string    `gorm:"type:text" json:"summary"`
	SentimentScore Sentiment `gorm:"type:varchar(20)" json:"sentiment_score"`
	Category       string    `gorm:"type:varchar(50)" json:"category"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for the DailyIntelligence model.
func (DailyIntelligence) TableName() string {
	return "daily_intelligence"
}

// NewDailyIntelligence maps a generated record to its persisted form.
func NewDailyIntelligence(record IntelligenceRecord, createdAt time.Time) *DailyIntelligence {
	return &DailyIntelligence{
		Ticker:         record.Ticker,
		Headline:       record.Headline,
		Summary:        record.Summary,
		SentimentScore: record.Sentiment,
		Category:       record.Category,
		CreatedAt:      createdAt,
	}
}

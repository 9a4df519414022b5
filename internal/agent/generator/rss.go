package generator

import (
	"context"
	"fmt"

	"portfolio-intelligence/internal/agent/repository"
	"portfolio-intelligence/internal/entity"
	"portfolio-intelligence/pkg/logger"
)

const categoryNews = "News"

// RSSGenerator turns the newest feed headline of each ticker into a Neutral record.
type RSSGenerator struct {
	logger   *logger.Logger
	newsRepo repository.NewsRepository
}

// NewRSSGenerator creates a new RSSGenerator.
func NewRSSGenerator(log *logger.Logger, newsRepo repository.NewsRepository) Generator {
	return &RSSGenerator{logger: log, newsRepo: newsRepo}
}

func (g *RSSGenerator) GetType() Type {
	return TypeRSS
}

func (g *RSSGenerator) Generate(ctx context.Context, assets []entity.Asset) ([]entity.IntelligenceRecord, error) {
	var records []entity.IntelligenceRecord
	for _, ticker := range entity.UniqueTickers(assets) {
		headlines, err := g.newsRepo.LatestNews(ctx, ticker)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch news for %s: %w", ticker, err)
		}
		if len(headlines) == 0 {
			g.logger.Info("No news found", logger.StringField("ticker", ticker))
			continue
		}

		top := headlines[0]
		records = append(records, entity.IntelligenceRecord{
			Ticker:    ticker,
			Headline:  top.Title,
			Summary:   top.Description,
			Sentiment: entity.SentimentNeutral,
			Category:  categoryNews,
		})
	}
	return records, nil
}

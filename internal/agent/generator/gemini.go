package generator

import (
	"context"
	"fmt"

	"portfolio-intelligence/internal/agent/dto"
	"portfolio-intelligence/internal/agent/repository"
	"portfolio-intelligence/internal/entity"
	"portfolio-intelligence/pkg/logger"
)

// GeminiGenerator asks the AI repository for one record per distinct ticker, in portfolio order.
// When newsRepo is set the prompt is grounded on the ticker's recent headlines.
type GeminiGenerator struct {
	logger   *logger.Logger
	aiRepo   repository.AIRepository
	newsRepo repository.NewsRepository
}

// NewGeminiGenerator creates a new GeminiGenerator. newsRepo may be nil.
func NewGeminiGenerator(log *logger.Logger, aiRepo repository.AIRepository, newsRepo repository.NewsRepository) Generator {
	return &GeminiGenerator{logger: log, aiRepo: aiRepo, newsRepo: newsRepo}
}

func (g *GeminiGenerator) GetType() Type {
	return TypeGemini
}

func (g *GeminiGenerator) Generate(ctx context.Context, assets []entity.Asset) ([]entity.IntelligenceRecord, error) {
	tickers := entity.UniqueTickers(assets)
	records := make([]entity.IntelligenceRecord, 0, len(tickers))

	for _, ticker := range tickers {
		var headlines []dto.NewsHeadline
		if g.newsRepo != nil {
			var err error
			headlines, err = g.newsRepo.LatestNews(ctx, ticker)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch news for %s: %w", ticker, err)
			}
		}

		result, err := g.aiRepo.GenerateIntelligence(ctx, ticker, headlines)
		if err != nil {
			return nil, fmt.Errorf("failed to generate intelligence for %s: %w", ticker, err)
		}

		sentiment, err := entity.ParseSentiment(result.Sentiment)
		if err != nil {
			return nil, fmt.Errorf("invalid intelligence for %s: %w", ticker, err)
		}

		g.logger.Info("Generated intelligence", logger.StringField("ticker", ticker), logger.StringField("sentiment", string(sentiment)))
		records = append(records, entity.IntelligenceRecord{
			Ticker:    ticker,
			Headline:  result.Headline,
			Summary:   result.Summary,
			Sentiment: sentiment,
			Category:  result.Category,
		})
	}
	return records, nil
}

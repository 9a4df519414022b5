package repository

import (
	"context"
	"time"

	"portfolio-intelligence/internal/agent/dto"
	"portfolio-intelligence/internal/entity"
)

// PortfolioRepository reads the tracked assets.
type PortfolioRepository interface {
	FetchAll(ctx context.Context) ([]entity.Asset, error)
}

// IntelligenceRepository appends generated intelligence rows.
type IntelligenceRepository interface {
	Insert(ctx context.Context, row *entity.DailyIntelligence) error
}

// AIRepository asks a language model for the intelligence entry of one ticker.
type AIRepository interface {
	GenerateIntelligence(ctx context.Context, ticker string, headlines []dto.NewsHeadline) (*dto.IntelligenceResult, error)
}

// NewsRepository returns recent headlines for a ticker, newest first.
type NewsRepository interface {
	LatestNews(ctx context.Context, ticker string) ([]dto.NewsHeadline, error)
}

// DedupRepository guards against writing the same ticker twice on the same day.
type DedupRepository interface {
	Claim(ctx context.Context, ticker string, day time.Time) (bool, error)
	Release(ctx context.Context, ticker string, day time.Time) error
}

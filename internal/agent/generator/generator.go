package generator

import (
	"context"

	"portfolio-intelligence/internal/entity"
)

// Type names a generator implementation; it is the value of ai.provider.
type Type string

const (
	TypeStub   Type = "stub"
	TypeRSS    Type = "rss"
	TypeGemini Type = "gemini"
)

// Generator turns the tracked assets into intelligence records.
type Generator interface {
	Generate(ctx context.Context, assets []entity.Asset) ([]entity.IntelligenceRecord, error)
	GetType() Type
}

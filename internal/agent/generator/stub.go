package generator

import (
	"context"

	"portfolio-intelligence/internal/entity"
	"portfolio-intelligence/pkg/logger"
)

// StubGenerator returns the same two records on every run, whatever the portfolio holds.
// It exists to exercise the store round trip before a real provider is configured.
type StubGenerator struct {
	logger *logger.Logger
}

// NewStubGenerator creates a new StubGenerator.
func NewStubGenerator(log *logger.Logger) Generator {
	return &StubGenerator{logger: log}
}

func (g *StubGenerator) GetType() Type {
	return TypeStub
}

func (g *StubGenerator) Generate(ctx context.Context, assets []entity.Asset) ([]entity.IntelligenceRecord, error) {
	g.logger.Info("Generating stub intelligence", logger.StringsField("tickers", entity.Tickers(assets)))

	return []entity.IntelligenceRecord{
		{
			Ticker:    "NVDA",
			Headline:  "NVIDIA sube por demanda de chips H100",
			Summary:   "Analistas prevén un Q1 fuerte.",
			Sentiment: entity.SentimentPositive,
			Category:  "Market",
		},
		{
			Ticker:    "SPY",
			Headline:  "El S&P 500 espera datos de inflación",
			Summary:   "Mercado cauto ante anuncio de la FED.",
			Sentiment: entity.SentimentNeutral,
			Category:  "Macro",
		},
	}, nil
}

package service

import (
	"context"
	"time"

	"portfolio-intelligence/internal/agent/repository"
	"portfolio-intelligence/internal/entity"
	"portfolio-intelligence/pkg/logger"
)

// IntelligenceWriter persists generated records, one insert per record.
type IntelligenceWriter interface {
	// Write inserts records in order and stops at the first failure. It returns the
	// number of rows persisted before returning, and the number skipped by the dedup guard.
	Write(ctx context.Context, records []entity.IntelligenceRecord) (WriteResult, error)
}

// WriteResult counts what a Write call did.
type WriteResult struct {
	Saved   int
	Skipped int
	// Persisted holds the records that were inserted, in order.
	Persisted []entity.IntelligenceRecord
}

type intelligenceWriter struct {
	log       *logger.Logger
	repo      repository.IntelligenceRepository
	dedupRepo repository.DedupRepository
	now       func() time.Time
}

// NewIntelligenceWriter creates a writer. dedupRepo may be nil, which disables the guard.
func NewIntelligenceWriter(log *logger.Logger, repo repository.IntelligenceRepository, dedupRepo repository.DedupRepository, now func() time.Time) IntelligenceWriter {
	if now == nil {
		now = time.Now
	}
	return &intelligenceWriter{
		log:       log,
		repo:      repo,
		dedupRepo: dedupRepo,
		now:       now,
	}
}

func (w *intelligenceWriter) Write(ctx context.Context, records []entity.IntelligenceRecord) (WriteResult, error) {
	var result WriteResult

	for i, record := range records {
		createdAt := w.now()

		if w.dedupRepo != nil {
			claimed, err := w.dedupRepo.Claim(ctx, record.Ticker, createdAt)
			if err != nil {
				return result, err
			}
			if !claimed {
				w.log.Info("Intelligence already written today, skipping", logger.StringField("ticker", record.Ticker))
				result.Skipped++
				continue
			}
		}

		row := entity.NewDailyIntelligence(record, createdAt)
		if err := w.repo.Insert(ctx, row); err != nil {
			if w.dedupRepo != nil {
				if releaseErr := w.dedupRepo.Release(ctx, record.Ticker, createdAt); releaseErr != nil {
					w.log.Warn("Failed to release dedup claim", logger.StringField("ticker", record.Ticker), logger.ErrorField(releaseErr))
				}
			}
			w.log.Error("Failed to insert intelligence",
				logger.IntField("index", i),
				logger.StringField("ticker", record.Ticker),
				logger.ErrorField(err))
			return result, err
		}

		w.log.Debug("Intelligence inserted", logger.StringField("ticker", record.Ticker))
		result.Saved++
		result.Persisted = append(result.Persisted, record)
	}

	return result, nil
}

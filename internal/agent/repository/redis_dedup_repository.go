package repository

import (
	"context"
	"fmt"
	"time"

	"portfolio-intelligence/pkg/common"
	"portfolio-intelligence/pkg/utils"

	"github.com/redis/go-redis/v9"
)

type redisDedupRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDedupRepository keeps one claim key per ticker and day, expiring after ttl.
func NewRedisDedupRepository(client *redis.Client, ttl time.Duration) DedupRepository {
	return &redisDedupRepository{client: client, ttl: ttl}
}

// Claim returns false when the ticker was already claimed for day.
func (r *redisDedupRepository) Claim(ctx context.Context, ticker string, day time.Time) (bool, error) {
	ok, err := r.client.SetNX(ctx, ClaimKey(ticker, day), day.Format(time.RFC3339), r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim %s: %w", ticker, err)
	}
	return ok, nil
}

// Release drops the claim so a later run may write the ticker again.
func (r *redisDedupRepository) Release(ctx context.Context, ticker string, day time.Time) error {
	if err := r.client.Del(ctx, ClaimKey(ticker, day)).Err(); err != nil {
		return fmt.Errorf("failed to release claim for %s: %w", ticker, err)
	}
	return nil
}

// ClaimKey is the dedup key for ticker on day, e.g. intel:NVDA:2026-10-17.
func ClaimKey(ticker string, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s", common.RedisKeyIntelligenceClaim, ticker, utils.DayKey(day))
}

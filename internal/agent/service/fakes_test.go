package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio-intelligence/internal/agent/generator"
	"portfolio-intelligence/internal/entity"
	"portfolio-intelligence/pkg/apperror"
	"portfolio-intelligence/pkg/common"
	"portfolio-intelligence/pkg/metrics"
)

// fakeStore is an in-memory table store serving both repositories.
type fakeStore struct {
	assets    []entity.Asset
	assetRows []map[string]interface{} // converted like the real repositories when set
	readErr   error
	failAt    int // 1-based insert attempt that fails; 0 never fails
	attempts  int
	rows      []entity.DailyIntelligence
	reads     int
}

func (f *fakeStore) FetchAll(ctx context.Context) ([]entity.Asset, error) {
	f.reads++
	if f.readErr != nil {
		return nil, apperror.NewStoreAccessError(common.StoreOpSelect, common.TablePortfolioAssets, f.readErr)
	}
	if f.assetRows != nil {
		assets, err := entity.NewAssetsFromRows(f.assetRows)
		if err != nil {
			return nil, apperror.NewStoreAccessError(common.StoreOpSelect, common.TablePortfolioAssets, err)
		}
		return assets, nil
	}
	return f.assets, nil
}

func (f *fakeStore) Insert(ctx context.Context, row *entity.DailyIntelligence) error {
	f.attempts++
	if f.failAt > 0 && f.attempts == f.failAt {
		return apperror.NewStoreAccessError(common.StoreOpInsert, common.TableDailyIntelligence, errors.New("connection reset"))
	}
	f.rows = append(f.rows, *row)
	return nil
}

type fakeGenerator struct {
	records []entity.IntelligenceRecord
	err     error
}

func (g *fakeGenerator) Generate(ctx context.Context, assets []entity.Asset) ([]entity.IntelligenceRecord, error) {
	return g.records, g.err
}

func (g *fakeGenerator) GetType() generator.Type {
	return "fake"
}

type fakeDedup struct {
	claimed  map[string]bool
	released []string
}

func newFakeDedup(preclaimed ...string) *fakeDedup {
	d := &fakeDedup{claimed: map[string]bool{}}
	for _, t := range preclaimed {
		d.claimed[t] = true
	}
	return d
}

func (d *fakeDedup) Claim(ctx context.Context, ticker string, day time.Time) (bool, error) {
	if d.claimed[ticker] {
		return false, nil
	}
	d.claimed[ticker] = true
	return true, nil
}

func (d *fakeDedup) Release(ctx context.Context, ticker string, day time.Time) error {
	delete(d.claimed, ticker)
	d.released = append(d.released, ticker)
	return nil
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (n *fakeNotifier) SendMessage(text string) error {
	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, text)
	return nil
}

type fakePusher struct {
	pushed []metrics.RunMetrics
}

func (p *fakePusher) Push(m metrics.RunMetrics) error {
	p.pushed = append(p.pushed, m)
	return nil
}

// tickingClock returns a clock advancing one second per call.
func tickingClock(start time.Time) func() time.Time {
	calls := 0
	return func() time.Time {
		t := start.Add(time.Duration(calls) * time.Second)
		calls++
		return t
	}
}

func assets(tickers ...string) []entity.Asset {
	out := make([]entity.Asset, 0, len(tickers))
	for _, t := range tickers {
		out = append(out, entity.Asset{
			Ticker:     t,
			Attributes: map[string]interface{}{"ticker": t, "name": fmt.Sprintf("%s Inc", t)},
		})
	}
	return out
}

package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-intelligence/internal/agent/generator"
	"portfolio-intelligence/internal/entity"
	"portfolio-intelligence/pkg/apperror"
	"portfolio-intelligence/pkg/logger"
)

func newStubPipeline(store *fakeStore, now func() time.Time, opts ...Option) (AgentService, *bytes.Buffer) {
	var out bytes.Buffer
	log := logger.NewNop()
	writer := NewIntelligenceWriter(log, store, nil, now)
	opts = append(opts, WithClock(now))
	return NewAgentService(log, &out, store, generator.NewStubGenerator(log), writer, opts...), &out
}

func TestRun_PortfolioOfTwo(t *testing.T) {
	store := &fakeStore{assets: assets("NVDA", "SPY")}
	svc, out := newStubPipeline(store, time.Now)

	report := svc.Run(context.Background())

	require.NoError(t, report.Err)
	assert.Equal(t, StateDone, report.State)
	assert.True(t, report.Succeeded())
	assert.Equal(t, 2, store.attempts)
	assert.Equal(t, 2, report.Generated)
	assert.Equal(t, 2, report.Saved)
	assert.Equal(t, []string{"NVDA", "SPY"}, report.Tickers)
	assert.NotEmpty(t, report.RunID)

	assert.Equal(t,
		"🤖 Buscando noticias para: [NVDA, SPY]\n✅ Guardadas 2 noticias en Supabase.\n",
		out.String())
}

func TestRun_EmptyPortfolioStillWritesTwo(t *testing.T) {
	store := &fakeStore{}
	svc, out := newStubPipeline(store, time.Now)

	report := svc.Run(context.Background())

	assert.Equal(t, StateDone, report.State)
	assert.Equal(t, 2, store.attempts)
	require.Len(t, store.rows, 2)
	assert.Equal(t, "NVDA", store.rows[0].Ticker)
	assert.Equal(t, "SPY", store.rows[1].Ticker)
	assert.Contains(t, out.String(), "🤖 Buscando noticias para: []\n")
	assert.Contains(t, out.String(), "Guardadas 2 noticias en Supabase.")
}

func TestRun_CreatedAtWithinRun(t *testing.T) {
	store := &fakeStore{assets: assets("NVDA")}
	svc, _ := newStubPipeline(store, tickingClock(time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC)))

	report := svc.Run(context.Background())
	require.Equal(t, StateDone, report.State)

	require.Len(t, store.rows, 2)
	for _, row := range store.rows {
		assert.False(t, row.CreatedAt.Before(report.StartedAt), "created_at before run start")
		assert.False(t, row.CreatedAt.After(report.FinishedAt), "created_at after run end")

		_, err := time.Parse(time.RFC3339Nano, row.CreatedAt.Format(time.RFC3339Nano))
		assert.NoError(t, err)
	}
}

func TestRun_ReadFailureWritesNothing(t *testing.T) {
	store := &fakeStore{readErr: errors.New("invalid api key")}
	svc, out := newStubPipeline(store, time.Now)

	report := svc.Run(context.Background())

	assert.Equal(t, StateFailed, report.State)
	assert.Zero(t, store.attempts)
	assert.Zero(t, report.Generated)

	var storeErr *apperror.StoreAccessError
	require.True(t, errors.As(report.Err, &storeErr))
	assert.Equal(t, "select", storeErr.Op)

	assert.Equal(t, "❌ Error: store select on portfolio_assets failed: invalid api key\n", out.String())
}

func TestRun_RowWithoutTickerWritesNothing(t *testing.T) {
	store := &fakeStore{assetRows: []map[string]interface{}{
		{"ticker": "NVDA"},
		{"name": "no ticker column"},
	}}
	svc, out := newStubPipeline(store, time.Now)

	report := svc.Run(context.Background())

	assert.Equal(t, StateFailed, report.State)
	assert.Zero(t, store.attempts)
	assert.Zero(t, report.Generated)
	assert.ErrorIs(t, report.Err, entity.ErrMissingTicker)

	var storeErr *apperror.StoreAccessError
	require.True(t, errors.As(report.Err, &storeErr))
	assert.Equal(t, "select", storeErr.Op)

	assert.True(t, strings.HasPrefix(out.String(), "❌ Error: "))
	assert.NotContains(t, out.String(), "Buscando")
	assert.NotContains(t, out.String(), "Guardadas")
}

func TestRun_WriteFailureKeepsPrefix(t *testing.T) {
	store := &fakeStore{assets: assets("NVDA", "SPY"), failAt: 2}
	svc, out := newStubPipeline(store, time.Now)

	report := svc.Run(context.Background())

	assert.Equal(t, StateFailed, report.State)
	assert.Equal(t, 1, report.Saved)
	assert.Len(t, store.rows, 1)
	assert.Equal(t, 2, store.attempts)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "❌ Error: "))
	assert.NotContains(t, out.String(), "Guardadas")
}

func TestRun_GeneratorFailure(t *testing.T) {
	store := &fakeStore{assets: assets("NVDA")}
	log := logger.NewNop()
	var out bytes.Buffer
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	svc := NewAgentService(log, &out, store, gen, NewIntelligenceWriter(log, store, nil, nil))

	report := svc.Run(context.Background())

	assert.Equal(t, StateFailed, report.State)
	assert.Zero(t, store.attempts)
	assert.Contains(t, out.String(), "❌ Error: failed to generate intelligence: quota exceeded")
}

func TestRun_TelegramDigestAndMetrics(t *testing.T) {
	store := &fakeStore{assets: assets("NVDA", "SPY")}
	notifier := &fakeNotifier{}
	pusher := &fakePusher{}
	svc, _ := newStubPipeline(store, time.Now, WithTelegram(notifier), WithMetrics(pusher))

	report := svc.Run(context.Background())
	require.Equal(t, StateDone, report.State)

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "NVDA")
	assert.Contains(t, notifier.messages[0], "SPY")

	require.Len(t, pusher.pushed, 1)
	assert.True(t, pusher.pushed[0].Success)
	assert.Equal(t, 2, pusher.pushed[0].Saved)
}

func TestRun_TelegramFailureDoesNotFailRun(t *testing.T) {
	store := &fakeStore{assets: assets("NVDA")}
	notifier := &fakeNotifier{err: errors.New("chat not found")}
	svc, out := newStubPipeline(store, time.Now, WithTelegram(notifier))

	report := svc.Run(context.Background())

	assert.Equal(t, StateDone, report.State)
	assert.NoError(t, report.Err)
	assert.Contains(t, out.String(), "Guardadas 2 noticias")
}

func TestRun_FailurePushesMetricsWithoutDigest(t *testing.T) {
	store := &fakeStore{readErr: errors.New("timeout")}
	notifier := &fakeNotifier{}
	pusher := &fakePusher{}
	svc, _ := newStubPipeline(store, time.Now, WithTelegram(notifier), WithMetrics(pusher))

	svc.Run(context.Background())

	assert.Empty(t, notifier.messages)
	require.Len(t, pusher.pushed, 1)
	assert.False(t, pusher.pushed[0].Success)
}

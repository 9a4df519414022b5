package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"portfolio-intelligence/internal/entity"
	"portfolio-intelligence/pkg/apperror"
	"portfolio-intelligence/pkg/supabase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePostgREST struct {
	mu        sync.Mutex
	assets    string
	failRead  bool
	failWrite bool
	inserts   []map[string]interface{}
	apiKeys   []string
}

func (f *fakePostgREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apiKeys = append(f.apiKeys, r.Header.Get("apikey"))

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "portfolio_assets"):
		if f.failRead {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":"PGRST301","message":"JWT expired","details":null,"hint":null}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(f.assets))
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "daily_intelligence"):
		if f.failWrite {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"code":"XX000","message":"insert rejected","details":null,"hint":null}`))
			return
		}
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"PGRST102","message":"bad json","details":null,"hint":null}`))
			return
		}
		f.inserts = append(f.inserts, payload)
		w.WriteHeader(http.StatusCreated)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"PGRST205","message":"not found","details":null,"hint":null}`))
	}
}

func newFakeSupabase(t *testing.T, fake *fakePostgREST) (PortfolioRepository, IntelligenceRepository) {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := supabase.NewClient(supabase.Config{URL: server.URL, Key: "test-key"})
	require.NoError(t, err)
	return NewSupabasePortfolioRepository(client), NewSupabaseIntelligenceRepository(client)
}

func TestSupabasePortfolioRepository_FetchAll(t *testing.T) {
	fake := &fakePostgREST{assets: `[{"id":"1","ticker":"NVDA","quantity":10},{"id":"2","ticker":"SPY","sector":"ETF"}]`}
	portfolioRepo, _ := newFakeSupabase(t, fake)

	assets, err := portfolioRepo.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "NVDA", assets[0].Ticker)
	assert.Equal(t, "SPY", assets[1].Ticker)
	assert.Equal(t, "ETF", assets[1].Attributes["sector"])
	assert.Equal(t, []string{"test-key"}, fake.apiKeys)
}

func TestSupabasePortfolioRepository_FetchAllEmpty(t *testing.T) {
	portfolioRepo, _ := newFakeSupabase(t, &fakePostgREST{assets: `[]`})

	assets, err := portfolioRepo.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestSupabasePortfolioRepository_FetchAllError(t *testing.T) {
	portfolioRepo, _ := newFakeSupabase(t, &fakePostgREST{failRead: true})

	_, err := portfolioRepo.FetchAll(context.Background())
	var storeErr *apperror.StoreAccessError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "select", storeErr.Op)
	assert.Equal(t, "portfolio_assets", storeErr.Table)
}

func TestSupabasePortfolioRepository_RowWithoutTicker(t *testing.T) {
	portfolioRepo, _ := newFakeSupabase(t, &fakePostgREST{assets: `[{"ticker":"NVDA"},{"id":"2","name":"Apple"}]`})

	assets, err := portfolioRepo.FetchAll(context.Background())
	assert.Nil(t, assets)
	assert.ErrorIs(t, err, entity.ErrMissingTicker)

	var storeErr *apperror.StoreAccessError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "portfolio_assets", storeErr.Table)
}

func TestSupabaseIntelligenceRepository_Insert(t *testing.T) {
	fake := &fakePostgREST{}
	_, intelligenceRepo := newFakeSupabase(t, fake)

	createdAt := time.Date(2026, 10, 17, 7, 0, 0, 0, time.UTC)
	row := entity.NewDailyIntelligence(entity.IntelligenceRecord{
		Ticker:    "SPY",
		Headline:  "El S&P 500 espera datos de inflación",
		Summary:   "Mercado cauto ante anuncio de la FED.",
		Sentiment: entity.SentimentNeutral,
		Category:  "Macro",
	}, createdAt)

	require.NoError(t, intelligenceRepo.Insert(context.Background(), row))
	require.Len(t, fake.inserts, 1)

	payload := fake.inserts[0]
	assert.Len(t, payload, 6)
	assert.Equal(t, "SPY", payload["ticker"])
	assert.Equal(t, "Neutral", payload["sentiment_score"])
	assert.Equal(t, "Macro", payload["category"])
	assert.Equal(t, "2026-10-17T07:00:00Z", payload["created_at"])
}

func TestSupabaseIntelligenceRepository_InsertError(t *testing.T) {
	_, intelligenceRepo := newFakeSupabase(t, &fakePostgREST{failWrite: true})

	err := intelligenceRepo.Insert(context.Background(), &entity.DailyIntelligence{Ticker: "NVDA"})
	var storeErr *apperror.StoreAccessError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "insert", storeErr.Op)
	assert.Equal(t, "daily_intelligence", storeErr.Table)
}

func TestSupabaseRepositories_CanceledContext(t *testing.T) {
	fake := &fakePostgREST{assets: `[]`}
	portfolioRepo, intelligenceRepo := newFakeSupabase(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := portfolioRepo.FetchAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, intelligenceRepo.Insert(ctx, &entity.DailyIntelligence{}), context.Canceled)
	assert.Empty(t, fake.apiKeys)
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"portfolio-intelligence/internal/agent/config"
	"portfolio-intelligence/internal/agent/dto"
	"portfolio-intelligence/internal/entity"
	"portfolio-intelligence/pkg/logger"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiAIRepository is an implementation of AIRepository that uses the Google Gemini API.
type geminiAIRepository struct {
	cfg            config.Gemini
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg config.Gemini, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	if cfg.MaxRequestPerMinute <= 0 {
		return nil, fmt.Errorf("gemini max_request_per_minute must be positive, got %d", cfg.MaxRequestPerMinute)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("gemini model is required")
	}
	secondsPerRequest := time.Minute / time.Duration(cfg.MaxRequestPerMinute)

	return &geminiAIRepository{
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		genAiClient:    genAiClient,
	}, nil
}

// GenerateIntelligence asks Gemini for the intelligence entry of ticker.
func (r *geminiAIRepository) GenerateIntelligence(ctx context.Context, ticker string, headlines []dto.NewsHeadline) (*dto.IntelligenceResult, error) {
	prompt := BuildIntelligencePrompt(ticker, headlines)

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	r.logger.Debug("Request Gemini API", logger.StringField("ticker", ticker), logger.IntField("headlines", len(headlines)))

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		r.logger.Error("Failed to send request to Gemini API", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return nil, fmt.Errorf("failed to send request to Gemini API: %w", err)
	}

	result, err := parseIntelligenceResponse(resp.Text(), ticker)
	if err != nil {
		r.logger.Error("Failed to parse Gemini response", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return nil, err
	}
	return result, nil
}

func parseIntelligenceResponse(raw, ticker string) (*dto.IntelligenceResult, error) {
	rawJSON := strings.TrimSpace(raw)
	rawJSON = strings.Trim(rawJSON, "`json\n`")
	if rawJSON == "" {
		return nil, fmt.Errorf("no content found in Gemini response")
	}

	var result dto.IntelligenceResult
	if err := json.Unmarshal([]byte(rawJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal intelligence from Gemini response: %w", err)
	}

	if strings.TrimSpace(result.Headline) == "" {
		return nil, fmt.Errorf("gemini response for %s has no headline", ticker)
	}
	sentiment, err := entity.ParseSentiment(result.Sentiment)
	if err != nil {
		return nil, fmt.Errorf("gemini response for %s: %w", ticker, err)
	}
	result.Sentiment = string(sentiment)
	// The model is not trusted with the identity of the asset.
	result.Ticker = ticker
	return &result, nil
}

package repository

import (
	"fmt"
	"strings"

	"portfolio-intelligence/internal/agent/dto"
	"portfolio-intelligence/pkg/utils"
)

const maxPromptDescriptionLen = 400

// BuildIntelligencePrompt asks for a single JSON object describing today's news for ticker.
func BuildIntelligencePrompt(ticker string, headlines []dto.NewsHeadline) string {
	var newsBuilder strings.Builder
	for i, h := range headlines {
		publishedAt := "N/A"
		if h.PublishedAt != nil {
			publishedAt = h.PublishedAt.Format("2006-01-02 15:04")
		}
		newsBuilder.WriteString(fmt.Sprintf(
			"%d. Title: %q\n   Source: %s\n   Published At: %s\n   Description: %s\n\n",
			i+1, h.Title, h.Source, publishedAt, utils.Truncate(h.Description, maxPromptDescriptionLen),
		))
	}

	newsContext := "No headlines were collected; rely on what you know about the asset and the market today."
	if newsBuilder.Len() > 0 {
		newsContext = "Recent headlines:\n\n" + newsBuilder.String()
	}

	promptTemplate := `You are a market analyst writing the daily intelligence brief of a personal investment portfolio.
Asset: %s

%s
Reply with a single JSON object and nothing else:

{
  "ticker": "%s",
  "headline": "{one line, in Spanish}",
  "summary": "{one or two sentences, in Spanish}",
  "sentiment": "Positive | Neutral | Negative",
  "category": "Market | Macro | Regulation | Earnings | News"
}`

	return fmt.Sprintf(promptTemplate, ticker, newsContext, ticker)
}

package telegram

import (
	"fmt"
	"strings"
	"time"

	"portfolio-intelligence/internal/entity"
	"portfolio-intelligence/pkg/utils"
)

// MaxMessageLen keeps each message under Telegram's 4096 character limit.
const MaxMessageLen = 4090

// Provider text is cut to these many runes so a single entry always fits in one message.
const (
	maxHeadlineRunes = 200
	maxSummaryRunes  = 600
)

// FormatIntelligenceForTelegram formats the records saved in one run into Markdown messages,
// splitting into parts so no message exceeds MaxMessageLen.
func FormatIntelligenceForTelegram(records []entity.IntelligenceRecord, day time.Time) []string {
	if len(records) == 0 {
		return []string{"No hay noticias nuevas para la cartera hoy."}
	}

	var messages []string
	var currentMessage strings.Builder
	part := 1

	startNewPart := func() {
		currentMessage.Reset()
		if part == 1 {
			currentMessage.WriteString(fmt.Sprintf("📰 *Inteligencia diaria %s* 📰\n\n", day.Format("2006-01-02")))
		} else {
			currentMessage.WriteString(fmt.Sprintf("---*Inteligencia diaria, parte %d*---\n\n", part))
		}
	}

	startNewPart()

	for _, r := range records {
		var entryBuilder strings.Builder
		entryBuilder.WriteString(fmt.Sprintf("📈 *- - - - - %s - - - - -*\n", escapeMarkdown(r.Ticker)))
		entryBuilder.WriteString(fmt.Sprintf("🗞 *%s*\n", escapeMarkdown(shorten(r.Headline, maxHeadlineRunes))))
		if r.Summary != "" {
			entryBuilder.WriteString(fmt.Sprintf("💬 %s\n", escapeMarkdown(shorten(r.Summary, maxSummaryRunes))))
		}
		entryBuilder.WriteString(fmt.Sprintf("%s *Sentimiento:* %s\n", sentimentIcon(r.Sentiment), r.Sentiment))
		entryBuilder.WriteString(fmt.Sprintf("🏷 *Categoría:* %s\n\n", escapeMarkdown(r.Category)))

		entry := entryBuilder.String()
		if currentMessage.Len()+len(entry) > MaxMessageLen {
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}
		currentMessage.WriteString(entry)
	}

	messages = append(messages, currentMessage.String())
	return messages
}

// shorten cuts s to max runes, marking the cut with an ellipsis.
func shorten(s string, max int) string {
	cut := utils.Truncate(s, max-1)
	if cut == s {
		return s
	}
	return strings.TrimSpace(cut) + "…"
}

func sentimentIcon(s entity.Sentiment) string {
	switch s {
	case entity.SentimentPositive:
		return "😊"
	case entity.SentimentNegative:
		return "😟"
	default:
		return "😐"
	}
}

var markdownReplacer = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// escapeMarkdown escapes the characters legacy Telegram Markdown treats as markup.
func escapeMarkdown(s string) string {
	return markdownReplacer.Replace(s)
}

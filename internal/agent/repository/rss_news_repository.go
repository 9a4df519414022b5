package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"portfolio-intelligence/internal/agent/config"
	"portfolio-intelligence/internal/agent/dto"
	"portfolio-intelligence/pkg/logger"
	"portfolio-intelligence/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
)

const rssUserAgent = "Mozilla/5.0 (compatible; daily-agent/1.0)"

type rssNewsRepository struct {
	cfg           config.RSS
	logger        *logger.Logger
	parser        *gofeed.Parser
	inmemoryCache *cache.Cache
}

// NewRSSNewsRepository reads headlines from a Google News style RSS search endpoint.
func NewRSSNewsRepository(cfg config.RSS, log *logger.Logger) NewsRepository {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: cfg.Timeout}
	parser.UserAgent = rssUserAgent

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &rssNewsRepository{
		cfg:           cfg,
		logger:        log,
		parser:        parser,
		inmemoryCache: cache.New(ttl, 2*ttl),
	}
}

// LatestNews fetches the feed for ticker and returns at most MaxItems items, newest first.
// Results are cached per ticker so repeated tickers cost one request.
func (r *rssNewsRepository) LatestNews(ctx context.Context, ticker string) ([]dto.NewsHeadline, error) {
	if cached, ok := r.inmemoryCache.Get(ticker); ok {
		return cached.([]dto.NewsHeadline), nil
	}

	feedURL := r.feedURL(ticker)
	r.logger.Info("Processing RSS feed", logger.StringField("ticker", ticker), logger.StringField("url", feedURL))

	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		r.logger.Error("Failed to parse RSS feed", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return nil, fmt.Errorf("failed to parse RSS feed for %s: %w", ticker, err)
	}

	items := feed.Items
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].PublishedParsed == nil || items[j].PublishedParsed == nil {
			return items[j].PublishedParsed == nil && items[i].PublishedParsed != nil
		}
		return items[i].PublishedParsed.After(*items[j].PublishedParsed)
	})

	var headlines []dto.NewsHeadline
	for _, item := range items {
		if r.cfg.MaxItems > 0 && len(headlines) >= r.cfg.MaxItems {
			break
		}
		title := utils.SafeText(item.Title)
		if title == "" {
			continue
		}
		headlines = append(headlines, dto.NewsHeadline{
			Title:       title,
			Description: stripHTML(item.Description),
			Link:        item.Link,
			Source:      itemSource(item),
			PublishedAt: item.PublishedParsed,
		})
	}

	r.logger.Info("Collected news headlines",
		logger.StringField("ticker", ticker),
		logger.IntField("original_count", len(feed.Items)),
		logger.IntField("kept_count", len(headlines)),
	)

	r.inmemoryCache.SetDefault(ticker, headlines)
	return headlines, nil
}

func (r *rssNewsRepository) feedURL(ticker string) string {
	query := url.QueryEscape(ticker + " stock")
	if r.cfg.QueryParams == "" {
		return fmt.Sprintf("%s?q=%s", r.cfg.BaseURL, query)
	}
	return fmt.Sprintf("%s?q=%s&%s", r.cfg.BaseURL, query, r.cfg.QueryParams)
}

// stripHTML turns an HTML fragment (feed descriptions usually are) into plain text.
func stripHTML(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return utils.SafeText(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return utils.SafeText(fragment)
	}
	return utils.SafeText(doc.Text())
}

func itemSource(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	if u, err := url.Parse(item.Link); err == nil {
		return u.Hostname()
	}
	return ""
}

package sources

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/merchwatch/merchwatch/internal/domain"
	"github.com/merchwatch/merchwatch/internal/fetcher"
	"github.com/merchwatch/merchwatch/internal/logger"
)

// newsTitleMinRunes filters out navigation fragments the broad item selector
// also matches.
const newsTitleMinRunes = 5

// News item selectors. The site's markup drifts, so the item selector is
// deliberately broad and filtering happens on the extracted fields.
const (
	newsItemSelector  = ".news-item, article, li"
	newsTitleSelector = "h2, h3, .title"
)

// News collects the informational news site's front page.
type News struct {
	pageURL  string
	maxItems int
	log      logger.Interface
	now      func() time.Time
}

// NewNews creates the news source.
func NewNews(pageURL string, maxItems int, log logger.Interface) *News {
	return &News{
		pageURL:  pageURL,
		maxItems: maxItems,
		log:      log.WithSource(string(domain.SourceNews)),
		now:      func() time.Time { return time.Now().In(domain.JST) },
	}
}

// Name implements Source.
func (n *News) Name() string { return string(domain.SourceNews) }

// Collect fetches and parses the news front page.
func (n *News) Collect(ctx context.Context, f fetcher.Interface) ([]domain.Candidate, error) {
	body, err := f.Fetch(ctx, n.pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch news page: %w", err)
	}

	return n.Parse(body)
}

// Parse extracts news candidates from the front page document. Items without
// a link, or with a title shorter than newsTitleMinRunes, are skipped.
func (n *News) Parse(body []byte) ([]domain.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse news page: %w", err)
	}

	now := n.now()
	candidates := make([]domain.Candidate, 0, n.maxItems)
	seen := make(map[string]bool)

	doc.Find(newsItemSelector).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		title := strings.TrimSpace(item.Find(newsTitleSelector).First().Text())
		if len([]rune(title)) < newsTitleMinRunes {
			return true
		}

		href, exists := item.Find("a").First().Attr("href")
		if !exists || href == "" {
			return true
		}
		itemURL := ResolveURL(n.pageURL, href)

		sourceID := SourceID(itemURL)
		if seen[sourceID] {
			return true
		}
		seen[sourceID] = true

		candidate := domain.Candidate{
			Source:    domain.SourceNews,
			SourceID:  sourceID,
			Title:     title,
			URL:       itemURL,
			Images:    n.itemImages(item),
			Status:    domain.StatusNew,
			EventDate: ExtractEventDate(title, now),
		}

		candidates = append(candidates, candidate)
		return len(candidates) < n.maxItems
	})

	return candidates, nil
}

// itemImages extracts the item's thumbnail, if any.
func (n *News) itemImages(item *goquery.Selection) []string {
	src, exists := item.Find("img").First().Attr("src")
	if !exists || src == "" {
		return nil
	}

	return []string{ResolveURL(n.pageURL, src)}
}

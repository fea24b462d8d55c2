package sources

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/merchwatch/merchwatch/internal/config"
	"github.com/merchwatch/merchwatch/internal/domain"
	"github.com/merchwatch/merchwatch/internal/fetcher"
	"github.com/merchwatch/merchwatch/internal/logger"
)

const (
	// socialTitleMaxRunes caps feed entry titles.
	socialTitleMaxRunes = 100
	// canonicalSocialOrigin replaces the mirror host in entry links.
	canonicalSocialOrigin = "https://twitter.com"
)

// Social collects the official account's feed through a list of RSS mirror
// instances, trying each in order until one yields entries.
type Social struct {
	instances []string
	account   string
	maxItems  int
	log       logger.Interface
}

// NewSocial creates the social feed source.
func NewSocial(cfg config.SocialConfig, maxItems int, log logger.Interface) *Social {
	return &Social{
		instances: cfg.Instances,
		account:   cfg.Account,
		maxItems:  maxItems,
		log:       log.WithSource(string(domain.SourceSocial)),
	}
}

// Name implements Source.
func (s *Social) Name() string { return string(domain.SourceSocial) }

// Collect fetches the account feed from the first responsive mirror.
// When every mirror fails it returns an empty slice; mirror churn is
// routine and must not abort the run.
func (s *Social) Collect(ctx context.Context, f fetcher.Interface) ([]domain.Candidate, error) {
	for _, instance := range s.instances {
		feedURL := fmt.Sprintf("%s/%s/rss", strings.TrimSuffix(instance, "/"), s.account)

		body, err := f.Fetch(ctx, feedURL)
		if err != nil {
			s.log.Debug("Mirror fetch failed", "instance", instance, "error", err)
			continue
		}

		candidates, parseErr := s.ParseFeed(body, instance)
		if parseErr != nil {
			s.log.Debug("Mirror feed unparseable", "instance", instance, "error", parseErr)
			continue
		}

		if len(candidates) > 0 {
			return candidates, nil
		}
	}

	s.log.Warn("No mirror instance yielded entries", "instances", len(s.instances))
	return []domain.Candidate{}, nil
}

// ParseFeed parses a mirror RSS document into candidates. Entries without a
// usable link or title are silently skipped.
func (s *Social) ParseFeed(doc []byte, instance string) ([]domain.Candidate, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse social feed: %w", err)
	}

	candidates := make([]domain.Candidate, 0, s.maxItems)

	for _, entry := range parsed.Items {
		if len(candidates) >= s.maxItems {
			break
		}

		title := strings.TrimSpace(entry.Title)
		if title == "" || entry.Link == "" {
			continue
		}

		tweetID := extractTweetID(entry.Link)
		if tweetID == "" {
			continue
		}

		candidate := domain.Candidate{
			Source:      domain.SourceSocial,
			SourceID:    "twitter_" + tweetID,
			Title:       truncateRunes(title, socialTitleMaxRunes),
			Content:     strings.TrimSpace(entry.Description),
			URL:         strings.Replace(entry.Link, strings.TrimSuffix(instance, "/"), canonicalSocialOrigin, 1),
			Images:      extractSummaryImages(entry.Description, instance),
			Status:      domain.StatusNew,
			PublishedAt: entry.PublishedParsed,
		}

		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// extractTweetID returns the last path segment of an entry link with any
// fragment stripped.
func extractTweetID(link string) string {
	trimmed := strings.TrimSuffix(link, "/")
	segment := trimmed[strings.LastIndexByte(trimmed, '/')+1:]
	if idx := strings.IndexByte(segment, '#'); idx >= 0 {
		segment = segment[:idx]
	}
	return segment
}

// extractSummaryImages pulls image URLs out of the entry's summary HTML.
func extractSummaryImages(summary, base string) []string {
	if summary == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(summary))
	if err != nil {
		return nil
	}

	var images []string
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		if src, exists := img.Attr("src"); exists && src != "" {
			images = append(images, ResolveURL(base, src))
		}
	})

	return images
}

// truncateRunes shortens s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

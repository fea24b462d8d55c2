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

// Selectors for the storefront's product listing markup.
const (
	productCardSelector  = ".product-item, .card"
	productTitleSelector = ".product-item__title, .card__title, h3"
	productLinkSelector  = `a[href*="/products/"]`
	productPriceSelector = ".price, .price-item"
	pageHeaderSelector   = "h1, h2, .collection-hero__title"
)

// imageAttrPriority lists lazy-load attributes preferred over placeholder src.
var imageAttrPriority = []string{"data-src", "src", "data-lazy-src"}

// StorefrontPage collects one storefront collection page. The same parser
// serves the "new items" and "restock" collections; the status label and the
// page URL (whose embedded date token, if any, seeds the event date) are
// construction parameters.
type StorefrontPage struct {
	name     string
	baseURL  string
	pageURL  string
	status   domain.Status
	maxItems int
	log      logger.Interface
	now      func() time.Time
}

// NewStorefrontPage creates a storefront collection source.
func NewStorefrontPage(
	name, baseURL, path string,
	status domain.Status,
	maxItems int,
	log logger.Interface,
) *StorefrontPage {
	return &StorefrontPage{
		name:     name,
		baseURL:  baseURL,
		pageURL:  strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(path, "/"),
		status:   status,
		maxItems: maxItems,
		log:      log.WithSource(name),
		now:      func() time.Time { return time.Now().In(domain.JST) },
	}
}

// Name implements Source.
func (p *StorefrontPage) Name() string { return p.name }

// Collect fetches and parses the collection page.
func (p *StorefrontPage) Collect(ctx context.Context, f fetcher.Interface) ([]domain.Candidate, error) {
	body, err := f.Fetch(ctx, p.pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch storefront page: %w", err)
	}

	return p.Parse(body)
}

// Parse extracts product candidates from a collection page document.
// Cards without a title or product link are silently skipped, and cards
// resolving to an already-seen source ID within the page are dropped.
func (p *StorefrontPage) Parse(body []byte) ([]domain.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse storefront page: %w", err)
	}

	eventDate := p.pageEventDate(doc)

	candidates := make([]domain.Candidate, 0, p.maxItems)
	seen := make(map[string]bool)

	doc.Find(productCardSelector).EachWithBreak(func(_ int, card *goquery.Selection) bool {
		title := strings.TrimSpace(card.Find(productTitleSelector).First().Text())
		if title == "" {
			return true
		}

		href, exists := card.Find(productLinkSelector).First().Attr("href")
		if !exists || href == "" {
			return true
		}
		productURL := ResolveURL(p.baseURL, href)

		// URL+title composite key: variant listings share a product URL.
		sourceID := SourceID(productURL, title)
		if seen[sourceID] {
			return true
		}
		seen[sourceID] = true

		candidate := domain.Candidate{
			Source:    domain.SourceStorefront,
			SourceID:  sourceID,
			Title:     title,
			URL:       productURL,
			Images:    p.cardImages(card),
			Price:     ParsePrice(card.Find(productPriceSelector).First().Text()),
			Status:    p.status,
			EventDate: eventDate,
		}

		candidates = append(candidates, candidate)
		return len(candidates) < p.maxItems
	})

	return candidates, nil
}

// pageEventDate derives the collection's event date from a page header or,
// failing that, from a date token in the collection URL.
func (p *StorefrontPage) pageEventDate(doc *goquery.Document) *time.Time {
	now := p.now()

	if date := ExtractEventDate(doc.Find(pageHeaderSelector).First().Text(), now); date != nil {
		return date
	}

	return DateFromURL(p.pageURL, now)
}

// cardImages extracts the card's image, preferring lazy-load attributes over
// the placeholder src and falling back to the first srcset candidate. The
// query string is stripped for stability.
func (p *StorefrontPage) cardImages(card *goquery.Selection) []string {
	img := card.Find("img").First()
	if img.Length() == 0 {
		return nil
	}

	var imageURL string
	for _, attr := range imageAttrPriority {
		if value, exists := img.Attr(attr); exists && value != "" {
			imageURL = value
			break
		}
	}
	if imageURL == "" {
		if srcset, exists := img.Attr("srcset"); exists && srcset != "" {
			imageURL = strings.TrimSpace(strings.SplitN(srcset, ",", 2)[0])
			if idx := strings.IndexByte(imageURL, ' '); idx >= 0 {
				imageURL = imageURL[:idx]
			}
		}
	}
	if imageURL == "" {
		return nil
	}

	return []string{StripQuery(ResolveURL(p.baseURL, imageURL))}
}

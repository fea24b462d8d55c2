package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/merchwatch/merchwatch/internal/classify"
	"github.com/merchwatch/merchwatch/internal/domain"
	"github.com/merchwatch/merchwatch/internal/logger"
)

// Gateway deduplicates candidates against the store and persists the new
// ones. One gateway serves a whole run; the store handle is injected so
// tests can substitute fakes.
type Gateway struct {
	records  InformationStore
	detector *Detector
	log      logger.Interface
	// itemDelay spaces out store operations as simple backpressure
	itemDelay time.Duration
	now       func() time.Time
}

// PersistResult summarizes one persisted batch.
type PersistResult struct {
	// Inserted counts candidates actually written
	Inserted int
	// Restocks counts restock events recorded while persisting
	Restocks int
}

// NewGateway creates a persistence gateway.
func NewGateway(
	records InformationStore,
	detector *Detector,
	itemDelay time.Duration,
	log logger.Interface,
) *Gateway {
	return &Gateway{
		records:   records,
		detector:  detector,
		log:       log.WithComponent("gateway"),
		itemDelay: itemDelay,
		now:       func() time.Time { return time.Now().In(domain.JST) },
	}
}

// Persist processes candidates in reverse collection order, so listing pages
// that show newest-first land in the store in roughly chronological order.
// A failure on one candidate is logged and the batch continues; persisting
// the same batch twice inserts nothing the second time.
func (g *Gateway) Persist(ctx context.Context, candidates []domain.Candidate) PersistResult {
	var result PersistResult

	for i := len(candidates) - 1; i >= 0; i-- {
		candidate := candidates[i]

		inserted, restocked, err := g.persistOne(ctx, &candidate)
		if err != nil {
			g.log.Warn("Persist failed for candidate",
				"title", candidate.Title,
				"source_id", candidate.SourceID,
				"error", err,
			)
		}
		if inserted {
			result.Inserted++
		}
		if restocked {
			result.Restocks++
		}

		if i > 0 && g.itemDelay > 0 {
			select {
			case <-ctx.Done():
				return result
			case <-time.After(g.itemDelay):
			}
		}
	}

	return result
}

// persistOne runs the restock check and the dedup-insert for one candidate.
func (g *Gateway) persistOne(ctx context.Context, candidate *domain.Candidate) (inserted, restocked bool, err error) {
	restocked, err = g.detector.Check(ctx, candidate)
	if err != nil {
		return false, false, err
	}

	exists, err := g.records.ExistsBySourceID(ctx, candidate.SourceID)
	if err != nil {
		return false, restocked, fmt.Errorf("dedup check: %w", err)
	}
	if exists {
		return false, restocked, nil
	}

	if insertErr := g.records.Insert(ctx, g.buildRecord(candidate)); insertErr != nil {
		return false, restocked, insertErr
	}

	g.log.Info("Record saved",
		"title", candidate.Title,
		"source", candidate.Source,
		"images", len(candidate.Images),
	)

	return true, restocked, nil
}

// buildRecord turns a candidate into a fully populated information record.
func (g *Gateway) buildRecord(candidate *domain.Candidate) *domain.InformationRecord {
	publishedAt := g.now()
	if candidate.PublishedAt != nil {
		publishedAt = *candidate.PublishedAt
	}

	return &domain.InformationRecord{
		Source:      candidate.Source,
		SourceID:    candidate.SourceID,
		Title:       candidate.Title,
		Content:     candidate.Body(),
		URL:         candidate.URL,
		Images:      domain.StringList(candidate.Images),
		Price:       candidate.Price,
		Category:    resolveCategory(candidate),
		Status:      candidate.Status,
		EventDate:   candidate.EventDate,
		PublishedAt: publishedAt,
	}
}

// resolveCategory classifies the candidate's title. Storefront candidates
// bypass classification: their origin already guarantees merchandise.
func resolveCategory(candidate *domain.Candidate) domain.Category {
	if candidate.Source == domain.SourceStorefront {
		return domain.CategoryMerchandise
	}
	return classify.Classify(candidate.Title)
}

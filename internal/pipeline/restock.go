package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/merchwatch/merchwatch/internal/domain"
	"github.com/merchwatch/merchwatch/internal/logger"
)

// Detector records restock state transitions. Correlation runs on the
// product URL, not the source ID: the same product URL may have been first
// seen as a "new" listing with a different composite key.
type Detector struct {
	records InformationStore
	events  RestockStore
	log     logger.Interface
	now     func() time.Time
}

// NewDetector creates a restock detector.
func NewDetector(records InformationStore, events RestockStore, log logger.Interface) *Detector {
	return &Detector{
		records: records,
		events:  events,
		log:     log.WithComponent("restock"),
		now:     func() time.Time { return time.Now().In(domain.JST) },
	}
}

// Check inspects a candidate and records a restock event when it represents
// a new transition. It reports whether an event was created.
//
// A product seen for the first time ever with restock status still produces
// an event (with no previous date); the source data genuinely contains such
// listings and they are not noise.
func (d *Detector) Check(ctx context.Context, candidate *domain.Candidate) (bool, error) {
	if candidate.Status != domain.StatusRestock {
		return false, nil
	}

	existing, err := d.records.GetByURL(ctx, candidate.URL)
	if err != nil {
		return false, fmt.Errorf("restock lookup: %w", err)
	}

	pending, err := d.events.HasUnnotified(ctx, candidate.URL)
	if err != nil {
		return false, fmt.Errorf("restock pending check: %w", err)
	}
	if pending {
		d.log.Debug("Unnotified event already recorded", "url", candidate.URL)
		return false, nil
	}

	event := &domain.RestockEvent{
		ID:           uuid.New(),
		ProductURL:   candidate.URL,
		ProductTitle: candidate.Title,
		NewEventDate: candidate.EventDate,
		DetectedAt:   d.now(),
		Notified:     false,
	}
	if existing != nil {
		event.PreviousEventDate = existing.EventDate
	}

	if insertErr := d.events.Insert(ctx, event); insertErr != nil {
		return false, fmt.Errorf("record restock event: %w", insertErr)
	}

	if existing != nil {
		if updateErr := d.records.UpdateRestock(ctx, existing.ID, candidate.EventDate); updateErr != nil {
			return false, fmt.Errorf("update restocked record: %w", updateErr)
		}
	}

	d.log.Info("Restock detected",
		"title", candidate.Title,
		"url", candidate.URL,
		"first_sighting", existing == nil,
	)

	return true, nil
}

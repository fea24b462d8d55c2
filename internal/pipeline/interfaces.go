// Package pipeline implements the ingestion pipeline: deduplication,
// persistence, and restock detection for parsed candidates.
package pipeline

import (
	"context"
	"time"

	"github.com/merchwatch/merchwatch/internal/domain"
)

// InformationStore is the slice of the information repository the pipeline
// needs. Satisfied by database.InformationRepository.
type InformationStore interface {
	ExistsBySourceID(ctx context.Context, sourceID string) (bool, error)
	GetByURL(ctx context.Context, url string) (*domain.InformationRecord, error)
	Insert(ctx context.Context, record *domain.InformationRecord) error
	UpdateRestock(ctx context.Context, id int64, eventDate *time.Time) error
}

// RestockStore is the slice of the restock repository the pipeline needs.
// Satisfied by database.RestockRepository.
type RestockStore interface {
	HasUnnotified(ctx context.Context, productURL string) (bool, error)
	Insert(ctx context.Context, event *domain.RestockEvent) error
}

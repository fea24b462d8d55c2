package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/merchwatch/merchwatch/internal/domain"
)

// RestockRepository handles database operations for restock events.
type RestockRepository struct {
	db *sqlx.DB
}

// NewRestockRepository creates a new restock event repository.
func NewRestockRepository(db *sqlx.DB) *RestockRepository {
	return &RestockRepository{db: db}
}

// HasUnnotified reports whether an undelivered event already exists for the
// given product URL. Guards against duplicate events for one transition.
func (r *RestockRepository) HasUnnotified(ctx context.Context, productURL string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM restock_history
			WHERE product_url = $1 AND notified = FALSE
		)
	`

	if err := r.db.GetContext(ctx, &exists, query, productURL); err != nil {
		return false, fmt.Errorf("check unnotified event: %w", err)
	}

	return exists, nil
}

// Insert stores a new restock event.
func (r *RestockRepository) Insert(ctx context.Context, event *domain.RestockEvent) error {
	query := `
		INSERT INTO restock_history
			(id, product_url, product_title, previous_event_date,
			 new_event_date, detected_at, notified)
		VALUES
			(:id, :product_url, :product_title, :previous_event_date,
			 :new_event_date, :detected_at, :notified)
	`

	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("insert restock event: %w", err)
	}

	return nil
}

// ListUnnotified returns all undelivered events, oldest detection first.
func (r *RestockRepository) ListUnnotified(ctx context.Context) ([]domain.RestockEvent, error) {
	query := `
		SELECT id, product_url, product_title, previous_event_date,
		       new_event_date, detected_at, notified
		FROM restock_history
		WHERE notified = FALSE
		ORDER BY detected_at ASC
	`

	events := make([]domain.RestockEvent, 0)
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list unnotified events: %w", err)
	}

	return events, nil
}

// MarkNotified flips the notified flag for the given events. Called only
// after the outbound channel confirmed delivery.
func (r *RestockRepository) MarkNotified(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE restock_history SET notified = TRUE WHERE id IN (?)`, ids)
	if err != nil {
		return fmt.Errorf("build mark notified query: %w", err)
	}

	if _, execErr := r.db.ExecContext(ctx, r.db.Rebind(query), args...); execErr != nil {
		return fmt.Errorf("mark events notified: %w", execErr)
	}

	return nil
}

// Recent returns the most recently detected events, newest first.
func (r *RestockRepository) Recent(ctx context.Context, limit int) ([]domain.RestockEvent, error) {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	query := `
		SELECT id, product_url, product_title, previous_event_date,
		       new_event_date, detected_at, notified
		FROM restock_history
		ORDER BY detected_at DESC
		LIMIT $1
	`

	events := make([]domain.RestockEvent, 0)
	if err := r.db.SelectContext(ctx, &events, query, limit); err != nil {
		return nil, fmt.Errorf("list recent events: %w", err)
	}

	return events, nil
}

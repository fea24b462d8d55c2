package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/merchwatch/merchwatch/internal/domain"
)

// DefaultQueryLimit caps rows returned by filtered listing queries.
const DefaultQueryLimit = 200

// InformationRepository handles database operations for information records.
type InformationRepository struct {
	db *sqlx.DB
}

// NewInformationRepository creates a new information repository.
func NewInformationRepository(db *sqlx.DB) *InformationRepository {
	return &InformationRepository{db: db}
}

// ExistsBySourceID reports whether a record with the given source ID exists.
func (r *InformationRepository) ExistsBySourceID(ctx context.Context, sourceID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM information WHERE source_id = $1)`

	if err := r.db.GetContext(ctx, &exists, query, sourceID); err != nil {
		return false, fmt.Errorf("check source_id exists: %w", err)
	}

	return exists, nil
}

// GetByURL returns the record with the given product URL, or nil when none
// exists. When the same URL was inserted more than once (distinct source IDs),
// the earliest row wins so restock correlation stays stable.
func (r *InformationRepository) GetByURL(ctx context.Context, url string) (*domain.InformationRecord, error) {
	var record domain.InformationRecord
	query := `
		SELECT id, source, source_id, title, content, url, images, price,
		       category, status, event_date, published_at, created_at
		FROM information
		WHERE url = $1
		ORDER BY id ASC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &record, query, url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record by url: %w", err)
	}

	return &record, nil
}

// Insert stores a new information record. Inserting a duplicate source_id is
// a no-op, backed by the unique index on the column.
func (r *InformationRepository) Insert(ctx context.Context, record *domain.InformationRecord) error {
	query := `
		INSERT INTO information
			(source, source_id, title, content, url, images, price,
			 category, status, event_date, published_at, created_at)
		VALUES
			(:source, :source_id, :title, :content, :url, :images, :price,
			 :category, :status, :event_date, :published_at, NOW())
		ON CONFLICT (source_id) DO NOTHING
	`

	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	return nil
}

// UpdateRestock flips an existing record to restock status and moves its
// event date to the newly observed value.
func (r *InformationRepository) UpdateRestock(ctx context.Context, id int64, eventDate *time.Time) error {
	query := `UPDATE information SET status = $1, event_date = $2 WHERE id = $3`

	if _, err := r.db.ExecContext(ctx, query, domain.StatusRestock, eventDate, id); err != nil {
		return fmt.Errorf("update restock status: %w", err)
	}

	return nil
}

// RecordFilter narrows the filtered listing query. Zero values mean
// "no constraint".
type RecordFilter struct {
	Category  domain.Category
	Sources   []domain.Source
	Since     *time.Time
	Search    string
	HasImages bool
	Status    domain.Status
	Limit     int
}

// List returns records matching the filter, newest first, capped at the
// filter limit (or DefaultQueryLimit).
func (r *InformationRepository) List(ctx context.Context, filter RecordFilter) ([]domain.InformationRecord, error) {
	conditions := make([]string, 0, 6)
	args := make([]any, 0, 6)

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Category != "" {
		addCondition("category = $%d", filter.Category)
	}
	if len(filter.Sources) > 0 {
		placeholders := make([]string, 0, len(filter.Sources))
		for _, source := range filter.Sources {
			args = append(args, source)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		conditions = append(conditions, "source IN ("+strings.Join(placeholders, ", ")+")")
	}
	if filter.Since != nil {
		addCondition("published_at >= $%d", *filter.Since)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern)
		clause := fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", len(args), len(args))
		conditions = append(conditions, clause)
	}
	if filter.HasImages {
		conditions = append(conditions, "jsonb_array_length(images) > 0")
	}
	if filter.Status != "" {
		addCondition("status = $%d", filter.Status)
	}

	query := `
		SELECT id, source, source_id, title, content, url, images, price,
		       category, status, event_date, published_at, created_at
		FROM information
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > DefaultQueryLimit {
		limit = DefaultQueryLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY published_at DESC NULLS LAST LIMIT $%d", len(args))

	records := make([]domain.InformationRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	return records, nil
}

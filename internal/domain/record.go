package domain

import "time"

// InformationRecord is a normalized posting persisted to the information table.
type InformationRecord struct {
	// Internal row identifier
	ID int64 `json:"id" db:"id"`
	// Source the record was collected from
	Source Source `json:"source" db:"source"`
	// Deterministic identifier, unique per (source, origin content)
	SourceID string `json:"source_id" db:"source_id"`
	// Title of the posting
	Title string `json:"title" db:"title"`
	// Body text; falls back to Title when the source has no richer body
	Content string `json:"content" db:"content"`
	// Canonical external link; natural key for restock correlation
	URL string `json:"url" db:"url"`
	// Ordered absolute image URLs
	Images StringList `json:"images" db:"images"`
	// Price in yen; nil when unknown
	Price *int64 `json:"price,omitempty" db:"price"`
	// Assigned content category
	Category Category `json:"category" db:"category"`
	// Listing status (new or restock)
	Status Status `json:"status" db:"status"`
	// Semantic sale or restock date; nil when the source carries none
	EventDate *time.Time `json:"event_date,omitempty" db:"event_date"`
	// Collection or original post time
	PublishedAt time.Time `json:"published_at" db:"published_at"`
	// Row creation timestamp
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Candidate is a parsed, not-yet-persisted posting produced by a source parser.
// Title and URL are always populated; everything else is best-effort.
type Candidate struct {
	Source      Source
	SourceID    string
	Title       string
	Content     string
	URL         string
	Images      []string
	Price       *int64
	Status      Status
	EventDate   *time.Time
	PublishedAt *time.Time
}

// Body returns the candidate content, falling back to the title when the
// source provided no richer body.
func (c *Candidate) Body() string {
	if c.Content != "" {
		return c.Content
	}
	return c.Title
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// RestockEvent records a detected re-availability of a previously listed
// product. Created by the restock detector; mutated only once, by the
// notifier, to flip Notified after successful delivery.
type RestockEvent struct {
	ID uuid.UUID `json:"id" db:"id"`
	// Natural key shared with InformationRecord.URL
	ProductURL   string `json:"product_url" db:"product_url"`
	ProductTitle string `json:"product_title" db:"product_title"`
	// Event date of the prior sighting; nil on a first-ever restock sighting
	PreviousEventDate *time.Time `json:"previous_event_date,omitempty" db:"previous_event_date"`
	// Event date carried by the restock candidate
	NewEventDate *time.Time `json:"new_event_date,omitempty" db:"new_event_date"`
	DetectedAt   time.Time  `json:"detected_at" db:"detected_at"`
	Notified     bool       `json:"notified" db:"notified"`
}

package pipeline_test

import (
	"context"
	"errors"
	"time"

	"github.com/merchwatch/merchwatch/internal/domain"
)

var errStoreDown = errors.New("store unavailable")

// fakeInformationStore is an in-memory InformationStore double.
type fakeInformationStore struct {
	records []*domain.InformationRecord
	nextID  int64
	// source IDs whose insert should fail
	failInsert map[string]bool
}

func newFakeInformationStore() *fakeInformationStore {
	return &fakeInformationStore{failInsert: make(map[string]bool)}
}

func (s *fakeInformationStore) ExistsBySourceID(_ context.Context, sourceID string) (bool, error) {
	for _, record := range s.records {
		if record.SourceID == sourceID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeInformationStore) GetByURL(_ context.Context, url string) (*domain.InformationRecord, error) {
	for _, record := range s.records {
		if record.URL == url {
			return record, nil
		}
	}
	return nil, nil
}

func (s *fakeInformationStore) Insert(_ context.Context, record *domain.InformationRecord) error {
	if s.failInsert[record.SourceID] {
		return errStoreDown
	}
	for _, existing := range s.records {
		if existing.SourceID == record.SourceID {
			return nil // unique index: duplicate insert is a no-op
		}
	}
	s.nextID++
	stored := *record
	stored.ID = s.nextID
	s.records = append(s.records, &stored)
	return nil
}

func (s *fakeInformationStore) UpdateRestock(_ context.Context, id int64, eventDate *time.Time) error {
	for _, record := range s.records {
		if record.ID == id {
			record.Status = domain.StatusRestock
			record.EventDate = eventDate
			return nil
		}
	}
	return errStoreDown
}

// fakeRestockStore is an in-memory RestockStore double.
type fakeRestockStore struct {
	events []*domain.RestockEvent
}

func (s *fakeRestockStore) HasUnnotified(_ context.Context, productURL string) (bool, error) {
	for _, event := range s.events {
		if event.ProductURL == productURL && !event.Notified {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeRestockStore) Insert(_ context.Context, event *domain.RestockEvent) error {
	stored := *event
	s.events = append(s.events, &stored)
	return nil
}

package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchwatch/merchwatch/internal/domain"
	"github.com/merchwatch/merchwatch/internal/logger"
	"github.com/merchwatch/merchwatch/internal/pipeline"
)

func newTestGateway(records *fakeInformationStore, events *fakeRestockStore) *pipeline.Gateway {
	detector := pipeline.NewDetector(records, events, logger.NewNoOp())
	return pipeline.NewGateway(records, detector, 0, logger.NewNoOp())
}

func newCandidate(sourceID, title, url string) domain.Candidate {
	return domain.Candidate{
		Source:   domain.SourceNews,
		SourceID: sourceID,
		Title:    title,
		URL:      url,
		Status:   domain.StatusNew,
	}
}

func TestGateway_Persist_Idempotent(t *testing.T) {
	t.Parallel()

	records := newFakeInformationStore()
	gateway := newTestGateway(records, &fakeRestockStore{})

	batch := []domain.Candidate{
		newCandidate("a", "新商品のお知らせです", "https://news.example/a"),
		newCandidate("b", "イベント開催のお知らせ", "https://news.example/b"),
	}

	first := gateway.Persist(context.Background(), batch)
	assert.Equal(t, 2, first.Inserted)

	second := gateway.Persist(context.Background(), batch)
	assert.Equal(t, 0, second.Inserted)

	assert.Len(t, records.records, 2)
}

func TestGateway_Persist_ReverseOrder(t *testing.T) {
	t.Parallel()

	records := newFakeInformationStore()
	gateway := newTestGateway(records, &fakeRestockStore{})

	// Listing pages show newest-first; the oldest-discovered candidate must
	// be inserted first so store order approximates chronology.
	batch := []domain.Candidate{
		newCandidate("newest", "最新のお知らせです", "https://news.example/3"),
		newCandidate("middle", "真ん中のお知らせです", "https://news.example/2"),
		newCandidate("oldest", "一番古いお知らせです", "https://news.example/1"),
	}

	gateway.Persist(context.Background(), batch)

	require.Len(t, records.records, 3)
	assert.Equal(t, "oldest", records.records[0].SourceID)
	assert.Equal(t, "middle", records.records[1].SourceID)
	assert.Equal(t, "newest", records.records[2].SourceID)
}

func TestGateway_Persist_ContinuesAfterItemFailure(t *testing.T) {
	t.Parallel()

	records := newFakeInformationStore()
	records.failInsert["broken"] = true
	gateway := newTestGateway(records, &fakeRestockStore{})

	batch := []domain.Candidate{
		newCandidate("ok-1", "正常なお知らせ その1", "https://news.example/1"),
		newCandidate("broken", "保存に失敗するお知らせ", "https://news.example/2"),
		newCandidate("ok-2", "正常なお知らせ その2", "https://news.example/3"),
	}

	result := gateway.Persist(context.Background(), batch)

	assert.Equal(t, 2, result.Inserted)
	assert.Len(t, records.records, 2)
}

func TestGateway_Persist_StorefrontCategoryHardAssigned(t *testing.T) {
	t.Parallel()

	records := newFakeInformationStore()
	gateway := newTestGateway(records, &fakeRestockStore{})

	candidate := domain.Candidate{
		Source:   domain.SourceStorefront,
		SourceID: "sf-1",
		// Title would classify as lottery if it went through the keyword table
		Title:  "一番くじ ちいかわ",
		URL:    "https://shop.example/products/kuji",
		Status: domain.StatusNew,
	}

	gateway.Persist(context.Background(), []domain.Candidate{candidate})

	require.Len(t, records.records, 1)
	assert.Equal(t, domain.CategoryMerchandise, records.records[0].Category)
}

func TestGateway_Persist_ClassifiesNonStorefront(t *testing.T) {
	t.Parallel()

	records := newFakeInformationStore()
	gateway := newTestGateway(records, &fakeRestockStore{})

	gateway.Persist(context.Background(), []domain.Candidate{
		newCandidate("news-1", "一番くじ 新シリーズ景品公開", "https://news.example/kuji"),
	})

	require.Len(t, records.records, 1)
	assert.Equal(t, domain.CategoryLottery, records.records[0].Category)
}

func TestGateway_Persist_DefaultsContentAndPublishedAt(t *testing.T) {
	t.Parallel()

	records := newFakeInformationStore()
	gateway := newTestGateway(records, &fakeRestockStore{})

	gateway.Persist(context.Background(), []domain.Candidate{
		newCandidate("n-1", "本文のないお知らせです", "https://news.example/n1"),
	})

	require.Len(t, records.records, 1)
	record := records.records[0]
	assert.Equal(t, record.Title, record.Content)
	assert.False(t, record.PublishedAt.IsZero())
}

func TestGateway_Persist_RestockCountsReported(t *testing.T) {
	t.Parallel()

	records := newFakeInformationStore()
	events := &fakeRestockStore{}
	gateway := newTestGateway(records, events)

	candidate := newCandidate("r-1", "再入荷したぬいぐるみ", "https://shop.example/products/p9")
	candidate.Source = domain.SourceStorefront
	candidate.Status = domain.StatusRestock

	result := gateway.Persist(context.Background(), []domain.Candidate{candidate})

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Restocks)
	assert.Len(t, events.events, 1)
}

package usecase

import (
	"context"
	"testing"
	"time"

	"RentRate/internal/domain/models"
	"RentRate/internal/services/catalog"
	"RentRate/internal/services/competitor"
)

func newIngestFixture(t *testing.T) (*QuoteIngestHandler, *competitor.Store) {
	t.Helper()
	classifier := catalog.NewClassifier(catalog.Default())
	agg := competitor.NewAggregator(classifier)
	store := competitor.NewStore("")
	return NewQuoteIngestHandler("competitor.quotes", agg, store), store
}

func TestQuoteIngestHandlerStoresBatch(t *testing.T) {
	h, store := newIngestFixture(t)

	payload := []byte(`{
		"branch": "JED-Airport",
		"scraped_at": "2026-03-07T06:00:00Z",
		"quotes": [
			{"supplier": "Budget", "vehicle_name": "Toyota Camry", "price": 180},
			{"supplier": "Hertz", "vehicle_name": "Toyota Camry", "price": 200}
		]
	}`)
	if err := h.Handle(context.Background(), payload); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	snap := store.Snapshot("JED-Airport")
	if snap == nil {
		t.Fatal("expected snapshot after ingest")
	}
	want := time.Date(2026, 3, 7, 6, 0, 0, 0, time.UTC)
	if !snap.RefreshedAt.Equal(want) {
		t.Errorf("RefreshedAt = %v, want %v", snap.RefreshedAt, want)
	}
	sum, ok := snap.Summaries[models.CategoryStandard]
	if !ok {
		t.Fatalf("expected standard summary, got %v", snap.Summaries)
	}
	if sum.SupplierCount != 2 {
		t.Errorf("SupplierCount = %d, want 2", sum.SupplierCount)
	}
	if sum.AveragePrice != 190 {
		t.Errorf("AveragePrice = %v, want 190", sum.AveragePrice)
	}
}

func TestQuoteIngestHandlerDropsMalformedPayload(t *testing.T) {
	h, store := newIngestFixture(t)

	if err := h.Handle(context.Background(), []byte(`{not json`)); err != nil {
		t.Fatalf("malformed payload should be dropped, got %v", err)
	}
	if got := store.Snapshot("JED-Airport"); got != nil {
		t.Errorf("store should stay empty, got %+v", got)
	}
}

func TestQuoteIngestHandlerDropsMissingBranch(t *testing.T) {
	h, store := newIngestFixture(t)

	payload := []byte(`{"scraped_at": "2026-03-07T06:00:00Z", "quotes": []}`)
	if err := h.Handle(context.Background(), payload); err != nil {
		t.Fatalf("branchless payload should be dropped, got %v", err)
	}
	if got := store.Snapshot(""); got != nil {
		t.Errorf("store should stay empty, got %+v", got)
	}
}

func TestQuoteIngestHandlerLenientTimestamp(t *testing.T) {
	h, store := newIngestFixture(t)

	payload := []byte(`{"branch": "RUH-City", "scraped_at": "1772863200", "quotes": []}`)
	if err := h.Handle(context.Background(), payload); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	snap := store.Snapshot("RUH-City")
	if snap == nil {
		t.Fatal("expected snapshot")
	}
	// Unix seconds should parse exactly, not fall back to time.Now.
	if snap.RefreshedAt.Unix() != 1772863200 {
		t.Errorf("RefreshedAt = %v (unix %d)", snap.RefreshedAt, snap.RefreshedAt.Unix())
	}
}

func TestQuoteIngestHandlerTopic(t *testing.T) {
	h, _ := newIngestFixture(t)
	if h.Topic() != "competitor.quotes" {
		t.Errorf("Topic = %q", h.Topic())
	}
}

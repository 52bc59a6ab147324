package competitor

import (
	"math"
	"testing"
	"time"

	"RentRate/internal/domain/models"
	"RentRate/internal/services/catalog"
)

func newTestAggregator() *Aggregator {
	return NewAggregator(catalog.NewClassifier(catalog.Default()))
}

func TestAggregateEmptyInput(t *testing.T) {
	out := newTestAggregator().Aggregate(nil)
	if len(out) != 0 {
		t.Fatalf("expected empty map, got %d categories", len(out))
	}
}

func TestAggregateDeduplicatesPerSupplier(t *testing.T) {
	quotes := []models.CompetitorQuote{
		{Supplier: "Budget", VehicleName: "Toyota Camry", Price: 210},
		{Supplier: "Budget", VehicleName: "Hyundai Sonata", Price: 190},
		{Supplier: "Hertz", VehicleName: "Toyota Camry", Price: 200},
	}
	out := newTestAggregator().Aggregate(quotes)

	s, ok := out[models.CategoryStandard]
	if !ok {
		t.Fatal("expected Standard summary")
	}
	if s.SupplierCount != 2 {
		t.Fatalf("supplier count = %d, want 2 (one per supplier)", s.SupplierCount)
	}
	// Budget keeps its cheapest quote only.
	want := (190.0 + 200.0) / 2
	if math.Abs(s.AveragePrice-want) > 1e-9 {
		t.Fatalf("average = %.2f, want %.2f", s.AveragePrice, want)
	}
}

func TestAggregateDropsInvalidPrices(t *testing.T) {
	quotes := []models.CompetitorQuote{
		{Supplier: "Budget", VehicleName: "Kia Picanto", Price: 0},
		{Supplier: "Hertz", VehicleName: "Kia Picanto", Price: -10},
		{Supplier: "Sixt", VehicleName: "Kia Picanto", Price: 9000},
		{Supplier: "Avis", VehicleName: "Kia Picanto", Price: 95},
	}
	out := newTestAggregator().Aggregate(quotes)

	s, ok := out[models.CategoryEconomy]
	if !ok {
		t.Fatal("expected Economy summary")
	}
	if s.SupplierCount != 1 {
		t.Fatalf("supplier count = %d, want 1", s.SupplierCount)
	}
	if !s.LowSample {
		t.Fatal("single-supplier category should be flagged low sample")
	}
}

func TestAggregateTruncatesDisplayQuotes(t *testing.T) {
	quotes := []models.CompetitorQuote{
		{Supplier: "A", VehicleName: "Toyota Camry", Price: 150},
		{Supplier: "B", VehicleName: "Toyota Camry", Price: 140},
		{Supplier: "C", VehicleName: "Toyota Camry", Price: 180},
		{Supplier: "D", VehicleName: "Toyota Camry", Price: 160},
		{Supplier: "E", VehicleName: "Toyota Camry", Price: 200},
		{Supplier: "F", VehicleName: "Toyota Camry", Price: 130},
	}
	out := newTestAggregator().Aggregate(quotes)

	s := out[models.CategoryStandard]
	if len(s.Quotes) != MaxDisplayQuotes {
		t.Fatalf("displayed quotes = %d, want %d", len(s.Quotes), MaxDisplayQuotes)
	}
	// Ascending by price, cheapest first.
	wantPrices := []float64{130, 140, 150, 160}
	for i, q := range s.Quotes {
		if q.Price != wantPrices[i] {
			t.Fatalf("quote %d price = %.0f, want %.0f", i, q.Price, wantPrices[i])
		}
	}
	// Average covers all six suppliers, not just the displayed four.
	want := (150.0 + 140 + 180 + 160 + 200 + 130) / 6
	if math.Abs(s.AveragePrice-want) > 1e-9 {
		t.Fatalf("average = %.2f, want %.2f over full set", s.AveragePrice, want)
	}
	if s.MinPrice != 130 || s.MaxPrice != 200 {
		t.Fatalf("min/max = %.0f/%.0f, want 130/200", s.MinPrice, s.MaxPrice)
	}
}

func TestBuildSnapshotStampsScrapeTime(t *testing.T) {
	ts := time.Date(2026, 8, 20, 6, 0, 0, 0, time.UTC)
	snap := newTestAggregator().BuildSnapshot("RUH-01", ts, nil)
	if snap.Branch != "RUH-01" || !snap.RefreshedAt.Equal(ts) {
		t.Fatalf("snapshot = %+v, want branch RUH-01 at %s", snap, ts)
	}
}

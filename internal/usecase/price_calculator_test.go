package usecase

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"RentRate/internal/domain/models"
	domrepo "RentRate/internal/domain/repository"
	domsvc "RentRate/internal/domain/service"
	"RentRate/internal/services/catalog"
	"RentRate/internal/services/competitor"
	"RentRate/internal/services/rules"
)

type fakePredictor struct {
	est      models.DemandEstimate
	demandAt func(price float64) float64
}

func (f *fakePredictor) Predict(ctx context.Context, q domsvc.ModelQuery, currentPrice, referencePrice float64) (models.DemandEstimate, error) {
	if f.demandAt != nil {
		d := f.demandAt(currentPrice)
		return models.DemandEstimate{
			BaselineDemand:   d,
			ElasticityFactor: 1.0,
			FinalDemand:      d,
			Confidence:       models.ConfidenceHigh,
		}, nil
	}
	return f.est, nil
}

type fakeHistory struct {
	avg domrepo.HistoricalAverages
	err error
}

func (f *fakeHistory) Averages(ctx context.Context, branchID int64, category models.VehicleCategory) (domrepo.HistoricalAverages, error) {
	return f.avg, f.err
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
}

func newTestCalculator(pred domsvc.DemandPredictor, hist domrepo.DemandHistory, store *competitor.Store) *PriceCalculator {
	cl := catalog.NewClassifier(catalog.Default())
	c := NewPriceCalculator(cl, pred, hist, store, rules.NewEngine(), nil)
	c.SetClock(fixedNow)
	return c
}

func baseRequest() models.PriceRequest {
	return models.PriceRequest{
		BranchID:          7,
		Branch:            "JED-01",
		Category:          "Standard",
		Date:              "2026-03-06",
		BasePrice:         188,
		TotalVehicles:     100,
		AvailableVehicles: 35,
		Events:            models.EventFlags{IsRamadan: true, IsWeekend: true, CityTier: "none"},
	}
}

func TestPriceRamadanWeekendScenario(t *testing.T) {
	pred := &fakePredictor{est: models.DemandEstimate{
		BaselineDemand: 12, ElasticityFactor: 1.0, FinalDemand: 12, Confidence: models.ConfidenceHigh,
	}}
	hist := &fakeHistory{avg: domrepo.HistoricalAverages{AvgDemand: 10, AvgDailyRate: 195, Samples: 200}}
	c := newTestCalculator(pred, hist, competitor.NewStore(""))

	res, err := c.Price(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if res.DemandMultiplier != 1.10 || res.SupplyMultiplier != 1.05 {
		t.Fatalf("multipliers = %.2f/%.2f, want 1.10/1.05", res.DemandMultiplier, res.SupplyMultiplier)
	}
	if math.Abs(res.EventMultiplier-1.26) > 1e-9 {
		t.Fatalf("event multiplier = %.4f, want 1.26", res.EventMultiplier)
	}
	if math.Abs(res.FinalPrice-273.5964) > 1e-4 {
		t.Fatalf("final price = %.4f, want 273.5964", res.FinalPrice)
	}
	if res.Explanation == "" {
		t.Fatal("expected explanation")
	}
}

func TestPriceRejectsEmptyFleet(t *testing.T) {
	c := newTestCalculator(&fakePredictor{est: models.DemandEstimate{Confidence: models.ConfidenceHigh}}, &fakeHistory{}, competitor.NewStore(""))
	req := baseRequest()
	req.TotalVehicles = 0
	req.AvailableVehicles = 0

	_, err := c.Price(context.Background(), req)
	if !models.IsInvalidInput(err) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestPriceRejectsBadDate(t *testing.T) {
	c := newTestCalculator(&fakePredictor{}, &fakeHistory{}, competitor.NewStore(""))
	req := baseRequest()
	req.Date = "06/03/2026"
	if _, err := c.Price(context.Background(), req); !models.IsInvalidInput(err) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestPriceClassifiesVehicleName(t *testing.T) {
	pred := &fakePredictor{est: models.DemandEstimate{FinalDemand: 10, ElasticityFactor: 1, Confidence: models.ConfidenceHigh}}
	hist := &fakeHistory{avg: domrepo.HistoricalAverages{AvgDemand: 10}}
	c := newTestCalculator(pred, hist, competitor.NewStore(""))

	req := baseRequest()
	req.Category = ""
	req.VehicleName = "Toyota RAV4"
	res, err := c.Price(context.Background(), req)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if res.Category != models.CategorySUVStandard {
		t.Fatalf("category = %s, want SUV Standard", res.Category)
	}
}

func TestPriceLowConfidenceFallsBackToHistory(t *testing.T) {
	pred := &fakePredictor{est: models.DemandEstimate{Confidence: models.ConfidenceLow}}
	hist := &fakeHistory{avg: domrepo.HistoricalAverages{AvgDemand: 10, Samples: 50}}
	c := newTestCalculator(pred, hist, competitor.NewStore(""))

	res, err := c.Price(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	// finalDemand falls back to the historical average: ratio 1.0, neutral.
	if res.DemandMultiplier != 1.00 {
		t.Fatalf("demand multiplier = %.2f, want neutral fallback", res.DemandMultiplier)
	}
	if !hasWarning(res.Warnings, "historical average") {
		t.Fatalf("warnings = %v, want fallback warning", res.Warnings)
	}
}

func TestPriceLowConfidenceWithoutHistoryFails(t *testing.T) {
	pred := &fakePredictor{est: models.DemandEstimate{Confidence: models.ConfidenceLow}}
	c := newTestCalculator(pred, &fakeHistory{}, competitor.NewStore(""))

	_, err := c.Price(context.Background(), baseRequest())
	if !models.IsMissingSignal(err) {
		t.Fatalf("expected missing signal, got %v", err)
	}
}

func TestPriceDefaultBasePrice(t *testing.T) {
	pred := &fakePredictor{est: models.DemandEstimate{FinalDemand: 10, ElasticityFactor: 1, Confidence: models.ConfidenceHigh}}
	hist := &fakeHistory{avg: domrepo.HistoricalAverages{AvgDemand: 10}}
	c := newTestCalculator(pred, hist, competitor.NewStore(""))

	req := baseRequest()
	req.BasePrice = 0
	req.Events = models.EventFlags{CityTier: "none"}
	req.AvailableVehicles = 60
	res, err := c.Price(context.Background(), req)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if res.BasePrice != 188 {
		t.Fatalf("base price = %.0f, want Standard default 188", res.BasePrice)
	}
	if !hasWarning(res.Warnings, "category default") {
		t.Fatalf("warnings = %v, want default base price warning", res.Warnings)
	}
}

func TestPriceCompetitorFreshnessWarnings(t *testing.T) {
	pred := &fakePredictor{est: models.DemandEstimate{FinalDemand: 10, ElasticityFactor: 1, Confidence: models.ConfidenceHigh}}
	hist := &fakeHistory{avg: domrepo.HistoricalAverages{AvgDemand: 10}}

	store := competitor.NewStore("")
	agg := competitor.NewAggregator(catalog.NewClassifier(catalog.Default()))
	quotes := []models.CompetitorQuote{
		{Supplier: "Budget", VehicleName: "Toyota Camry", Price: 200},
		{Supplier: "Hertz", VehicleName: "Hyundai Sonata", Price: 210},
	}

	// Stale snapshot (30h old): benchmark kept, warning added.
	if err := store.Replace(agg.BuildSnapshot("JED-01", fixedNow().Add(-30*time.Hour), quotes)); err != nil {
		t.Fatal(err)
	}
	c := newTestCalculator(pred, hist, store)
	res, err := c.Price(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if res.Competitor == nil {
		t.Fatal("stale benchmark should still be attached")
	}
	if !hasWarning(res.Warnings, "hours old") {
		t.Fatalf("warnings = %v, want staleness warning", res.Warnings)
	}

	// Very old snapshot (3 days): benchmark dropped.
	if err := store.Replace(agg.BuildSnapshot("JED-01", fixedNow().Add(-72*time.Hour), quotes)); err != nil {
		t.Fatal(err)
	}
	res, err = c.Price(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if res.Competitor != nil {
		t.Fatal("very old benchmark must be omitted")
	}
	if !hasWarning(res.Warnings, "too old") {
		t.Fatalf("warnings = %v, want too-old warning", res.Warnings)
	}
}

func TestOptimizeMarksRevenueMaximum(t *testing.T) {
	// Linear demand curve: demand = 40 - 0.1*price. Revenue peaks at 200.
	pred := &fakePredictor{demandAt: func(p float64) float64 { return 40 - 0.1*p }}
	hist := &fakeHistory{avg: domrepo.HistoricalAverages{AvgDemand: 10}}
	c := newTestCalculator(pred, hist, competitor.NewStore(""))

	req := models.OptimizeRequest{
		PriceRequest: baseRequest(),
		MinPrice:     100,
		MaxPrice:     300,
		Steps:        21,
	}
	res, err := c.Optimize(context.Background(), req)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if len(res.Points) != 21 {
		t.Fatalf("points = %d, want 21", len(res.Points))
	}
	if math.Abs(res.OptimalPrice-200) > 1e-9 {
		t.Fatalf("optimal price = %.2f, want 200", res.OptimalPrice)
	}
	optimal := 0
	for _, p := range res.Points {
		if p.IsOptimal {
			optimal++
		}
	}
	if optimal != 1 {
		t.Fatalf("optimal points = %d, want exactly 1", optimal)
	}
}

func TestOptimizeRejectsBadRange(t *testing.T) {
	c := newTestCalculator(&fakePredictor{}, &fakeHistory{}, competitor.NewStore(""))
	req := models.OptimizeRequest{PriceRequest: baseRequest(), MinPrice: 300, MaxPrice: 100}
	if _, err := c.Optimize(context.Background(), req); !models.IsInvalidInput(err) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestCompetitorsMissingBranch(t *testing.T) {
	c := newTestCalculator(&fakePredictor{}, &fakeHistory{}, competitor.NewStore(""))
	if _, err := c.Competitors("XXX-99"); !models.IsMissingSignal(err) {
		t.Fatalf("expected missing signal, got %v", err)
	}
}

func TestClassifyEndpoint(t *testing.T) {
	c := newTestCalculator(&fakePredictor{}, &fakeHistory{}, competitor.NewStore(""))
	res, err := c.Classify("BMW X6M 2023")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Category != models.CategoryLuxurySUV {
		t.Fatalf("category = %s, want Luxury SUV", res.Category)
	}
	if _, err := c.Classify(""); !models.IsInvalidInput(err) {
		t.Fatalf("expected invalid input for empty vehicle, got %v", err)
	}
}

func hasWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

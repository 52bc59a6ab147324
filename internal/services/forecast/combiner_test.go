package forecast

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"RentRate/internal/domain/models"
	domsvc "RentRate/internal/domain/service"
)

type fakeBaseline struct {
	demand float64
	err    error
}

func (f fakeBaseline) PredictBaseline(ctx context.Context, q domsvc.ModelQuery) (float64, error) {
	return f.demand, f.err
}

type fakeElasticity struct {
	byPrice map[float64]float64
	err     error
	calls   []float64
}

func (f *fakeElasticity) PredictDemand(ctx context.Context, q domsvc.ModelQuery, price float64) (float64, error) {
	f.calls = append(f.calls, price)
	if f.err != nil {
		return 0, f.err
	}
	return f.byPrice[price], nil
}

func testQuery() domsvc.ModelQuery {
	return domsvc.ModelQuery{
		BranchID: 7,
		Category: models.CategoryStandard,
		Date:     time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
	}
}

func TestPredictHighConfidence(t *testing.T) {
	el := &fakeElasticity{byPrice: map[float64]float64{250: 12, 300: 10}}
	c := NewHybridCombiner(fakeBaseline{demand: 8}, el)

	est, err := c.Predict(context.Background(), testQuery(), 250, 300)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if est.Confidence != models.ConfidenceHigh {
		t.Fatalf("confidence = %s, want High", est.Confidence)
	}
	if math.Abs(est.ElasticityFactor-1.2) > 1e-9 {
		t.Fatalf("elasticity factor = %.4f, want 1.20", est.ElasticityFactor)
	}
	if math.Abs(est.FinalDemand-9.6) > 1e-9 {
		t.Fatalf("final demand = %.4f, want 9.60", est.FinalDemand)
	}
	if est.Explanation == "" {
		t.Fatal("expected explanation text")
	}
}

func TestPredictClampsElasticity(t *testing.T) {
	// 5x the reference demand would extrapolate wildly; clamp to 2.0.
	el := &fakeElasticity{byPrice: map[float64]float64{100: 50, 300: 10}}
	c := NewHybridCombiner(fakeBaseline{demand: 10}, el)

	est, err := c.Predict(context.Background(), testQuery(), 100, 300)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if est.ElasticityFactor != ElasticityMax {
		t.Fatalf("factor = %.2f, want clamped to %.2f", est.ElasticityFactor, ElasticityMax)
	}

	// And the other direction clamps to 0.5.
	el = &fakeElasticity{byPrice: map[float64]float64{900: 1, 300: 10}}
	c = NewHybridCombiner(fakeBaseline{demand: 10}, el)
	est, err = c.Predict(context.Background(), testQuery(), 900, 300)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if est.ElasticityFactor != ElasticityMin {
		t.Fatalf("factor = %.2f, want clamped to %.2f", est.ElasticityFactor, ElasticityMin)
	}
}

func TestPredictDefaultReferencePrice(t *testing.T) {
	el := &fakeElasticity{byPrice: map[float64]float64{200: 10, DefaultReferencePrice: 10}}
	c := NewHybridCombiner(fakeBaseline{demand: 5}, el)

	if _, err := c.Predict(context.Background(), testQuery(), 200, 0); err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(el.calls) != 2 || el.calls[1] != DefaultReferencePrice {
		t.Fatalf("reference calls = %v, want second at %.0f", el.calls, DefaultReferencePrice)
	}
}

func TestPredictMediumWhenElasticityDown(t *testing.T) {
	el := &fakeElasticity{err: errors.New("connection refused")}
	c := NewHybridCombiner(fakeBaseline{demand: 8}, el)

	est, err := c.Predict(context.Background(), testQuery(), 250, 300)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if est.Confidence != models.ConfidenceMedium {
		t.Fatalf("confidence = %s, want Medium", est.Confidence)
	}
	if est.ElasticityFactor != 1.0 {
		t.Fatalf("factor = %.2f, want neutral 1.0", est.ElasticityFactor)
	}
	if est.FinalDemand != 8 {
		t.Fatalf("final demand = %.2f, want baseline 8", est.FinalDemand)
	}
}

func TestPredictLowWhenBaselineDown(t *testing.T) {
	el := &fakeElasticity{byPrice: map[float64]float64{250: 12, 300: 10}}
	c := NewHybridCombiner(fakeBaseline{err: errors.New("timeout")}, el)

	est, err := c.Predict(context.Background(), testQuery(), 250, 300)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if est.Confidence != models.ConfidenceLow {
		t.Fatalf("confidence = %s, want Low", est.Confidence)
	}
}

func TestPredictLowWithoutModels(t *testing.T) {
	c := NewHybridCombiner(nil, nil)
	est, err := c.Predict(context.Background(), testQuery(), 250, 300)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if est.Confidence != models.ConfidenceLow {
		t.Fatalf("confidence = %s, want Low", est.Confidence)
	}
}

func TestPredictNegativeBaselineFloorsAtZero(t *testing.T) {
	c := NewHybridCombiner(fakeBaseline{demand: -3}, nil)
	est, err := c.Predict(context.Background(), testQuery(), 250, 300)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if est.BaselineDemand != 0 || est.FinalDemand != 0 {
		t.Fatalf("demand = %.2f/%.2f, want floored at 0", est.BaselineDemand, est.FinalDemand)
	}
}

package repository

import (
	"context"

	"RentRate/internal/domain/models"
)

// HistoricalAverages holds the per-(branch, category) aggregates the engine
// needs: the demand ratio denominator and the elasticity reference price.
type HistoricalAverages struct {
	AvgDemand    float64
	AvgDailyRate float64
	Samples      int
}

// DemandHistory reads historical demand and rate aggregates. Read-only.
type DemandHistory interface {
	Averages(ctx context.Context, branchID int64, category models.VehicleCategory) (HistoricalAverages, error)
}

// CompetitorReader exposes the current competitor snapshot for a branch.
// A nil snapshot means no benchmark data is available.
type CompetitorReader interface {
	Snapshot(branch string) *models.CompetitorSnapshot
}

// DecisionPublisher streams finished pricing decisions to downstream
// consumers (audit, analytics). Best effort: a publish failure never fails
// the pricing request.
type DecisionPublisher interface {
	PublishDecision(ctx context.Context, res *models.PricingResult) error
}

// Metrics abstracts the metrics backend used by usecases.
type Metrics interface {
	RecordPriceRequest(category string)
	RecordFinalPrice(category string, price float64)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}

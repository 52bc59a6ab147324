package service

import (
	"context"
	"time"

	"RentRate/internal/domain/models"
)

// ModelQuery identifies the (branch, category, date) slice a demand model is
// asked about, plus the structural flags the models were trained on.
type ModelQuery struct {
	BranchID        int64
	Category        models.VehicleCategory
	Date            time.Time
	IsAirportBranch bool
	Events          models.EventContext
}

// BaselineModel is the structural demand model: accurate for typical demand,
// blind to price.
type BaselineModel interface {
	PredictBaseline(ctx context.Context, q ModelQuery) (float64, error)
}

// ElasticityModel is the price-sensitive model. It is queried twice per
// estimate: at the candidate price and at the reference price.
type ElasticityModel interface {
	PredictDemand(ctx context.Context, q ModelQuery, price float64) (float64, error)
}

// DemandPredictor composes the two model outputs into one estimate.
type DemandPredictor interface {
	Predict(ctx context.Context, q ModelQuery, currentPrice, referencePrice float64) (models.DemandEstimate, error)
}

// Classifier maps an arbitrary vehicle name to an internal category. Total:
// it always resolves via its fallback tiers.
type Classifier interface {
	Classify(vehicleName string) models.ClassificationResult
}

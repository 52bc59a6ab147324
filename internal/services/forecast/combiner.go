package forecast

import (
	"context"
	"fmt"

	"RentRate/internal/domain/models"
	domsvc "RentRate/internal/domain/service"
	applogger "RentRate/pkg/logger"
)

// Elasticity bounds prevent extreme extrapolation when the price model is
// queried far outside its training range.
const (
	ElasticityMin = 0.5
	ElasticityMax = 2.0
)

// DefaultReferencePrice is used when no historical average rate exists for a
// branch/category pair.
const DefaultReferencePrice = 300.0

// HybridCombiner blends the structural baseline forecast with the
// price-elasticity signal: finalDemand = baseline × clamp(elasticity).
// It only composes model outputs; it never retrains anything.
type HybridCombiner struct {
	baseline   domsvc.BaselineModel
	elasticity domsvc.ElasticityModel
	l          *applogger.Logger
}

func NewHybridCombiner(baseline domsvc.BaselineModel, elasticity domsvc.ElasticityModel) *HybridCombiner {
	return &HybridCombiner{baseline: baseline, elasticity: elasticity}
}

// SetLogger injects a structured logger.
func (c *HybridCombiner) SetLogger(l *applogger.Logger) { c.l = l }

// Predict builds the demand estimate for one request. Model failures
// degrade confidence instead of failing the request: Medium when only the
// baseline answered (neutral elasticity), Low when neither did (caller must
// fall back to the historical average).
func (c *HybridCombiner) Predict(ctx context.Context, q domsvc.ModelQuery, currentPrice, referencePrice float64) (models.DemandEstimate, error) {
	est := models.DemandEstimate{ElasticityFactor: 1.0}

	baselineOK := false
	if c.baseline != nil {
		v, err := c.baseline.PredictBaseline(ctx, q)
		if err != nil {
			if c.l != nil {
				c.l.Warn("baseline model unavailable", applogger.Error(err))
			}
		} else {
			if v < 0 {
				v = 0
			}
			est.BaselineDemand = v
			baselineOK = true
		}
	}

	elasticityOK := false
	if c.elasticity != nil {
		if f, err := c.elasticityFactor(ctx, q, currentPrice, referencePrice); err != nil {
			if c.l != nil {
				c.l.Warn("elasticity model unavailable", applogger.Error(err))
			}
		} else {
			est.ElasticityFactor = f
			elasticityOK = true
		}
	}

	est.FinalDemand = est.BaselineDemand * est.ElasticityFactor

	switch {
	case baselineOK && elasticityOK:
		est.Confidence = models.ConfidenceHigh
	case baselineOK:
		est.Confidence = models.ConfidenceMedium
	default:
		est.Confidence = models.ConfidenceLow
	}

	est.Explanation = explain(est)
	return est, nil
}

// elasticityFactor queries the price model at the candidate and reference
// prices and returns their clamped ratio.
func (c *HybridCombiner) elasticityFactor(ctx context.Context, q domsvc.ModelQuery, currentPrice, referencePrice float64) (float64, error) {
	if referencePrice <= 0 {
		referencePrice = DefaultReferencePrice
	}
	atCurrent, err := c.elasticity.PredictDemand(ctx, q, currentPrice)
	if err != nil {
		return 0, err
	}
	atReference, err := c.elasticity.PredictDemand(ctx, q, referencePrice)
	if err != nil {
		return 0, err
	}
	factor := 1.0
	if atReference > 0 {
		factor = atCurrent / atReference
	}
	if factor < ElasticityMin {
		factor = ElasticityMin
	}
	if factor > ElasticityMax {
		factor = ElasticityMax
	}
	return factor, nil
}

func explain(est models.DemandEstimate) string {
	var priceEffect string
	switch {
	case est.ElasticityFactor > 1.05:
		priceEffect = fmt.Sprintf("Price below average (+%.1f%% demand boost)", (est.ElasticityFactor-1)*100)
	case est.ElasticityFactor < 0.95:
		priceEffect = fmt.Sprintf("Price above average (%.1f%% demand reduction)", (est.ElasticityFactor-1)*100)
	default:
		priceEffect = "Price near average (minimal impact)"
	}
	return fmt.Sprintf("Baseline demand: %.1f bookings. %s. Final estimate: %.1f bookings.",
		est.BaselineDemand, priceEffect, est.FinalDemand)
}

var _ domsvc.DemandPredictor = (*HybridCombiner)(nil)

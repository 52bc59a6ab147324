package usecase

import (
	"context"
	"fmt"
	"time"

	"RentRate/internal/domain/models"
	domrepo "RentRate/internal/domain/repository"
	domsvc "RentRate/internal/domain/service"
	"RentRate/internal/services/rules"
	applogger "RentRate/pkg/logger"
)

// Default daily base rates per category, used when a request carries no base
// price. Derived from fleet-wide historical averages.
var defaultBasePrices = map[models.VehicleCategory]float64{
	models.CategoryEconomy:     102,
	models.CategoryCompact:     143,
	models.CategoryStandard:    188,
	models.CategorySUVCompact:  204,
	models.CategorySUVStandard: 224,
	models.CategorySUVLarge:    317,
	models.CategoryLuxurySedan: 515,
	models.CategoryLuxurySUV:   893,
}

// PriceCalculator orchestrates one pricing decision: classify, forecast
// demand, apply the multiplier rules, and attach the competitor benchmark.
type PriceCalculator struct {
	classifier  domsvc.Classifier
	predictor   domsvc.DemandPredictor
	history     domrepo.DemandHistory
	competitors domrepo.CompetitorReader
	engine      *rules.Engine
	metrics     domrepo.Metrics
	decisions   domrepo.DecisionPublisher
	l           *applogger.Logger
	now         func() time.Time
}

func NewPriceCalculator(
	classifier domsvc.Classifier,
	predictor domsvc.DemandPredictor,
	history domrepo.DemandHistory,
	competitors domrepo.CompetitorReader,
	engine *rules.Engine,
	metrics domrepo.Metrics,
) *PriceCalculator {
	return &PriceCalculator{
		classifier:  classifier,
		predictor:   predictor,
		history:     history,
		competitors: competitors,
		engine:      engine,
		metrics:     metrics,
		now:         time.Now,
	}
}

// SetLogger injects a structured logger.
func (c *PriceCalculator) SetLogger(l *applogger.Logger) { c.l = l }

// SetClock overrides the time source, for tests.
func (c *PriceCalculator) SetClock(now func() time.Time) { c.now = now }

// SetDecisionPublisher enables the pricing decision audit stream.
func (c *PriceCalculator) SetDecisionPublisher(p domrepo.DecisionPublisher) { c.decisions = p }

// Price runs one full pricing decision.
func (c *PriceCalculator) Price(ctx context.Context, req models.PriceRequest) (*models.PricingResult, error) {
	start := c.now()

	date, err := parseDate(req.Date)
	if err != nil {
		c.countError("invalid_input")
		return nil, err
	}
	category, warnings, err := c.resolveCategory(req)
	if err != nil {
		c.countError("invalid_input")
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.RecordPriceRequest(string(category))
	}

	basePrice := req.BasePrice
	if basePrice <= 0 {
		basePrice = defaultBasePrices[category]
		warnings = append(warnings, fmt.Sprintf("no base price supplied, using category default %.0f", basePrice))
	}

	util := models.UtilizationSnapshot{
		BranchID:          req.BranchID,
		TotalVehicles:     req.TotalVehicles,
		AvailableVehicles: req.AvailableVehicles,
	}
	events := req.Events.Context()

	hist := c.lookupHistory(ctx, req.BranchID, category, &warnings)

	q := domsvc.ModelQuery{
		BranchID:        req.BranchID,
		Category:        category,
		Date:            date,
		IsAirportBranch: req.IsAirportBranch,
		Events:          events,
	}
	est, err := c.predictor.Predict(ctx, q, basePrice, hist.AvgDailyRate)
	if err != nil {
		c.countError("predict")
		return nil, fmt.Errorf("predict demand: %w", err)
	}

	finalDemand := est.FinalDemand
	if est.Confidence == models.ConfidenceLow {
		if hist.AvgDemand <= 0 {
			c.countError("missing_signal")
			return nil, models.MissingSignal("demand",
				"demand models unavailable and no historical demand to fall back to")
		}
		finalDemand = hist.AvgDemand
		warnings = append(warnings, "demand models unavailable, using historical average demand")
	}

	m, err := c.engine.Compute(finalDemand, hist.AvgDemand, util, events, req.IsAirportBranch)
	if err != nil {
		c.countError("invalid_input")
		return nil, err
	}
	finalPrice, err := c.engine.FinalPrice(basePrice, m)
	if err != nil {
		c.countError("invalid_input")
		return nil, err
	}

	summary := c.competitorSummary(req.Branch, category, &warnings)

	res := &models.PricingResult{
		BranchID:           req.BranchID,
		Category:           category,
		Date:               date,
		BasePrice:          basePrice,
		DemandMultiplier:   m.Demand,
		SupplyMultiplier:   m.Supply,
		EventMultiplier:    m.Event,
		CombinedMultiplier: m.Combined,
		FinalPrice:         finalPrice,
		Demand:             est,
		Competitor:         summary,
		Explanation:        m.Explanation(),
		Warnings:           warnings,
	}

	if c.metrics != nil {
		c.metrics.RecordFinalPrice(string(category), finalPrice)
		c.metrics.RecordLatency("price", c.now().Sub(start).Seconds())
	}
	if c.decisions != nil {
		if err := c.decisions.PublishDecision(ctx, res); err != nil {
			// Audit stream is best effort, never fail the request over it.
			if c.l != nil {
				c.l.Warn("decision publish failed", applogger.Error(err))
			}
		}
	}
	if c.l != nil {
		c.l.Info("price computed",
			applogger.Int("branch_id", int(req.BranchID)),
			applogger.String("category", string(category)),
			applogger.Any("final_price", finalPrice),
			applogger.String("confidence", string(est.Confidence)),
		)
	}
	return res, nil
}

// Optimize sweeps candidate prices across [MinPrice, MaxPrice] and marks the
// revenue-maximizing point. The sweep uses raw model demand; the multiplier
// rules do not apply here because they scale price, not demand.
func (c *PriceCalculator) Optimize(ctx context.Context, req models.OptimizeRequest) (*models.OptimizationResult, error) {
	start := c.now()

	date, err := parseDate(req.Date)
	if err != nil {
		c.countError("invalid_input")
		return nil, err
	}
	category, warnings, err := c.resolveCategory(req.PriceRequest)
	if err != nil {
		c.countError("invalid_input")
		return nil, err
	}
	if req.MinPrice <= 0 || req.MaxPrice < req.MinPrice {
		c.countError("invalid_input")
		return nil, models.InvalidInput("price_range", "min must be positive and not exceed max")
	}
	steps := req.Steps
	if steps < 2 {
		steps = 2
	}

	hist := c.lookupHistory(ctx, req.BranchID, category, &warnings)
	q := domsvc.ModelQuery{
		BranchID:        req.BranchID,
		Category:        category,
		Date:            date,
		IsAirportBranch: req.IsAirportBranch,
		Events:          req.Events.Context(),
	}

	res := &models.OptimizationResult{
		BranchID: req.BranchID,
		Category: category,
		Date:     date,
		Points:   make([]models.PricePoint, 0, steps),
		Warnings: warnings,
	}

	stepSize := (req.MaxPrice - req.MinPrice) / float64(steps-1)
	bestIdx, bestRevenue := -1, -1.0
	for i := 0; i < steps; i++ {
		price := req.MinPrice + float64(i)*stepSize
		est, err := c.predictor.Predict(ctx, q, price, hist.AvgDailyRate)
		if err != nil {
			c.countError("predict")
			return nil, fmt.Errorf("predict demand at %.2f: %w", price, err)
		}
		if i == 0 {
			res.Confidence = est.Confidence
			if est.Confidence == models.ConfidenceLow {
				c.countError("missing_signal")
				return nil, models.MissingSignal("demand",
					"demand models unavailable, cannot sweep price sensitivity")
			}
		}
		p := models.PricePoint{
			Price:            price,
			PredictedDemand:  est.FinalDemand,
			ExpectedRevenue:  price * est.FinalDemand,
			ElasticityFactor: est.ElasticityFactor,
		}
		if p.ExpectedRevenue > bestRevenue {
			bestRevenue = p.ExpectedRevenue
			bestIdx = i
		}
		res.Points = append(res.Points, p)
	}
	if bestIdx >= 0 {
		res.Points[bestIdx].IsOptimal = true
		res.OptimalPrice = res.Points[bestIdx].Price
	}

	if c.metrics != nil {
		c.metrics.RecordLatency("optimize", c.now().Sub(start).Seconds())
	}
	return res, nil
}

// Competitors returns the branch snapshot annotated with freshness.
func (c *PriceCalculator) Competitors(branch string) (*models.CompetitorReport, error) {
	snap := c.competitors.Snapshot(branch)
	if snap == nil {
		return nil, models.MissingSignal("competitor_prices", "no snapshot for branch "+branch)
	}
	age := c.now().Sub(snap.RefreshedAt)
	return &models.CompetitorReport{
		Snapshot:  snap,
		Freshness: snap.FreshnessAt(c.now()),
		AgeHours:  age.Hours(),
	}, nil
}

// Classify exposes the vehicle classifier for the diagnostics endpoint.
func (c *PriceCalculator) Classify(vehicle string) (models.ClassificationResult, error) {
	if vehicle == "" {
		return models.ClassificationResult{}, models.InvalidInput("vehicle", "must not be empty")
	}
	return c.classifier.Classify(vehicle), nil
}

func (c *PriceCalculator) resolveCategory(req models.PriceRequest) (models.VehicleCategory, []string, error) {
	if req.Category != "" {
		cat, err := models.ParseCategory(req.Category)
		if err != nil {
			return "", nil, models.InvalidInput("category", "unknown category "+req.Category)
		}
		return cat, nil, nil
	}
	if req.VehicleName == "" {
		return "", nil, models.InvalidInput("category", "either category or vehicle_name is required")
	}
	cls := c.classifier.Classify(req.VehicleName)
	var warnings []string
	if cls.Tier == models.MatchKeyword {
		warnings = append(warnings, fmt.Sprintf("vehicle %q not in catalog, classified as %s by keyword fallback",
			req.VehicleName, cls.Category))
	}
	return cls.Category, warnings, nil
}

// lookupHistory fetches historical averages, degrading to zeros with a
// warning when the store is down. Zero averages flow through as "no history".
func (c *PriceCalculator) lookupHistory(ctx context.Context, branchID int64, category models.VehicleCategory, warnings *[]string) domrepo.HistoricalAverages {
	if c.history == nil {
		return domrepo.HistoricalAverages{}
	}
	hist, err := c.history.Averages(ctx, branchID, category)
	if err != nil {
		if c.l != nil {
			c.l.Warn("demand history unavailable", applogger.Error(err))
		}
		*warnings = append(*warnings, "demand history unavailable")
		return domrepo.HistoricalAverages{}
	}
	return hist
}

// competitorSummary attaches the category benchmark when a usable snapshot
// exists. Stale snapshots are used with a warning; very old ones are dropped.
func (c *PriceCalculator) competitorSummary(branch string, category models.VehicleCategory, warnings *[]string) *models.CategorySummary {
	if c.competitors == nil {
		return nil
	}
	snap := c.competitors.Snapshot(branch)
	if snap == nil {
		*warnings = append(*warnings, "no competitor data for branch")
		return nil
	}
	now := c.now()
	switch snap.FreshnessAt(now) {
	case models.FreshnessStale:
		*warnings = append(*warnings, fmt.Sprintf("competitor data is %.0f hours old", now.Sub(snap.RefreshedAt).Hours()))
	case models.FreshnessVeryOld:
		err := models.StaleData("competitor_prices", now.Sub(snap.RefreshedAt))
		if c.l != nil {
			c.l.Warn("competitor snapshot too old to benchmark", applogger.Error(err))
		}
		*warnings = append(*warnings, "competitor data too old, benchmark omitted")
		return nil
	}
	summary, ok := snap.Summaries[category]
	if !ok {
		*warnings = append(*warnings, "no competitor quotes for category "+string(category))
		return nil
	}
	return &summary
}

func (c *PriceCalculator) countError(kind string) {
	if c.metrics != nil {
		c.metrics.RecordError(kind)
	}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, models.InvalidInput("date", "must be YYYY-MM-DD")
	}
	return d, nil
}

package models

import "time"

// Confidence tiers for a demand estimate.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// DemandEstimate is the combined output of the two demand models for one
// pricing request. Created per request, never persisted.
type DemandEstimate struct {
	BaselineDemand   float64    `json:"baseline_demand"`
	ElasticityFactor float64    `json:"elasticity_factor"`
	FinalDemand      float64    `json:"final_demand"`
	Confidence       Confidence `json:"confidence"`
	Explanation      string     `json:"explanation"`
}

// UtilizationSnapshot is the fleet state of one branch at request time.
type UtilizationSnapshot struct {
	BranchID          int64 `json:"branch_id"`
	TotalVehicles     int   `json:"total_vehicles"`
	AvailableVehicles int   `json:"available_vehicles"`
}

// AvailabilityPct returns available fleet share in percent. Callers must
// reject TotalVehicles == 0 before using this.
func (u UtilizationSnapshot) AvailabilityPct() float64 {
	return float64(u.AvailableVehicles) / float64(u.TotalVehicles) * 100
}

// CityTier marks branches in cities with a standing pilgrimage premium.
type CityTier string

const (
	CityNone   CityTier = "none"
	CityMedina CityTier = "medina"
	CityMecca  CityTier = "mecca"
)

// EventContext carries the calendar flags for one pricing date. Immutable
// within a request.
type EventContext struct {
	IsHoliday        bool     `json:"is_holiday"`
	IsRamadan        bool     `json:"is_ramadan"`
	IsHajj           bool     `json:"is_hajj"`
	IsUmrahSeason    bool     `json:"is_umrah_season"`
	IsFestival       bool     `json:"is_festival"`
	IsSportsEvent    bool     `json:"is_sports_event"`
	IsSchoolVacation bool     `json:"is_school_vacation"`
	IsWeekend        bool     `json:"is_weekend"`
	CityTier         CityTier `json:"city_tier"`
}

// CompetitorQuote is one externally observed price for a named vehicle from
// one supplier. Ephemeral: classified, aggregated, then discarded.
type CompetitorQuote struct {
	Supplier    string  `json:"supplier"`
	VehicleName string  `json:"vehicle_name"`
	Price       float64 `json:"price"`
}

// CategorySummary is the aggregated competitor view for one category.
// Quotes holds at most the 4 cheapest entries ascending by price; the
// average covers the full deduplicated set, not just the displayed ones.
type CategorySummary struct {
	Category      VehicleCategory   `json:"category"`
	AveragePrice  float64           `json:"avg_price"`
	MinPrice      float64           `json:"min_price"`
	MaxPrice      float64           `json:"max_price"`
	Quotes        []CompetitorQuote `json:"quotes"`
	SupplierCount int               `json:"supplier_count"`
	LowSample     bool              `json:"low_sample,omitempty"`
}

// CompetitorSnapshot is one wholesale refresh of competitor data for a
// branch. Replaced atomically, never mutated in place.
type CompetitorSnapshot struct {
	Branch      string                              `json:"branch"`
	RefreshedAt time.Time                           `json:"refreshed_at"`
	Summaries   map[VehicleCategory]CategorySummary `json:"summaries"`
}

// Freshness tiers mirror the original cache policy: fresh under 24h, stale
// under 48h, very old beyond that.
type Freshness string

const (
	FreshnessFresh   Freshness = "fresh"
	FreshnessStale   Freshness = "stale"
	FreshnessVeryOld Freshness = "very_old"
)

// FreshnessAt classifies the snapshot age relative to now.
func (s *CompetitorSnapshot) FreshnessAt(now time.Time) Freshness {
	age := now.Sub(s.RefreshedAt)
	switch {
	case age < 24*time.Hour:
		return FreshnessFresh
	case age < 48*time.Hour:
		return FreshnessStale
	default:
		return FreshnessVeryOld
	}
}

// PricingResult is the fully explained outcome of one pricing request.
// Constructed once, not mutated afterwards.
type PricingResult struct {
	BranchID           int64            `json:"branch_id"`
	Category           VehicleCategory  `json:"category"`
	Date               time.Time        `json:"date"`
	BasePrice          float64          `json:"base_price"`
	DemandMultiplier   float64          `json:"demand_multiplier"`
	SupplyMultiplier   float64          `json:"supply_multiplier"`
	EventMultiplier    float64          `json:"event_multiplier"`
	CombinedMultiplier float64          `json:"combined_multiplier"`
	FinalPrice         float64          `json:"final_price"`
	Demand             DemandEstimate   `json:"demand"`
	Competitor         *CategorySummary `json:"competitor,omitempty"`
	Explanation        string           `json:"explanation"`
	Warnings           []string         `json:"warnings,omitempty"`
}

// PricePoint is one row of a price optimization sweep.
type PricePoint struct {
	Price            float64 `json:"price"`
	PredictedDemand  float64 `json:"predicted_demand"`
	ExpectedRevenue  float64 `json:"expected_revenue"`
	ElasticityFactor float64 `json:"elasticity_factor"`
	IsOptimal        bool    `json:"is_optimal"`
}

// OptimizationResult is the full revenue sweep for one request. Points are
// ascending by price; exactly one carries IsOptimal.
type OptimizationResult struct {
	BranchID     int64           `json:"branch_id"`
	Category     VehicleCategory `json:"category"`
	Date         time.Time       `json:"date"`
	Points       []PricePoint    `json:"points"`
	OptimalPrice float64         `json:"optimal_price"`
	Confidence   Confidence      `json:"confidence"`
	Warnings     []string        `json:"warnings,omitempty"`
}

// CompetitorReport is the competitor snapshot for one branch annotated with
// its freshness at read time.
type CompetitorReport struct {
	Snapshot  *CompetitorSnapshot `json:"snapshot"`
	Freshness Freshness           `json:"freshness"`
	AgeHours  float64             `json:"age_hours"`
}

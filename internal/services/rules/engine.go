package rules

import (
	"fmt"
	"math"
	"strings"

	"RentRate/internal/domain/models"
)

// Price bounds: a recommended price never moves more than 20% below or 150%
// above the base price, whatever the multipliers say.
const (
	PriceFloorFactor = 0.80
	PriceCeilFactor  = 2.50
)

// EventCap bounds the running event product however many flags are set.
const EventCap = 1.60

// Thresholds live in ordered tables, first match wins. Tuning a step means
// editing data, not control flow.

type demandStep struct {
	MinRatio   float64
	Multiplier float64
	Reason     string
}

// Demand steps, descending by ratio. The final row catches everything below
// 0.70.
var demandSteps = []demandStep{
	{1.50, 1.20, "surging demand premium"},
	{1.30, 1.15, "high demand premium"},
	{1.10, 1.10, "elevated demand premium"},
	{0.90, 1.00, ""},
	{0.70, 0.95, "soft demand discount"},
	{math.Inf(-1), 0.85, "weak demand discount"},
}

type supplyStep struct {
	BelowPct   float64
	Multiplier float64
	Reason     string
}

// Supply steps, ascending by availability. Availability at or above the last
// threshold takes the surplus discount.
var supplySteps = []supplyStep{
	{20, 1.15, "critical availability premium"},
	{30, 1.10, "low availability premium"},
	{50, 1.05, "tight availability premium"},
	{70, 1.00, ""},
}

const (
	surplusMultiplier = 0.90
	surplusReason     = "surplus availability discount"
)

type eventRule struct {
	Applies    func(models.EventContext) bool
	Multiplier float64
	Reason     string
}

// seasonalRules are mutually exclusive: the first applicable wins.
var seasonalRules = []eventRule{
	{func(e models.EventContext) bool { return e.IsHajj }, 1.30, "Hajj event premium"},
	{func(e models.EventContext) bool { return e.IsRamadan }, 1.20, "Ramadan event premium"},
	{func(e models.EventContext) bool { return e.IsUmrahSeason }, 1.10, "Umrah season premium"},
}

// stackingRules apply independently on top of the seasonal rule.
var stackingRules = []eventRule{
	{func(e models.EventContext) bool { return e.IsHoliday }, 1.15, "holiday premium"},
	{func(e models.EventContext) bool { return e.IsFestival || e.IsSportsEvent }, 1.12, "festival/sports event premium"},
	{func(e models.EventContext) bool { return e.IsSchoolVacation }, 1.08, "school vacation premium"},
	{func(e models.EventContext) bool { return e.IsWeekend }, 1.05, "weekend premium"},
	{func(e models.EventContext) bool { return e.CityTier == models.CityMecca }, 1.15, "Mecca city premium"},
	{func(e models.EventContext) bool { return e.CityTier == models.CityMedina }, 1.10, "Medina city premium"},
}

// Multipliers is the explained rules-engine output for one request.
type Multipliers struct {
	Demand   float64
	Supply   float64
	Event    float64
	Combined float64
	Reasons  []string
}

// Explanation joins the fired-rule reasons for display.
func (m Multipliers) Explanation() string {
	if len(m.Reasons) == 0 {
		return "baseline pricing, no adjustments"
	}
	return strings.Join(m.Reasons, "; ")
}

// Engine computes the demand, supply, and event multipliers. Stateless and
// pure over its inputs.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Compute derives all three multipliers. finalDemand comes from the demand
// estimate (or the historical-average fallback when confidence is Low);
// historicalAvgDemand is the ratio denominator. The airport flag is accepted
// for interface completeness but applies no surcharge: airport effects
// belong to the demand model, not to a flat rule.
func (e *Engine) Compute(
	finalDemand, historicalAvgDemand float64,
	util models.UtilizationSnapshot,
	events models.EventContext,
	isAirportBranch bool,
) (Multipliers, error) {
	_ = isAirportBranch

	if util.TotalVehicles == 0 {
		return Multipliers{}, models.InvalidInput("total_vehicles", "must be positive, availability ratio undefined for an empty fleet")
	}
	if util.TotalVehicles < 0 {
		return Multipliers{}, models.InvalidInput("total_vehicles", "must not be negative")
	}
	if util.AvailableVehicles < 0 {
		return Multipliers{}, models.InvalidInput("available_vehicles", "must not be negative")
	}
	if util.AvailableVehicles > util.TotalVehicles {
		return Multipliers{}, models.InvalidInput("available_vehicles",
			fmt.Sprintf("%d exceeds fleet size %d", util.AvailableVehicles, util.TotalVehicles))
	}

	m := Multipliers{Demand: 1.0, Supply: 1.0, Event: 1.0}

	if historicalAvgDemand > 0 {
		ratio := finalDemand / historicalAvgDemand
		mult, reason := demandMultiplier(ratio)
		m.Demand = mult
		if reason != "" {
			m.Reasons = append(m.Reasons, reason)
		}
	} else {
		// No demand history: ratio undefined, stay neutral rather than guess.
		m.Reasons = append(m.Reasons, "no demand history, neutral demand multiplier")
	}

	supplyMult, supplyReason := supplyMultiplier(util.AvailabilityPct())
	m.Supply = supplyMult
	if supplyReason != "" {
		m.Reasons = append(m.Reasons, supplyReason)
	}

	eventMult, eventReasons := eventMultiplier(events)
	m.Event = eventMult
	m.Reasons = append(m.Reasons, eventReasons...)

	m.Combined = m.Demand * m.Supply * m.Event
	return m, nil
}

// FinalPrice applies the combined multiplier and clamps to the price bounds.
func (e *Engine) FinalPrice(basePrice float64, m Multipliers) (float64, error) {
	if basePrice <= 0 {
		return 0, models.InvalidInput("base_price", "must be positive")
	}
	p := basePrice * m.Combined
	if floor := basePrice * PriceFloorFactor; p < floor {
		p = floor
	}
	if ceil := basePrice * PriceCeilFactor; p > ceil {
		p = ceil
	}
	return p, nil
}

func demandMultiplier(ratio float64) (float64, string) {
	for _, s := range demandSteps {
		if ratio >= s.MinRatio {
			return s.Multiplier, s.Reason
		}
	}
	// Unreachable: the last step's threshold is -Inf.
	return 1.0, ""
}

func supplyMultiplier(availabilityPct float64) (float64, string) {
	for _, s := range supplySteps {
		if availabilityPct < s.BelowPct {
			return s.Multiplier, s.Reason
		}
	}
	return surplusMultiplier, surplusReason
}

func eventMultiplier(events models.EventContext) (float64, []string) {
	mult := 1.0
	var reasons []string

	apply := func(r eventRule) {
		mult *= r.Multiplier
		if mult > EventCap {
			mult = EventCap
			reasons = append(reasons, r.Reason+" (capped)")
			return
		}
		reasons = append(reasons, r.Reason)
	}

	for _, r := range seasonalRules {
		if r.Applies(events) {
			apply(r)
			break
		}
	}
	for _, r := range stackingRules {
		if r.Applies(events) {
			apply(r)
		}
	}
	return mult, reasons
}

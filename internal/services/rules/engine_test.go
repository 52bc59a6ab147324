package rules

import (
	"math"
	"testing"

	"RentRate/internal/domain/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDemandMultiplierSteps(t *testing.T) {
	cases := []struct {
		ratio float64
		want  float64
	}{
		{2.00, 1.20},
		{1.50, 1.20},
		{1.49, 1.15},
		{1.30, 1.15},
		{1.29, 1.10},
		{1.10, 1.10},
		{1.09, 1.00},
		{0.90, 1.00},
		{0.89, 0.95},
		{0.70, 0.95},
		{0.69, 0.85},
		{0.00, 0.85},
	}
	for _, c := range cases {
		got, _ := demandMultiplier(c.ratio)
		if !almostEqual(got, c.want) {
			t.Errorf("demandMultiplier(%.2f) = %.2f, want %.2f", c.ratio, got, c.want)
		}
	}
}

func TestSupplyMultiplierSteps(t *testing.T) {
	cases := []struct {
		pct  float64
		want float64
	}{
		{0, 1.15},
		{19.9, 1.15},
		{20, 1.10},
		{29.9, 1.10},
		{30, 1.05},
		{49.9, 1.05},
		{50, 1.00},
		{69.9, 1.00},
		{70, 0.90},
		{100, 0.90},
	}
	for _, c := range cases {
		got, _ := supplyMultiplier(c.pct)
		if !almostEqual(got, c.want) {
			t.Errorf("supplyMultiplier(%.1f) = %.2f, want %.2f", c.pct, got, c.want)
		}
	}
}

func TestEventMultiplierSeasonalExclusive(t *testing.T) {
	// Hajj outranks Ramadan and Umrah when several are flagged.
	mult, _ := eventMultiplier(models.EventContext{IsHajj: true, IsRamadan: true, IsUmrahSeason: true})
	if !almostEqual(mult, 1.30) {
		t.Fatalf("seasonal multiplier = %.4f, want 1.30", mult)
	}
}

func TestEventMultiplierStacking(t *testing.T) {
	mult, reasons := eventMultiplier(models.EventContext{IsRamadan: true, IsWeekend: true})
	if !almostEqual(mult, 1.26) {
		t.Fatalf("event multiplier = %.4f, want 1.26", mult)
	}
	if len(reasons) != 2 {
		t.Fatalf("reasons = %v, want 2 entries", reasons)
	}
}

func TestEventMultiplierCap(t *testing.T) {
	ev := models.EventContext{
		IsHajj:           true,
		IsHoliday:        true,
		IsFestival:       true,
		IsSchoolVacation: true,
		IsWeekend:        true,
		CityTier:         models.CityMecca,
	}
	mult, _ := eventMultiplier(ev)
	if mult > EventCap+1e-9 {
		t.Fatalf("event multiplier %.4f exceeds cap %.2f", mult, EventCap)
	}
	if !almostEqual(mult, EventCap) {
		t.Fatalf("event multiplier = %.4f, want capped at %.2f", mult, EventCap)
	}
}

func TestComputeRejectsEmptyFleet(t *testing.T) {
	e := NewEngine()
	_, err := e.Compute(10, 10, models.UtilizationSnapshot{TotalVehicles: 0}, models.EventContext{}, false)
	if err == nil {
		t.Fatal("expected error for empty fleet")
	}
	if !models.IsInvalidInput(err) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestComputeRejectsImpossibleAvailability(t *testing.T) {
	e := NewEngine()
	_, err := e.Compute(10, 10, models.UtilizationSnapshot{TotalVehicles: 5, AvailableVehicles: 9}, models.EventContext{}, false)
	if !models.IsInvalidInput(err) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestComputeNeutralWithoutHistory(t *testing.T) {
	e := NewEngine()
	m, err := e.Compute(12, 0, models.UtilizationSnapshot{TotalVehicles: 100, AvailableVehicles: 60}, models.EventContext{}, false)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !almostEqual(m.Demand, 1.0) {
		t.Fatalf("demand multiplier = %.2f, want neutral 1.00", m.Demand)
	}
}

func TestComputeRamadanWeekendScenario(t *testing.T) {
	e := NewEngine()
	util := models.UtilizationSnapshot{TotalVehicles: 100, AvailableVehicles: 35}
	ev := models.EventContext{IsRamadan: true, IsWeekend: true}

	// Demand ratio 1.20, availability 35%.
	m, err := e.Compute(12, 10, util, ev, false)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !almostEqual(m.Demand, 1.10) {
		t.Errorf("demand multiplier = %.4f, want 1.10", m.Demand)
	}
	if !almostEqual(m.Supply, 1.05) {
		t.Errorf("supply multiplier = %.4f, want 1.05", m.Supply)
	}
	if !almostEqual(m.Event, 1.26) {
		t.Errorf("event multiplier = %.4f, want 1.26", m.Event)
	}

	price, err := e.FinalPrice(188, m)
	if err != nil {
		t.Fatalf("FinalPrice: %v", err)
	}
	if math.Abs(price-273.5964) > 1e-4 {
		t.Errorf("final price = %.4f, want 273.5964", price)
	}
}

func TestFinalPriceClamps(t *testing.T) {
	e := NewEngine()

	low := Multipliers{Combined: 0.10}
	p, err := e.FinalPrice(100, low)
	if err != nil {
		t.Fatalf("FinalPrice: %v", err)
	}
	if !almostEqual(p, 80) {
		t.Errorf("floor clamp = %.2f, want 80.00", p)
	}

	high := Multipliers{Combined: 10.0}
	p, err = e.FinalPrice(100, high)
	if err != nil {
		t.Fatalf("FinalPrice: %v", err)
	}
	if !almostEqual(p, 250) {
		t.Errorf("ceiling clamp = %.2f, want 250.00", p)
	}
}

func TestFinalPriceRejectsNonPositiveBase(t *testing.T) {
	e := NewEngine()
	if _, err := e.FinalPrice(0, Multipliers{Combined: 1}); !models.IsInvalidInput(err) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if _, err := e.FinalPrice(-5, Multipliers{Combined: 1}); !models.IsInvalidInput(err) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

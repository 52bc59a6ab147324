package models

// Requests for the pricing HTTP endpoints. Defined in domain for consistency
// and reuse across handlers.

type EventFlags struct {
	IsHoliday        bool   `json:"is_holiday"`
	IsRamadan        bool   `json:"is_ramadan"`
	IsHajj           bool   `json:"is_hajj"`
	IsUmrahSeason    bool   `json:"is_umrah_season"`
	IsFestival       bool   `json:"is_festival"`
	IsSportsEvent    bool   `json:"is_sports_event"`
	IsSchoolVacation bool   `json:"is_school_vacation"`
	IsWeekend        bool   `json:"is_weekend"`
	CityTier         string `json:"city_tier" default:"none" validate:"oneof=none medina mecca"`
}

// Context converts the wire flags into the domain event context.
func (f EventFlags) Context() EventContext {
	return EventContext{
		IsHoliday:        f.IsHoliday,
		IsRamadan:        f.IsRamadan,
		IsHajj:           f.IsHajj,
		IsUmrahSeason:    f.IsUmrahSeason,
		IsFestival:       f.IsFestival,
		IsSportsEvent:    f.IsSportsEvent,
		IsSchoolVacation: f.IsSchoolVacation,
		IsWeekend:        f.IsWeekend,
		CityTier:         CityTier(f.CityTier),
	}
}

type PriceRequest struct {
	BranchID          int64      `json:"branch_id" validate:"required,gt=0"`
	Branch            string     `json:"branch" validate:"required"`
	Category          string     `json:"category" validate:"required_without=VehicleName"`
	VehicleName       string     `json:"vehicle_name"`
	Date              string     `json:"date" validate:"required"`
	BasePrice         float64    `json:"base_price" validate:"gte=0"`
	TotalVehicles     int        `json:"total_vehicles" validate:"gte=0"`
	AvailableVehicles int        `json:"available_vehicles" validate:"gte=0"`
	IsAirportBranch   bool       `json:"is_airport_branch"`
	Events            EventFlags `json:"events"`
}

type OptimizeRequest struct {
	PriceRequest
	MinPrice float64 `json:"min_price" validate:"required,gt=0"`
	MaxPrice float64 `json:"max_price" validate:"required,gtefield=MinPrice"`
	Steps    int     `json:"steps" default:"10" validate:"gte=2,lte=50"`
}

type CompetitorsRequest struct {
	Branch string `query:"branch" json:"branch" validate:"required"`
}

type ClassifyRequest struct {
	Vehicle string `query:"vehicle" json:"vehicle" validate:"required"`
}

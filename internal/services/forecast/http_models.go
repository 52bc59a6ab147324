package forecast

import (
	"context"
	"fmt"

	domsvc "RentRate/internal/domain/service"
	"RentRate/pkg/config"
)

// modelQuery is the wire shape shared by both model endpoints. The models
// were trained on these structural columns; event flags ride along so the
// service can build its own feature vector.
type modelQuery struct {
	BranchID  int64  `json:"branch_id"`
	Category  string `json:"category"`
	Date      string `json:"date"`
	DayOfWeek int    `json:"day_of_week"`
	Month     int    `json:"month"`
	IsWeekend bool   `json:"is_weekend"`
	IsAirport bool   `json:"is_airport"`

	IsHoliday        bool `json:"is_holiday"`
	IsRamadan        bool `json:"is_ramadan"`
	IsHajj           bool `json:"is_hajj"`
	IsUmrahSeason    bool `json:"is_umrah_season"`
	IsFestival       bool `json:"is_festival"`
	IsSportsEvent    bool `json:"is_sports_event"`
	IsSchoolVacation bool `json:"is_school_vacation"`
}

func toModelQuery(q domsvc.ModelQuery) modelQuery {
	return modelQuery{
		BranchID:         q.BranchID,
		Category:         string(q.Category),
		Date:             q.Date.Format("2006-01-02"),
		DayOfWeek:        int(q.Date.Weekday()),
		Month:            int(q.Date.Month()),
		IsWeekend:        q.Events.IsWeekend,
		IsAirport:        q.IsAirportBranch,
		IsHoliday:        q.Events.IsHoliday,
		IsRamadan:        q.Events.IsRamadan,
		IsHajj:           q.Events.IsHajj,
		IsUmrahSeason:    q.Events.IsUmrahSeason,
		IsFestival:       q.Events.IsFestival,
		IsSportsEvent:    q.Events.IsSportsEvent,
		IsSchoolVacation: q.Events.IsSchoolVacation,
	}
}

type demandResponse struct {
	Demand float64 `json:"demand"`
}

// HTTPBaselineModel calls the structural demand model endpoint.
type HTTPBaselineModel struct{ base *HTTPServiceBase }

func NewHTTPBaselineModel(cfg *config.Config) *HTTPBaselineModel {
	return &HTTPBaselineModel{base: NewHTTPServiceBase(cfg)}
}

func (m *HTTPBaselineModel) PredictBaseline(ctx context.Context, q domsvc.ModelQuery) (float64, error) {
	var resp demandResponse
	if err := m.base.PostJSONWithRetry(ctx, "/models/baseline", toModelQuery(q), &resp, 3); err != nil {
		return 0, fmt.Errorf("baseline model: %w", err)
	}
	if resp.Demand < 0 {
		return 0, nil
	}
	return resp.Demand, nil
}

// HTTPElasticityModel calls the price-sensitive model endpoint.
type HTTPElasticityModel struct{ base *HTTPServiceBase }

func NewHTTPElasticityModel(cfg *config.Config) *HTTPElasticityModel {
	return &HTTPElasticityModel{base: NewHTTPServiceBase(cfg)}
}

type elasticityRequest struct {
	modelQuery
	Price float64 `json:"price"`
}

func (m *HTTPElasticityModel) PredictDemand(ctx context.Context, q domsvc.ModelQuery, price float64) (float64, error) {
	req := elasticityRequest{modelQuery: toModelQuery(q), Price: price}
	var resp demandResponse
	if err := m.base.PostJSONWithRetry(ctx, "/models/elasticity", req, &resp, 3); err != nil {
		return 0, fmt.Errorf("elasticity model: %w", err)
	}
	return resp.Demand, nil
}

var (
	_ domsvc.BaselineModel   = (*HTTPBaselineModel)(nil)
	_ domsvc.ElasticityModel = (*HTTPElasticityModel)(nil)
)

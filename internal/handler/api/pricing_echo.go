package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"RentRate/internal/domain/models"
	icache "RentRate/internal/service/cache"
	"RentRate/internal/service/ratelimit"
	"RentRate/internal/usecase"
	xhttp "RentRate/pkg/http"
	applogger "RentRate/pkg/logger"
)

// competitorCacheTTL is short: snapshots change only on ingest, but the
// cached JSON must not outlive a refresh by much.
const competitorCacheTTL = 30 * time.Second

// PricingEchoHandler exposes the pricing engine over HTTP.
type PricingEchoHandler struct {
	calc  *usecase.PriceCalculator
	cache icache.BytesCache
	rl    *ratelimit.Limiter
	l     *applogger.Logger
}

func NewPricingEchoHandler(l *applogger.Logger, calc *usecase.PriceCalculator) *PricingEchoHandler {
	return &PricingEchoHandler{calc: calc, rl: ratelimit.New(), l: l}
}

// SetCache enables response caching for the read-only endpoints.
func (h *PricingEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *PricingEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/price", h.Price)
	g.POST("/price/optimize", h.Optimize)
	g.GET("/competitors", h.Competitors)
	g.GET("/classify", h.Classify)
}

func (h *PricingEchoHandler) Price(c echo.Context) error {
	req := &models.PriceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":price", 20, 10) {
		if h.l != nil {
			h.l.Warn("pricing.price rate_limited", applogger.String("remote", c.RealIP()))
		}
		return xhttp.DataResponse(c, 429, "rate limited")
	}

	res, err := h.calc.Price(c.Request().Context(), *req)
	if err != nil {
		if h.l != nil {
			h.l.Error("pricing.price usecase error", applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PricingEchoHandler) Optimize(c echo.Context) error {
	req := &models.OptimizeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":optimize", 5, 2) {
		if h.l != nil {
			h.l.Warn("pricing.optimize rate_limited", applogger.String("remote", c.RealIP()))
		}
		return xhttp.DataResponse(c, 429, "rate limited")
	}

	res, err := h.calc.Optimize(c.Request().Context(), *req)
	if err != nil {
		if h.l != nil {
			h.l.Error("pricing.optimize usecase error", applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PricingEchoHandler) Competitors(c echo.Context) error {
	req := &models.CompetitorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cacheKey := "competitors:" + req.Branch
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			if h.l != nil {
				h.l.Warn("pricing.competitors cache_get_error", applogger.Error(err))
			}
		} else if ok {
			var cached models.CompetitorReport
			if err := json.Unmarshal(b, &cached); err == nil {
				return xhttp.SuccessResponse(c, &cached)
			}
		}
	}

	res, err := h.calc.Competitors(req.Branch)
	if err != nil {
		if h.l != nil {
			h.l.Warn("pricing.competitors error", applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	if h.cache != nil {
		if b, err := json.Marshal(res); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, competitorCacheTTL); err != nil && h.l != nil {
				h.l.Warn("pricing.competitors cache_set_error", applogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PricingEchoHandler) Classify(c echo.Context) error {
	req := &models.ClassifyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.calc.Classify(req.Vehicle)
	if err != nil {
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

// mapDomainError translates domain errors into HTTP app errors. Unknown
// errors stay generic 500s so internals never leak.
func mapDomainError(err error) error {
	switch {
	case models.IsInvalidInput(err):
		return xhttp.BadRequestError(err.Error())
	case models.IsMissingSignal(err):
		return xhttp.NotFoundError(err.Error())
	case models.IsStaleData(err):
		return xhttp.NewAppError("ERR_STALE_DATA", "", err.Error(), 409)
	default:
		return xhttp.InternalError(fmt.Sprintf("pricing failed: %v", err))
	}
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"RentRate/internal/domain/models"
	domrepo "RentRate/internal/domain/repository"
	pkgch "RentRate/pkg/clickhouse"
	applogger "RentRate/pkg/logger"
)

// bookingsTable holds one row per completed rental day: branch, category,
// date, bookings, daily rate. Populated by the booking pipeline, read-only
// here.
const bookingsTable = "rentrate.booking_history"

// historyWindowDays bounds the lookback for the averages; older seasons
// distort the baseline.
const historyWindowDays = 365

// CHDemandHistory implements DemandHistory backed by ClickHouse.
type CHDemandHistory struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHDemandHistory(ch *pkgch.Client) *CHDemandHistory {
	return &CHDemandHistory{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHDemandHistory) SetLogger(l *applogger.Logger) { s.l = l }

// Averages returns the per-(branch, category) demand and rate aggregates over
// the lookback window. No rows is not an error: zero averages mean "no
// history" and the caller degrades accordingly.
func (s *CHDemandHistory) Averages(ctx context.Context, branchID int64, category models.VehicleCategory) (domrepo.HistoricalAverages, error) {
	start := time.Now()
	const q = `
        SELECT avg(bookings), avg(daily_rate), count()
        FROM ` + bookingsTable + `
        WHERE branch_id = ? AND category = ? AND day >= today() - ?
    `
	var out domrepo.HistoricalAverages
	var avgDemand, avgRate sql.NullFloat64
	var samples uint64
	err := s.db.QueryRowContext(ctx, q, branchID, string(category), historyWindowDays).
		Scan(&avgDemand, &avgRate, &samples)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse demand averages query error",
				applogger.Int("branch_id", int(branchID)),
				applogger.String("category", string(category)),
				applogger.Error(err),
			)
		}
		return out, fmt.Errorf("demand averages: %w", err)
	}
	if avgDemand.Valid {
		out.AvgDemand = avgDemand.Float64
	}
	if avgRate.Valid {
		out.AvgDailyRate = avgRate.Float64
	}
	out.Samples = int(samples)

	if s.l != nil {
		s.l.Info("clickhouse demand averages ok",
			applogger.Int("branch_id", int(branchID)),
			applogger.String("category", string(category)),
			applogger.Int("samples", out.Samples),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

// SchemaStatements returns the idempotent DDL for the booking history table,
// for Client.InitSchema at startup.
func SchemaStatements() []string {
	return []string{
		`CREATE DATABASE IF NOT EXISTS rentrate`,
		`CREATE TABLE IF NOT EXISTS ` + bookingsTable + ` (
            day Date,
            branch_id Int64,
            category LowCardinality(String),
            bookings Float64,
            daily_rate Float64
        ) ENGINE = MergeTree()
        ORDER BY (branch_id, category, day)`,
	}
}

var _ domrepo.DemandHistory = (*CHDemandHistory)(nil)

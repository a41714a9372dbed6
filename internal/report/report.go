// Package report issues the read-only descriptive aggregations the star
// schema exists to serve. Every query joins facts to dimensions on NOT NULL
// keys, so no null-guards appear anywhere.
package report

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	sqlq "github.com/gyeh/insurestats/internal/sql"
)

// GroupStats is one aggregation row: a dimension member (or children count)
// with charge statistics.
type GroupStats struct {
	Label      string
	N          int64
	AvgCharges float64
	MinCharges float64
	MaxCharges float64
}

// ObeseSmokerStats is the combined obese-and-smoker breakdown.
type ObeseSmokerStats struct {
	N          int64
	AvgCharges float64
}

// BySmoker groups charges by smoker flag.
func BySmoker(ctx context.Context, pool *pgxpool.Pool) ([]GroupStats, error) {
	return groupQuery(ctx, pool, sqlq.ReportBySmoker)
}

// ByRegion groups charges by region.
func ByRegion(ctx context.Context, pool *pgxpool.Pool) ([]GroupStats, error) {
	return groupQuery(ctx, pool, sqlq.ReportByRegion)
}

// BySex groups charges by sex.
func BySex(ctx context.Context, pool *pgxpool.Pool) ([]GroupStats, error) {
	return groupQuery(ctx, pool, sqlq.ReportBySex)
}

// ByChildren groups charges by number of dependents.
func ByChildren(ctx context.Context, pool *pgxpool.Pool) ([]GroupStats, error) {
	return groupQuery(ctx, pool, sqlq.ReportByChildren)
}

// ByAgeGroup groups charges by age bucket, in bucket order.
func ByAgeGroup(ctx context.Context, pool *pgxpool.Pool) ([]GroupStats, error) {
	return groupQuery(ctx, pool, sqlq.ReportByAgeGroup)
}

// ByBMICategory groups charges by BMI bucket, in bucket order.
func ByBMICategory(ctx context.Context, pool *pgxpool.Pool) ([]GroupStats, error) {
	return groupQuery(ctx, pool, sqlq.ReportByBMICategory)
}

// ObeseSmokers returns the count and average charges for records that are
// both in the Obese BMI bucket and flagged as smokers.
func ObeseSmokers(ctx context.Context, pool *pgxpool.Pool) (*ObeseSmokerStats, error) {
	var s ObeseSmokerStats
	var avg *float64
	err := pool.QueryRow(ctx, sqlq.ReportObeseSmokers).Scan(&s.N, &avg)
	if err != nil {
		return nil, fmt.Errorf("obese smokers query: %w", err)
	}
	if avg != nil {
		s.AvgCharges = *avg
	}
	return &s, nil
}

func groupQuery(ctx context.Context, pool *pgxpool.Pool, query string) ([]GroupStats, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("report query: %w", err)
	}
	defer rows.Close()

	stats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (GroupStats, error) {
		var s GroupStats
		err := row.Scan(&s.Label, &s.N, &s.AvgCharges, &s.MinCharges, &s.MaxCharges)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan report rows: %w", err)
	}
	return stats, nil
}

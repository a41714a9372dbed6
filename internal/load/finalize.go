package load

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// starTables lists every derived table, for ANALYZE after a rebuild.
var starTables = []string{
	"fact.insurance_charges",
	"dim.age_group",
	"dim.bmi_category",
	"dim.region",
	"dim.smoker",
	"dim.sex",
}

// Analyze refreshes planner statistics on the rebuilt star schema.
func Analyze(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	for _, table := range starTables {
		if _, err := pool.Exec(ctx, "ANALYZE "+table); err != nil {
			return fmt.Errorf("analyze %s: %w", table, err)
		}
	}
	log.Info().Msg("ANALYZE complete")
	return nil
}

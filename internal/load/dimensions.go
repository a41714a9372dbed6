package load

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/gyeh/insurestats/internal/star"
)

// LoadDimensions COPY-loads every dimension table from the in-memory
// dimension set. Runs inside the rebuild transaction, after the truncate and
// before any fact row.
func LoadDimensions(ctx context.Context, tx pgx.Tx, log zerolog.Logger, dims *star.Dimensions) error {
	start := time.Now()

	if err := copyBucketDim(ctx, tx, "age_group", dims.AgeGroups); err != nil {
		return err
	}
	if err := copyBucketDim(ctx, tx, "bmi_category", dims.BMICategories); err != nil {
		return err
	}
	for _, lu := range []*star.LookupDimension{dims.Regions, dims.Smokers, dims.Sexes} {
		if err := copyLookupDim(ctx, tx, lu); err != nil {
			return err
		}
	}

	log.Info().
		Int("age_groups", dims.AgeGroups.Len()).
		Int("bmi_categories", dims.BMICategories.Len()).
		Int("regions", dims.Regions.Len()).
		Int("smokers", dims.Smokers.Len()).
		Int("sexes", dims.Sexes.Len()).
		Dur("duration", time.Since(start)).
		Msg("dimensions loaded")

	return nil
}

func copyBucketDim(ctx context.Context, tx pgx.Tx, table string, dim *star.BucketDimension) error {
	members := dim.Members()
	columns := []string{table + "_key", bucketMinColumn(table), bucketMaxColumn(table), table}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"dim", table},
		columns,
		pgx.CopyFromSlice(len(members), func(i int) ([]any, error) {
			m := members[i]
			if table == "age_group" {
				// age_min/age_max are integer columns.
				return []any{m.Key, int32(m.Min), int32(m.Max), m.Label}, nil
			}
			return []any{m.Key, m.Min, m.Max, m.Label}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy dim.%s: %w", table, err)
	}
	return nil
}

func bucketMinColumn(table string) string {
	if table == "age_group" {
		return "age_min"
	}
	return "bmi_min"
}

func bucketMaxColumn(table string) string {
	if table == "age_group" {
		return "age_max"
	}
	return "bmi_max"
}

func copyLookupDim(ctx context.Context, tx pgx.Tx, dim *star.LookupDimension) error {
	table := dim.Name()
	values := dim.Values()

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"dim", table},
		[]string{table + "_key", table},
		pgx.CopyFromSlice(len(values), func(i int) ([]any, error) {
			return []any{int32(i + 1), values[i]}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy dim.%s: %w", table, err)
	}
	return nil
}

package load

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/gyeh/insurestats/internal/star"
	sqlq "github.com/gyeh/insurestats/internal/sql"
)

// factColumns is the COPY column order for fact.insurance_charges.
var factColumns = []string{
	"load_batch_id",
	"source_row_number",
	"age_group_key",
	"bmi_category_key",
	"region_key",
	"smoker_key",
	"sex_key",
	"age",
	"bmi",
	"children",
	"charges",
}

// LoadFacts COPY-loads the built fact rows. Runs inside the rebuild
// transaction, after the dimensions exist.
func LoadFacts(ctx context.Context, tx pgx.Tx, log zerolog.Logger, batchID uuid.UUID, facts []star.Fact) (int64, error) {
	start := time.Now()

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"fact", "insurance_charges"},
		factColumns,
		pgx.CopyFromSlice(len(facts), func(i int) ([]any, error) {
			f := facts[i]
			return []any{
				batchID,
				f.SourceRowNumber,
				f.AgeGroupKey,
				f.BMICategoryKey,
				f.RegionKey,
				f.SmokerKey,
				f.SexKey,
				f.Age,
				f.BMI,
				f.Children,
				f.Charges,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy facts: %w", err)
	}

	log.Info().
		Int64("facts_inserted", n).
		Dur("duration", time.Since(start)).
		Msg("facts loaded")

	return n, nil
}

// MarkRejects records the rejection reason on each rejected staging row, so
// accepted vs rejected is queryable after the run, not just logged.
func MarkRejects(ctx context.Context, tx pgx.Tx, log zerolog.Logger, batchID uuid.UUID, rejections []star.Rejection) error {
	if len(rejections) == 0 {
		return nil
	}

	byReason := make(map[string][]int64)
	for _, r := range rejections {
		byReason[r.Reason()] = append(byReason[r.Reason()], r.SourceRowNumber)
	}

	for reason, rowNums := range byReason {
		tag, err := tx.Exec(ctx, sqlq.MarkRejects, batchID, rowNums, reason)
		if err != nil {
			return fmt.Errorf("mark rejects (%s): %w", reason, err)
		}
		if tag.RowsAffected() != int64(len(rowNums)) {
			return fmt.Errorf("mark rejects (%s): updated %d staging rows, want %d",
				reason, tag.RowsAffected(), len(rowNums))
		}
	}

	log.Info().Int("rejected", len(rejections)).Msg("rejections recorded in staging")
	return nil
}

package load

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/gyeh/insurestats/internal/star"
	sqlq "github.com/gyeh/insurestats/internal/sql"
)

// Verify runs the post-build integrity checks inside the rebuild
// transaction. Any failure rolls back the entire derived state:
//
//   - no fact row may hold a dangling dimension reference
//   - accepted + rejected must equal the number of staged rows
func Verify(ctx context.Context, tx pgx.Tx, log zerolog.Logger, batchID uuid.UUID, wantFacts, wantRejected int64) error {
	var dangling int64
	if err := tx.QueryRow(ctx, sqlq.CountDangling, batchID).Scan(&dangling); err != nil {
		return fmt.Errorf("count dangling references: %w", err)
	}
	if dangling > 0 {
		return &star.DanglingReferenceError{
			Dimension: "fact.insurance_charges",
			Detail:    fmt.Sprintf("%d rows with unresolved dimension keys", dangling),
		}
	}

	var staged, rejected, facts int64
	if err := tx.QueryRow(ctx, sqlq.VerifyCounts, batchID).Scan(&staged, &rejected, &facts); err != nil {
		return fmt.Errorf("verify counts: %w", err)
	}

	if facts != wantFacts {
		return fmt.Errorf("fact count %d does not match build result %d", facts, wantFacts)
	}
	if rejected != wantRejected {
		return fmt.Errorf("rejected count %d does not match build result %d", rejected, wantRejected)
	}
	if facts+rejected != staged {
		return fmt.Errorf("accepted %d + rejected %d does not account for %d staged rows",
			facts, rejected, staged)
	}

	log.Info().
		Int64("staged", staged).
		Int64("facts", facts).
		Int64("rejected", rejected).
		Msg("integrity verified")

	return nil
}

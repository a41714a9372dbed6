// Package load runs the batch pipeline that rebuilds the insurance star
// schema from a flat record file: preflight → stage → build → load → verify
// → finalize → cleanup. The derived dimension and fact state is rebuilt in
// full on every run, inside a single transaction.
package load

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/insurestats/internal/config"
	"github.com/gyeh/insurestats/internal/model"
	sqlq "github.com/gyeh/insurestats/internal/sql"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Run executes the full load pipeline.
func Run(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, cfg *config.Config) (*model.LoadSummary, error) {
	totalStart := time.Now()

	// Bucket definitions are validated before any data is touched; a
	// malformed table is fatal.
	dims, err := cfg.Dimensions()
	if err != nil {
		return nil, &PipelineError{Phase: "configure", Err: err}
	}

	// Phase 1: Preflight
	log.Info().Str("file", cfg.FilePath).Msg("starting preflight")
	pf, err := Preflight(ctx, pool, log, cfg.FilePath, cfg.Force)
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}

	if pf.AlreadyLoaded {
		log.Info().
			Str("load_batch_id", pf.LoadBatchID.String()).
			Str("sha256", pf.FileSHA256).
			Msg("file already loaded and verified, skipping (use --force to rebuild)")
		return &model.LoadSummary{
			FilePath:      pf.FilePath,
			FileSHA256:    pf.FileSHA256,
			LoadBatchID:   pf.LoadBatchID.String(),
			AlreadyLoaded: true,
			DurationTotal: time.Since(totalStart),
		}, nil
	}

	// Phase 2: Stage
	log.Info().Msg("starting staging")
	if err := UpdateStatus(ctx, pool, pf.LoadBatchID, "staging"); err != nil {
		return nil, &PipelineError{Phase: "stage", Err: err}
	}

	stageResult, err := Stage(ctx, pool, log, pf)
	if err != nil {
		_ = UpdateStatus(ctx, pool, pf.LoadBatchID, "failed")
		return nil, &PipelineError{Phase: "stage", Err: err}
	}

	if err := UpdateStatus(ctx, pool, pf.LoadBatchID, "staged"); err != nil {
		return nil, &PipelineError{Phase: "stage", Err: err}
	}
	if _, err := pool.Exec(ctx, sqlq.SetBatchRowCount, pf.LoadBatchID, stageResult.RowsStaged); err != nil {
		return nil, &PipelineError{Phase: "stage", Err: err}
	}

	// Phase 3: Build dimensions and facts in memory
	log.Info().Msg("building dimensions and facts")
	buildResult, buildDur, err := Build(log, stageResult.Rows, dims)
	if err != nil {
		_ = UpdateStatus(ctx, pool, pf.LoadBatchID, "failed")
		return nil, &PipelineError{Phase: "build", Err: err}
	}

	// Phase 4+5: Load and verify, atomically. Any integrity failure rolls
	// back every derived table.
	if err := UpdateStatus(ctx, pool, pf.LoadBatchID, "building"); err != nil {
		return nil, &PipelineError{Phase: "load", Err: err}
	}

	loadStart := time.Now()
	var verifyDur time.Duration
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, sqlq.TruncateStar); err != nil {
			return fmt.Errorf("truncate star schema: %w", err)
		}
		if err := LoadDimensions(ctx, tx, log, dims); err != nil {
			return err
		}
		if _, err := LoadFacts(ctx, tx, log, pf.LoadBatchID, buildResult.Facts); err != nil {
			return err
		}
		if err := MarkRejects(ctx, tx, log, pf.LoadBatchID, buildResult.Rejections); err != nil {
			return err
		}
		verifyStart := time.Now()
		if err := Verify(ctx, tx, log, pf.LoadBatchID, buildResult.Accepted(), buildResult.Rejected()); err != nil {
			return err
		}
		verifyDur = time.Since(verifyStart)
		return nil
	})
	if err != nil {
		_ = UpdateStatus(ctx, pool, pf.LoadBatchID, "failed")
		return nil, &PipelineError{Phase: "load", Err: err}
	}
	loadDur := time.Since(loadStart) - verifyDur

	if err := UpdateStatus(ctx, pool, pf.LoadBatchID, "verified"); err != nil {
		return nil, &PipelineError{Phase: "verify", Err: err}
	}

	// Phase 6: Finalize
	log.Info().Msg("finalizing")
	if err := Analyze(ctx, pool, log); err != nil {
		return nil, &PipelineError{Phase: "finalize", Err: err}
	}

	// Phase 7: Cleanup staging
	if !cfg.KeepStaging {
		log.Info().Msg("cleaning up staging")
		if err := Cleanup(ctx, pool, log, pf.LoadBatchID); err != nil {
			log.Warn().Err(err).Msg("staging cleanup failed (non-fatal)")
		}
	}

	summary := &model.LoadSummary{
		FilePath:         pf.FilePath,
		FileSHA256:       pf.FileSHA256,
		LoadBatchID:      pf.LoadBatchID.String(),
		RowsRead:         stageResult.RowsRead,
		RowsStaged:       stageResult.RowsStaged,
		FactsInserted:    buildResult.Accepted(),
		RowsRejected:     buildResult.Rejected(),
		RejectedByReason: buildResult.RejectedByReason,
		DimensionSizes:   dims.Sizes(),
		DurationStage:    stageResult.Duration,
		DurationBuild:    buildDur,
		DurationLoad:     loadDur,
		DurationVerify:   verifyDur,
		DurationTotal:    time.Since(totalStart),
	}

	log.Info().
		Int64("rows_read", summary.RowsRead).
		Int64("rows_staged", summary.RowsStaged).
		Int64("facts_inserted", summary.FactsInserted).
		Int64("rows_rejected", summary.RowsRejected).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("load pipeline complete")

	return summary, nil
}

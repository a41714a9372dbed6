package load

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/insurestats/internal/db"
	"github.com/gyeh/insurestats/internal/model"
	"github.com/gyeh/insurestats/internal/recordio"
	sqlq "github.com/gyeh/insurestats/internal/sql"
)

const readBatchSize = 256

// StageResult holds metrics from the staging phase along with the raw rows,
// which the build phase consumes. Row i is source row number i+1.
type StageResult struct {
	Rows       []model.InsuranceRow
	RowsRead   int64
	RowsStaged int64
	Duration   time.Duration
}

// Stage streams raw records from the source file and COPY-loads them
// verbatim into the staging table via a channel-backed CopyFromSource. Every
// row is staged, nulls included; rejection is the build phase's job.
func Stage(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, pf *PreflightResult) (*StageResult, error) {
	start := time.Now()

	reader, err := recordio.Open(pf.FilePath)
	if err != nil {
		return nil, fmt.Errorf("stage open: %w", err)
	}
	defer reader.Close()

	ch := make(chan *model.StagingRow, readBatchSize)
	errCh := make(chan error, 1)

	var all []model.InsuranceRow
	var rowsRead int64

	// Producer goroutine: read file → tag with batch/row number → push.
	go func() {
		defer close(ch)
		buf := make([]model.InsuranceRow, readBatchSize)
		var rowNum int64

		for {
			n, readErr := reader.Read(buf)
			for i := 0; i < n; i++ {
				rowNum++
				rowsRead++
				all = append(all, buf[i])

				select {
				case ch <- model.NewStagingRow(&buf[i], pf.LoadBatchID, rowNum):
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				}
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				errCh <- fmt.Errorf("read source at row %d: %w", rowNum, readErr)
				return
			}
		}
		errCh <- nil
	}()

	// Consumer: COPY from channel into the staging table.
	source := db.NewChannelSource(ch)
	rowsStaged, err := pool.CopyFrom(ctx,
		pgx.Identifier{"stage", "insurance_records"},
		model.StagingColumns(),
		source,
	)

	// If the copy stopped early the producer may be blocked on a full
	// channel; drain until it closes so the errCh receive cannot hang.
	for range ch {
	}

	// Wait for producer to finish before touching all/rowsRead.
	prodErr := <-errCh
	if prodErr != nil {
		return nil, fmt.Errorf("stage producer: %w", prodErr)
	}
	if err != nil {
		return nil, fmt.Errorf("stage copy: %w", err)
	}

	dur := time.Since(start)
	log.Info().
		Int64("rows_read", rowsRead).
		Int64("rows_staged", rowsStaged).
		Str("duration", dur.String()).
		Msg("staging complete")

	return &StageResult{
		Rows:       all,
		RowsRead:   rowsRead,
		RowsStaged: rowsStaged,
		Duration:   dur,
	}, nil
}

// UpdateStatus updates the load batch status.
func UpdateStatus(ctx context.Context, pool *pgxpool.Pool, batchID uuid.UUID, status string) error {
	_, err := pool.Exec(ctx, sqlq.UpdateBatchStatus, batchID, status)
	return err
}

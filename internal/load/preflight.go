package load

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/insurestats/internal/recordio"
	sqlq "github.com/gyeh/insurestats/internal/sql"
)

// PreflightResult holds all context resolved during the preflight phase.
type PreflightResult struct {
	// FilePath is the original path passed to Preflight, stored as-is.
	FilePath string
	// FileSHA256 is the hex-encoded SHA-256 digest of the file.
	FileSHA256 string
	// FileSize is the file size in bytes from os.Stat.
	FileSize int64
	// LoadBatchID identifies this load run; staged rows and fact rows carry
	// it. Re-running the same file reuses the batch id registered for its
	// sha256.
	LoadBatchID uuid.UUID
	// AlreadyLoaded is true when the file's sha256 already exists with
	// status "verified", its fact rows are still present, and force mode is
	// off, signaling the pipeline can skip this file.
	AlreadyLoaded bool
}

// Preflight hashes the file, validates its header/schema, and registers the
// load batch.
func Preflight(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, filePath string, force bool) (*PreflightResult, error) {
	start := time.Now()

	sha, err := recordio.FileHash(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight hash: %w", err)
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight stat: %w", err)
	}

	// Opening validates the CSV header or Parquet schema.
	reader, err := recordio.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight open: %w", err)
	}
	if err := reader.Close(); err != nil {
		return nil, fmt.Errorf("preflight close: %w", err)
	}

	batchID, alreadyLoaded, err := registerBatch(ctx, pool, filePath, sha, stat.Size(), force)
	if err != nil {
		return nil, fmt.Errorf("preflight register batch: %w", err)
	}

	log.Info().
		Str("file", filepath.Base(filePath)).
		Str("sha256", sha).
		Str("load_batch_id", batchID.String()).
		Dur("duration", time.Since(start)).
		Msg("preflight complete")

	return &PreflightResult{
		FilePath:      filePath,
		FileSHA256:    sha,
		FileSize:      stat.Size(),
		LoadBatchID:   batchID,
		AlreadyLoaded: alreadyLoaded,
	}, nil
}

func registerBatch(ctx context.Context, pool *pgxpool.Pool, filePath, sha string, fileSize int64, force bool) (uuid.UUID, bool, error) {
	var batchID uuid.UUID
	err := pool.QueryRow(ctx, sqlq.RegisterLoadBatch,
		uuid.New(), filepath.Base(filePath), sha, fileSize,
	).Scan(&batchID)

	if err == pgx.ErrNoRows {
		// Already registered (ON CONFLICT DO NOTHING returned no rows).
		var status string
		if err2 := pool.QueryRow(ctx, sqlq.LookupLoadBatch, sha).Scan(&batchID, &status); err2 != nil {
			return uuid.Nil, false, fmt.Errorf("lookup existing batch: %w", err2)
		}

		if !force && status == "verified" {
			// "verified" is only trustworthy while this batch's facts are
			// still in place: any later load truncates the whole fact table,
			// after which serving requires a rebuild, not a skip.
			var factsExist bool
			if err2 := pool.QueryRow(ctx, sqlq.BatchFactsExist, batchID).Scan(&factsExist); err2 != nil {
				return uuid.Nil, false, fmt.Errorf("check batch facts: %w", err2)
			}
			if factsExist {
				return batchID, true, nil
			}
		}

		// Reset for re-load: status back to pending, stale staging rows out.
		if _, err3 := pool.Exec(ctx, sqlq.UpdateBatchStatus, batchID, "pending"); err3 != nil {
			return uuid.Nil, false, fmt.Errorf("reset batch status: %w", err3)
		}
		if _, err3 := pool.Exec(ctx, sqlq.DeleteStagingBatch, batchID); err3 != nil {
			return uuid.Nil, false, fmt.Errorf("clear stale staging rows: %w", err3)
		}
		return batchID, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("register batch: %w", err)
	}

	return batchID, false, nil
}

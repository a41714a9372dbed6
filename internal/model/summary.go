package model

import "time"

// LoadSummary captures metrics from a single load run.
type LoadSummary struct {
	FilePath    string
	FileSHA256  string
	LoadBatchID string

	RowsRead      int64
	RowsStaged    int64
	FactsInserted int64
	RowsRejected  int64

	// RejectedByReason maps a human-readable rejection reason to the number
	// of raw records rejected for it.
	RejectedByReason map[string]int64

	// DimensionSizes maps dimension name to member count after the build.
	DimensionSizes map[string]int

	AlreadyLoaded bool

	DurationStage  time.Duration
	DurationBuild  time.Duration
	DurationLoad   time.Duration
	DurationVerify time.Duration
	DurationTotal  time.Duration
}

package model

import (
	"github.com/google/uuid"
)

// StagingRow is the DB-ready representation of a raw record. Rows are staged
// verbatim, nulls included; reject_reason is filled in after the fact build
// for rows that did not make it into the fact table.
type StagingRow struct {
	LoadBatchID     uuid.UUID
	SourceRowNumber int64

	Age      *int64
	Sex      *string
	BMI      *float64
	Children *int64
	Smoker   *string
	Region   *string
	Charges  *float64
}

// NewStagingRow tags a raw record with its batch id and source row number.
// SourceRowNumber is the explicit identifier facts carry back to staging, so
// no re-matching by measure values is ever needed.
func NewStagingRow(row *InsuranceRow, batchID uuid.UUID, rowNum int64) *StagingRow {
	return &StagingRow{
		LoadBatchID:     batchID,
		SourceRowNumber: rowNum,
		Age:             row.Age,
		Sex:             row.Sex,
		BMI:             row.BMI,
		Children:        row.Children,
		Smoker:          row.Smoker,
		Region:          row.Region,
		Charges:         row.Charges,
	}
}

// StagingColumns returns the ordered column names for COPY into
// stage.insurance_records.
func StagingColumns() []string {
	return []string{
		"load_batch_id",
		"source_row_number",
		"age",
		"sex",
		"bmi",
		"children",
		"smoker",
		"region",
		"charges",
	}
}

// CopyValues returns the row values in the same order as StagingColumns(),
// suitable for pgx CopyFromSource.
func (r *StagingRow) CopyValues() []any {
	return []any{
		r.LoadBatchID,
		r.SourceRowNumber,
		r.Age,
		r.Sex,
		r.BMI,
		r.Children,
		r.Smoker,
		r.Region,
		r.Charges,
	}
}

package recordio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/insurestats/internal/model"
)

// WriteCSV writes rows as a CSV file with the canonical header. Nil fields
// are written as empty strings.
func WriteCSV(path string, rows []model.InsuranceRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(model.Columns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range rows {
		if err := w.Write(csvRecord(&rows[i])); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func csvRecord(r *model.InsuranceRow) []string {
	return []string{
		fmtInt(r.Age),
		fmtStr(r.Sex),
		fmtFloat(r.BMI),
		fmtInt(r.Children),
		fmtStr(r.Smoker),
		fmtStr(r.Region),
		fmtFloat(r.Charges),
	}
}

func fmtStr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func fmtInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func fmtFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// WriteParquet writes rows as a Parquet file matching the reader's schema.
func WriteParquet(path string, rows []model.InsuranceRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}
	defer f.Close()

	w := parquet.NewGenericWriter[model.InsuranceRow](f)
	if _, err := w.Write(rows); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

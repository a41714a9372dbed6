// Package recordio reads and writes flat insurance record files. CSV and
// Parquet inputs produce the same model.InsuranceRow stream; the loader does
// not care which format the file arrived in.
package recordio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gyeh/insurestats/internal/model"
)

// Reader streams InsuranceRows from a source file. Read follows the
// io.Reader convention: it fills up to len(rows) records and returns io.EOF
// once the file is exhausted.
type Reader interface {
	Read(rows []model.InsuranceRow) (int, error)
	Close() error
}

// Open opens a record file, choosing the format by extension. The header
// (CSV) or schema (Parquet) is validated before the first row is returned.
func Open(path string) (Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return OpenCSV(path)
	case ".parquet":
		return OpenParquet(path)
	default:
		return nil, fmt.Errorf("unsupported file extension %q (want .csv or .parquet)", filepath.Ext(path))
	}
}

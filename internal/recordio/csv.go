package recordio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gyeh/insurestats/internal/model"
)

const csvBufferSize = 256 * 1024

// CSVReader streams InsuranceRows from a CSV file with the well-known seven
// column header. Column order in the file is irrelevant; columns are resolved
// by name. Empty fields become nil.
type CSVReader struct {
	file   *os.File
	reader *csv.Reader
	colIdx map[string]int
	rowNum int64
	done   bool
}

// OpenCSV opens the file, skips a UTF-8 BOM if present, and validates that
// every required column appears in the header.
func OpenCSV(path string) (*CSVReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}

	bufReader := bufio.NewReaderSize(file, csvBufferSize)
	bom, err := bufReader.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = bufReader.Discard(3)
	}

	reader := csv.NewReader(bufReader)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range model.Columns() {
		if _, ok := colIdx[col]; !ok {
			file.Close()
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return &CSVReader{file: file, reader: reader, colIdx: colIdx}, nil
}

// Read fills up to len(rows) records. A field that cannot be parsed as its
// declared type is a malformed file, not a null, and aborts the read.
func (r *CSVReader) Read(rows []model.InsuranceRow) (int, error) {
	if r.done {
		return 0, io.EOF
	}
	for n := 0; n < len(rows); n++ {
		record, err := r.reader.Read()
		if err == io.EOF {
			r.done = true
			return n, io.EOF
		}
		if err != nil {
			return n, fmt.Errorf("read csv row: %w", err)
		}
		r.rowNum++

		row, err := r.parseRecord(record)
		if err != nil {
			return n, fmt.Errorf("csv row %d: %w", r.rowNum, err)
		}
		rows[n] = *row
	}
	return len(rows), nil
}

func (r *CSVReader) parseRecord(record []string) (*model.InsuranceRow, error) {
	age, err := r.intField(record, "age")
	if err != nil {
		return nil, err
	}
	children, err := r.intField(record, "children")
	if err != nil {
		return nil, err
	}
	bmi, err := r.floatField(record, "bmi")
	if err != nil {
		return nil, err
	}
	charges, err := r.floatField(record, "charges")
	if err != nil {
		return nil, err
	}
	return &model.InsuranceRow{
		Age:      age,
		Sex:      r.strField(record, "sex"),
		BMI:      bmi,
		Children: children,
		Smoker:   r.strField(record, "smoker"),
		Region:   r.strField(record, "region"),
		Charges:  charges,
	}, nil
}

func (r *CSVReader) rawField(record []string, col string) string {
	i := r.colIdx[col]
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (r *CSVReader) strField(record []string, col string) *string {
	v := r.rawField(record, col)
	if v == "" {
		return nil
	}
	return &v
}

func (r *CSVReader) intField(record []string, col string) (*int64, error) {
	v := r.rawField(record, col)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse %s %q: %w", col, v, err)
	}
	return &n, nil
}

func (r *CSVReader) floatField(record []string, col string) (*float64, error) {
	v := r.rawField(record, col)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("parse %s %q: %w", col, v, err)
	}
	return &f, nil
}

// Close releases the underlying file.
func (r *CSVReader) Close() error {
	return r.file.Close()
}

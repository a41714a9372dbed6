// mkfixture generates a synthetic insurance record file for local runs and
// tests. Charges follow a crude age/BMI/smoker cost model so aggregations
// over the output look plausible. Output format follows the --out extension.
// Usage: go run ./cmd/mkfixture --rows 500 --out testdata/insurance-small.csv
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/gyeh/insurestats/internal/model"
	"github.com/gyeh/insurestats/internal/recordio"
)

var regions = []string{"northeast", "northwest", "southeast", "southwest"}
var sexes = []string{"female", "male"}

func main() {
	rows := flag.Int("rows", 500, "number of records to generate")
	out := flag.String("out", "testdata/insurance-small.csv", "output file (.csv or .parquet)")
	seed := flag.Uint64("seed", 1, "random seed (deterministic output)")
	dirty := flag.Bool("dirty", false, "sprinkle null fields and out-of-range ages to exercise rejection paths")
	flag.Parse()

	faker := gofakeit.New(*seed)

	records := make([]model.InsuranceRow, *rows)
	for i := range records {
		records[i] = makeRecord(faker)
	}
	if *dirty {
		spoil(faker, records)
	}

	var err error
	switch strings.ToLower(filepath.Ext(*out)) {
	case ".csv":
		err = recordio.WriteCSV(*out, records)
	case ".parquet":
		err = recordio.WriteParquet(*out, records)
	default:
		err = fmt.Errorf("unsupported output extension %q (want .csv or .parquet)", filepath.Ext(*out))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "mkfixture: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d records to %s\n", len(records), *out)
}

func makeRecord(faker *gofakeit.Faker) model.InsuranceRow {
	age := int64(faker.IntRange(18, 64))
	sex := faker.RandomString(sexes)
	bmi := float64(faker.IntRange(1550, 4800)) / 100
	children := int64(faker.IntRange(0, 5))
	region := faker.RandomString(regions)

	smoker := "no"
	if faker.IntRange(1, 100) <= 20 {
		smoker = "yes"
	}

	// Base cost plus smoker and obesity premiums, with noise.
	charges := 2000 + float64(age)*240 + bmi*110 + float64(children)*480
	if smoker == "yes" {
		charges += 22000
		if bmi >= 30 {
			charges += 10000
		}
	}
	charges += faker.Float64Range(-1500, 1500)
	if charges < 0 {
		charges = 0
	}

	return model.InsuranceRow{
		Age:      &age,
		Sex:      &sex,
		BMI:      &bmi,
		Children: &children,
		Smoker:   &smoker,
		Region:   &region,
		Charges:  &charges,
	}
}

// spoil nulls out a field on every 25th record and plants a few ages the
// bucket tables cannot classify.
func spoil(faker *gofakeit.Faker, records []model.InsuranceRow) {
	for i := range records {
		if (i+1)%25 != 0 {
			continue
		}
		switch faker.IntRange(0, 2) {
		case 0:
			records[i].BMI = nil
		case 1:
			records[i].Smoker = nil
		default:
			records[i].Charges = nil
		}
	}
	if len(records) > 1 {
		bad := int64(-1)
		records[0].Age = &bad
	}
	if len(records) > 2 {
		tooOld := int64(130)
		records[1].Age = &tooOld
	}
}

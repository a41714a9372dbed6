package star

import (
	"errors"
	"fmt"

	"github.com/gyeh/insurestats/internal/model"
)

// Dimensions is the full dimension set for the insurance star schema.
type Dimensions struct {
	AgeGroups     *BucketDimension
	BMICategories *BucketDimension
	Regions       *LookupDimension
	Smokers       *LookupDimension
	Sexes         *LookupDimension
}

// NewDimensions builds the two bucket dimensions from the given ranges and
// empty lookup dimensions. Bucket validation errors surface here, before any
// data is read.
func NewDimensions(ageRanges, bmiRanges []Range) (*Dimensions, error) {
	ageGroups, err := NewBucketDimension("age_group", AgeStep, ageRanges)
	if err != nil {
		return nil, err
	}
	bmiCategories, err := NewBucketDimension("bmi_category", BMIStep, bmiRanges)
	if err != nil {
		return nil, err
	}
	return &Dimensions{
		AgeGroups:     ageGroups,
		BMICategories: bmiCategories,
		Regions:       NewLookupDimension("region"),
		Smokers:       NewLookupDimension("smoker"),
		Sexes:         NewLookupDimension("sex"),
	}, nil
}

// Sizes returns member counts per dimension, for the run summary.
func (d *Dimensions) Sizes() map[string]int {
	return map[string]int{
		d.AgeGroups.Name():     d.AgeGroups.Len(),
		d.BMICategories.Name(): d.BMICategories.Len(),
		d.Regions.Name():       d.Regions.Len(),
		d.Smokers.Name():       d.Smokers.Len(),
		d.Sexes.Name():         d.Sexes.Len(),
	}
}

// Fact is one accepted record rewritten as dimension references plus the
// retained raw measures. All five keys are always populated; a record that
// cannot resolve every key never produces a Fact.
type Fact struct {
	SourceRowNumber int64

	AgeGroupKey    int32
	BMICategoryKey int32
	RegionKey      int32
	SmokerKey      int32
	SexKey         int32

	Age      int32
	BMI      float64
	Children int32
	Charges  float64
}

// Rejection records one rejected raw record and why.
type Rejection struct {
	SourceRowNumber int64
	Err             error
}

// Reason returns the human-readable rejection reason, used as the grouping
// key in summaries and as reject_reason in staging.
func (r Rejection) Reason() string { return r.Err.Error() }

// BuildResult is the outcome of a fact build over one batch of raw records.
type BuildResult struct {
	Facts            []Fact
	Rejections       []Rejection
	RejectedByReason map[string]int64
}

// Accepted returns the number of records that produced a fact row.
func (r *BuildResult) Accepted() int64 { return int64(len(r.Facts)) }

// Rejected returns the number of rejected records.
func (r *BuildResult) Rejected() int64 { return int64(len(r.Rejections)) }

// BuildFacts runs the single-pass transform: first populate the lookup
// dimensions from every non-null value observed, then resolve all five
// dimension keys per record. Record-level failures (null fields, values
// outside every bucket) accumulate as rejections and never abort the batch;
// a lookup miss after interning is a logic defect and aborts with a
// DanglingReferenceError.
//
// Row i of rows is source row number i+1, matching the staged rows.
func BuildFacts(rows []model.InsuranceRow, dims *Dimensions) (*BuildResult, error) {
	// Dimensions first: facts may only reference existing members.
	for i := range rows {
		if rows[i].Region != nil {
			dims.Regions.Intern(*rows[i].Region)
		}
		if rows[i].Smoker != nil {
			dims.Smokers.Intern(*rows[i].Smoker)
		}
		if rows[i].Sex != nil {
			dims.Sexes.Intern(*rows[i].Sex)
		}
	}

	result := &BuildResult{
		Facts:            make([]Fact, 0, len(rows)),
		RejectedByReason: make(map[string]int64),
	}

	for i := range rows {
		rowNum := int64(i + 1)
		fact, err := resolveFact(&rows[i], rowNum, dims)
		if err != nil {
			var dangling *DanglingReferenceError
			if errors.As(err, &dangling) {
				return nil, err
			}
			result.Rejections = append(result.Rejections, Rejection{SourceRowNumber: rowNum, Err: err})
			result.RejectedByReason[err.Error()]++
			continue
		}
		result.Facts = append(result.Facts, *fact)
	}

	return result, nil
}

// resolveFact resolves every dimension key for one record, or returns the
// first error encountered. Partial fact rows are never produced.
func resolveFact(row *model.InsuranceRow, rowNum int64, dims *Dimensions) (*Fact, error) {
	if row.Age == nil {
		return nil, &NullFieldError{Field: "age"}
	}
	if row.Sex == nil {
		return nil, &NullFieldError{Field: "sex"}
	}
	if row.BMI == nil {
		return nil, &NullFieldError{Field: "bmi"}
	}
	if row.Children == nil {
		return nil, &NullFieldError{Field: "children"}
	}
	if row.Smoker == nil {
		return nil, &NullFieldError{Field: "smoker"}
	}
	if row.Region == nil {
		return nil, &NullFieldError{Field: "region"}
	}
	if row.Charges == nil {
		return nil, &NullFieldError{Field: "charges"}
	}

	ageKey, err := dims.AgeGroups.Classify(float64(*row.Age))
	if err != nil {
		return nil, err
	}
	bmiKey, err := dims.BMICategories.Classify(*row.BMI)
	if err != nil {
		return nil, err
	}
	if *row.Children < 0 {
		return nil, &OutOfRangeError{Field: "children", Value: float64(*row.Children)}
	}
	if *row.Charges < 0 {
		return nil, &OutOfRangeError{Field: "charges", Value: *row.Charges}
	}

	regionKey, ok := dims.Regions.Key(*row.Region)
	if !ok {
		return nil, &DanglingReferenceError{
			Dimension: "region",
			Detail:    fmt.Sprintf("row %d: value %q was never interned", rowNum, *row.Region),
		}
	}
	smokerKey, ok := dims.Smokers.Key(*row.Smoker)
	if !ok {
		return nil, &DanglingReferenceError{
			Dimension: "smoker",
			Detail:    fmt.Sprintf("row %d: value %q was never interned", rowNum, *row.Smoker),
		}
	}
	sexKey, ok := dims.Sexes.Key(*row.Sex)
	if !ok {
		return nil, &DanglingReferenceError{
			Dimension: "sex",
			Detail:    fmt.Sprintf("row %d: value %q was never interned", rowNum, *row.Sex),
		}
	}

	return &Fact{
		SourceRowNumber: rowNum,
		AgeGroupKey:     ageKey,
		BMICategoryKey:  bmiKey,
		RegionKey:       regionKey,
		SmokerKey:       smokerKey,
		SexKey:          sexKey,
		Age:             int32(*row.Age),
		BMI:             *row.BMI,
		Children:        int32(*row.Children),
		Charges:         *row.Charges,
	}, nil
}

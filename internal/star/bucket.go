// Package star builds the dimensional (star) schema in memory: bucket
// dimensions over continuous fields, lookup dimensions over discrete fields,
// and the fact rows referencing both.
package star

import (
	"fmt"
	"math"
	"sort"
)

// Domain granularity of the bucketed fields. Contiguity of adjacent buckets
// is checked against the step: ranges[i+1].Min must equal ranges[i].Max+step.
const (
	AgeStep = 1.0
	BMIStep = 0.01
)

// stepEpsilon absorbs float rounding when comparing range bounds.
const stepEpsilon = 1e-9

// Range is one bucket: an inclusive [Min, Max] interval with a categorical
// label.
type Range struct {
	Min   float64
	Max   float64
	Label string
}

// BucketMember is one persisted dimension member with its surrogate key.
type BucketMember struct {
	Key   int32
	Min   float64
	Max   float64
	Label string
}

// BucketDimension is an ordered set of non-overlapping, contiguous ranges.
// Surrogate keys are 1-based positions in range order.
type BucketDimension struct {
	name   string
	step   float64
	ranges []Range
}

// NewBucketDimension validates the ranges and builds the dimension.
// Ranges must be sorted ascending and contiguous with respect to step; any
// gap or overlap is a ConfigurationError.
func NewBucketDimension(name string, step float64, ranges []Range) (*BucketDimension, error) {
	if len(ranges) == 0 {
		return nil, &ConfigurationError{Dimension: name, Reason: "no ranges defined"}
	}
	if step <= 0 {
		return nil, &ConfigurationError{Dimension: name, Reason: fmt.Sprintf("step must be positive, got %g", step)}
	}

	labels := make(map[string]bool, len(ranges))
	for i, r := range ranges {
		if r.Label == "" {
			return nil, &ConfigurationError{Dimension: name, Reason: fmt.Sprintf("range %d has an empty label", i)}
		}
		if labels[r.Label] {
			return nil, &ConfigurationError{Dimension: name, Reason: fmt.Sprintf("duplicate label %q", r.Label)}
		}
		labels[r.Label] = true

		if r.Min > r.Max {
			return nil, &ConfigurationError{
				Dimension: name,
				Reason:    fmt.Sprintf("range %q has min %g > max %g", r.Label, r.Min, r.Max),
			}
		}
		if i == 0 {
			continue
		}
		prev := ranges[i-1]
		gap := r.Min - prev.Max - step
		switch {
		case gap > stepEpsilon:
			return nil, &ConfigurationError{
				Dimension: name,
				Reason:    fmt.Sprintf("gap between %q (max %g) and %q (min %g)", prev.Label, prev.Max, r.Label, r.Min),
			}
		case gap < -stepEpsilon:
			return nil, &ConfigurationError{
				Dimension: name,
				Reason:    fmt.Sprintf("overlap between %q (max %g) and %q (min %g)", prev.Label, prev.Max, r.Label, r.Min),
			}
		}
	}

	rs := make([]Range, len(ranges))
	copy(rs, ranges)
	return &BucketDimension{name: name, step: step, ranges: rs}, nil
}

// Name returns the dimension name.
func (d *BucketDimension) Name() string { return d.name }

// Len returns the number of buckets.
func (d *BucketDimension) Len() int { return len(d.ranges) }

// Classify returns the surrogate key of the unique bucket whose inclusive
// [min, max] contains v, or an OutOfRangeError when v falls outside every
// bucket.
func (d *BucketDimension) Classify(v float64) (int32, error) {
	if math.IsNaN(v) {
		return 0, &OutOfRangeError{Field: d.name, Value: v}
	}
	// First bucket whose max is >= v; contiguity guarantees uniqueness.
	i := sort.Search(len(d.ranges), func(i int) bool {
		return d.ranges[i].Max >= v
	})
	if i == len(d.ranges) || v < d.ranges[i].Min {
		return 0, &OutOfRangeError{Field: d.name, Value: v}
	}
	return int32(i + 1), nil
}

// Label returns the label for a surrogate key. Keys come from Classify and
// are always valid; a bad key returns the empty string.
func (d *BucketDimension) Label(key int32) string {
	if key < 1 || int(key) > len(d.ranges) {
		return ""
	}
	return d.ranges[key-1].Label
}

// Members returns the persisted form of the dimension in key order.
func (d *BucketDimension) Members() []BucketMember {
	members := make([]BucketMember, len(d.ranges))
	for i, r := range d.ranges {
		members[i] = BucketMember{Key: int32(i + 1), Min: r.Min, Max: r.Max, Label: r.Label}
	}
	return members
}

// DefaultAgeRanges returns the fixed age-group buckets covering ages 18-120.
func DefaultAgeRanges() []Range {
	return []Range{
		{Min: 18, Max: 24, Label: "18-24"},
		{Min: 25, Max: 34, Label: "25-34"},
		{Min: 35, Max: 44, Label: "35-44"},
		{Min: 45, Max: 54, Label: "45-54"},
		{Min: 55, Max: 64, Label: "55-64"},
		{Min: 65, Max: 120, Label: "65-120"},
	}
}

// DefaultBMIRanges returns the NIH-style BMI category buckets covering 0-100.
func DefaultBMIRanges() []Range {
	return []Range{
		{Min: 0, Max: 18.49, Label: "Underweight"},
		{Min: 18.5, Max: 24.99, Label: "Normal"},
		{Min: 25, Max: 29.99, Label: "Overweight"},
		{Min: 30, Max: 100, Label: "Obese"},
	}
}

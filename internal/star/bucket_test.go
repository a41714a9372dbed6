package star

import (
	"errors"
	"math"
	"testing"
)

func mustAgeGroups(t *testing.T) *BucketDimension {
	t.Helper()
	d, err := NewBucketDimension("age_group", AgeStep, DefaultAgeRanges())
	if err != nil {
		t.Fatalf("build age groups: %v", err)
	}
	return d
}

func mustBMICategories(t *testing.T) *BucketDimension {
	t.Helper()
	d, err := NewBucketDimension("bmi_category", BMIStep, DefaultBMIRanges())
	if err != nil {
		t.Fatalf("build bmi categories: %v", err)
	}
	return d
}

func TestClassify_AgePartition(t *testing.T) {
	d := mustAgeGroups(t)

	// Every valid age maps to exactly one bucket whose range contains it.
	for age := 18; age <= 120; age++ {
		key, err := d.Classify(float64(age))
		if err != nil {
			t.Fatalf("age %d: %v", age, err)
		}
		m := d.Members()[key-1]
		if float64(age) < m.Min || float64(age) > m.Max {
			t.Errorf("age %d classified into [%g,%g] %q", age, m.Min, m.Max, m.Label)
		}
	}
}

func TestClassify_BMICoverage(t *testing.T) {
	d := mustBMICategories(t)

	// Walk the whole domain at the bucket granularity.
	for cents := 0; cents <= 10000; cents++ {
		v := float64(cents) / 100
		key, err := d.Classify(v)
		if err != nil {
			t.Fatalf("bmi %.2f: %v", v, err)
		}
		m := d.Members()[key-1]
		if v < m.Min || v > m.Max {
			t.Errorf("bmi %.2f classified into [%g,%g] %q", v, m.Min, m.Max, m.Label)
		}
	}
}

func TestClassify_Boundaries(t *testing.T) {
	ages := mustAgeGroups(t)
	bmis := mustBMICategories(t)

	cases := []struct {
		name  string
		dim   *BucketDimension
		value float64
		want  string
	}{
		{"age_low_edge", ages, 18, "18-24"},
		{"age_bucket_max", ages, 24, "18-24"},
		{"age_bucket_min", ages, 25, "25-34"},
		{"age_high_edge", ages, 120, "65-120"},
		{"bmi_zero", bmis, 0, "Underweight"},
		{"bmi_underweight_max", bmis, 18.49, "Underweight"},
		{"bmi_normal_min", bmis, 18.5, "Normal"},
		{"bmi_normal_max", bmis, 24.99, "Normal"},
		{"bmi_overweight_min", bmis, 25, "Overweight"},
		{"bmi_obese_min", bmis, 30, "Obese"},
		{"bmi_high_edge", bmis, 100, "Obese"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, err := tc.dim.Classify(tc.value)
			if err != nil {
				t.Fatalf("classify %g: %v", tc.value, err)
			}
			if got := tc.dim.Label(key); got != tc.want {
				t.Errorf("classify %g: got %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestClassify_OutOfRange(t *testing.T) {
	ages := mustAgeGroups(t)
	bmis := mustBMICategories(t)

	cases := []struct {
		name  string
		dim   *BucketDimension
		value float64
	}{
		{"negative_age", ages, -1},
		{"child_age", ages, 17},
		{"age_too_high", ages, 121},
		{"negative_bmi", bmis, -0.5},
		{"bmi_too_high", bmis, 100.01},
		{"nan", bmis, math.NaN()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.dim.Classify(tc.value)
			var oor *OutOfRangeError
			if !errors.As(err, &oor) {
				t.Fatalf("classify %g: got %v, want OutOfRangeError", tc.value, err)
			}
		})
	}
}

func TestNewBucketDimension_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		step   float64
		ranges []Range
	}{
		{"empty", 1, nil},
		{"zero_step", 0, []Range{{Min: 0, Max: 10, Label: "a"}}},
		{"min_above_max", 1, []Range{{Min: 10, Max: 0, Label: "a"}}},
		{"empty_label", 1, []Range{{Min: 0, Max: 10, Label: ""}}},
		{"duplicate_label", 1, []Range{
			{Min: 0, Max: 10, Label: "a"},
			{Min: 11, Max: 20, Label: "a"},
		}},
		{"gap", 1, []Range{
			{Min: 0, Max: 10, Label: "a"},
			{Min: 12, Max: 20, Label: "b"},
		}},
		{"overlap", 1, []Range{
			{Min: 0, Max: 10, Label: "a"},
			{Min: 10, Max: 20, Label: "b"},
		}},
		{"unsorted", 1, []Range{
			{Min: 11, Max: 20, Label: "a"},
			{Min: 0, Max: 10, Label: "b"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBucketDimension("test", tc.step, tc.ranges)
			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("got %v, want ConfigurationError", err)
			}
		})
	}
}

func TestNewBucketDimension_DecimalStep(t *testing.T) {
	// The NIH cutoffs are contiguous at the 0.01 granularity and must pass
	// validation without being treated as a gap.
	if _, err := NewBucketDimension("bmi_category", BMIStep, DefaultBMIRanges()); err != nil {
		t.Fatalf("default BMI ranges should validate: %v", err)
	}

	// The same table at step 1 has gaps (18.49 → 18.5).
	if _, err := NewBucketDimension("bmi_category", 1, DefaultBMIRanges()); err == nil {
		t.Fatal("expected ConfigurationError for BMI ranges at step 1")
	}
}

func TestLookupDimension(t *testing.T) {
	d := NewLookupDimension("region")

	k1 := d.Intern("southwest")
	k2 := d.Intern("northeast")
	k3 := d.Intern("southwest")

	if k1 != k3 {
		t.Errorf("re-interning the same value changed its key: %d vs %d", k1, k3)
	}
	if k1 == k2 {
		t.Errorf("distinct values share key %d", k1)
	}
	if d.Len() != 2 {
		t.Errorf("expected 2 members, got %d", d.Len())
	}
	if _, ok := d.Key("midwest"); ok {
		t.Error("unknown value should not resolve")
	}

	// Values() index i corresponds to key i+1.
	for i, v := range d.Values() {
		key, ok := d.Key(v)
		if !ok || key != int32(i+1) {
			t.Errorf("value %q: key %d (ok=%v), want %d", v, key, ok, i+1)
		}
	}
}

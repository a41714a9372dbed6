package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "buckets.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromFile_Valid(t *testing.T) {
	path := writeConfig(t, `buckets:
  age_groups:
    - {min: 18, max: 39, label: "18-39"}
    - {min: 40, max: 120, label: "40-120"}
`)

	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if len(c.Buckets.AgeGroups) != 2 {
		t.Fatalf("expected 2 age buckets, got %d", len(c.Buckets.AgeGroups))
	}

	dims, err := c.Dimensions()
	if err != nil {
		t.Fatalf("Dimensions: %v", err)
	}
	if dims.AgeGroups.Len() != 2 {
		t.Errorf("expected 2 age groups, got %d", dims.AgeGroups.Len())
	}
	// BMI table was not overridden and falls back to the default four.
	if dims.BMICategories.Len() != 4 {
		t.Errorf("expected 4 default BMI categories, got %d", dims.BMICategories.Len())
	}
}

func TestLoadFromFile_GappedBuckets(t *testing.T) {
	path := writeConfig(t, `buckets:
  age_groups:
    - {min: 18, max: 30, label: "18-30"}
    - {min: 40, max: 120, label: "40-120"}
`)

	var c Config
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected error for gapped age buckets")
	}
}

func TestLoadFromFile_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "buckets: [not: a, mapping\n")

	var c Config
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	var c Config
	if err := c.LoadFromFile("/nonexistent/buckets.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDimensions_Defaults(t *testing.T) {
	var c Config
	dims, err := c.Dimensions()
	if err != nil {
		t.Fatalf("Dimensions: %v", err)
	}
	if dims.AgeGroups.Len() != 6 {
		t.Errorf("expected 6 default age groups, got %d", dims.AgeGroups.Len())
	}
	if dims.BMICategories.Len() != 4 {
		t.Errorf("expected 4 default BMI categories, got %d", dims.BMICategories.Len())
	}
}

func TestValidate(t *testing.T) {
	var c Config
	if err := c.Validate(); err == nil {
		t.Error("expected error for missing file path")
	}

	c.FilePath = "/nonexistent/records.csv"
	if err := c.Validate(); err == nil {
		t.Error("expected error for inaccessible file")
	}

	path := filepath.Join(t.TempDir(), "records.csv")
	os.WriteFile(path, []byte("age,sex,bmi,children,smoker,region,charges\n"), 0644)
	c.FilePath = path
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	if err := c.ValidateWithDSN(); err == nil {
		t.Error("expected error for missing DSN")
	}
	c.DSN = "postgresql://localhost/test"
	if err := c.ValidateWithDSN(); err != nil {
		t.Errorf("ValidateWithDSN: %v", err)
	}
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/insurestats/internal/star"
)

// Config holds all runtime configuration for a martload run.
type Config struct {
	DSN         string
	FilePath    string
	LogFormat   string // "text" or "json"
	Force       bool
	KeepStaging bool

	Buckets Buckets `yaml:"buckets"`
}

// Buckets optionally overrides the built-in bucket tables. Empty slices fall
// back to the defaults.
type Buckets struct {
	AgeGroups     []BucketRange `yaml:"age_groups"`
	BMICategories []BucketRange `yaml:"bmi_categories"`
}

// BucketRange is one bucket definition in the YAML config file.
type BucketRange struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Label string  `yaml:"label"`
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Buckets Buckets `yaml:"buckets"`
}

// LoadFromFile reads a YAML config file and merges its bucket definitions
// into Config. Malformed bucket tables surface as a configuration error from
// Dimensions, before any data is processed.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.Buckets = yc.Buckets

	// Validate eagerly so a bad file fails at startup, not mid-run.
	if _, err := c.Dimensions(); err != nil {
		return err
	}
	return nil
}

// Dimensions builds the dimension set from the configured bucket tables,
// falling back to the built-in age and BMI buckets.
func (c *Config) Dimensions() (*star.Dimensions, error) {
	ageRanges := toRanges(c.Buckets.AgeGroups)
	if len(ageRanges) == 0 {
		ageRanges = star.DefaultAgeRanges()
	}
	bmiRanges := toRanges(c.Buckets.BMICategories)
	if len(bmiRanges) == 0 {
		bmiRanges = star.DefaultBMIRanges()
	}
	return star.NewDimensions(ageRanges, bmiRanges)
}

func toRanges(brs []BucketRange) []star.Range {
	ranges := make([]star.Range, len(brs))
	for i, br := range brs {
		ranges[i] = star.Range{Min: br.Min, Max: br.Max, Label: br.Label}
	}
	return ranges
}

// Validate checks required fields and returns an error if the config is
// invalid.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	return nil
}

// ValidateWithDSN checks both file and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}

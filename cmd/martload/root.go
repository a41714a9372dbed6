package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/insurestats/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "martload",
	Short: "Insurance record file → Postgres star-schema loader",
	Long: "Reads flat medical-insurance record files (CSV or Parquet) and rebuilds " +
		"a dimensional star schema (age group, BMI category, region, smoker, sex) in Postgres.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

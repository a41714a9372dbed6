package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/gyeh/insurestats/internal/db"
	"github.com/gyeh/insurestats/internal/exitcode"
	"github.com/gyeh/insurestats/internal/logging"
	"github.com/gyeh/insurestats/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print descriptive aggregations over the star schema (read-only)",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if cfg.DSN == "" {
		log.Error().Msg("--dsn or DATABASE_URL is required")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	sections := []struct {
		title string
		fn    func(context.Context, *pgxpool.Pool) ([]report.GroupStats, error)
	}{
		{"Charges by smoker", report.BySmoker},
		{"Charges by region", report.ByRegion},
		{"Charges by sex", report.BySex},
		{"Charges by age group", report.ByAgeGroup},
		{"Charges by BMI category", report.ByBMICategory},
		{"Charges by number of dependents", report.ByChildren},
	}

	for _, s := range sections {
		stats, err := s.fn(ctx, pool)
		if err != nil {
			log.Error().Err(err).Str("section", s.title).Msg("report query failed")
			os.Exit(exitcode.ValidationError)
		}
		fmt.Printf("%s:\n", s.title)
		fmt.Printf("  %-14s %7s %12s %12s %12s\n", "", "n", "avg", "min", "max")
		for _, row := range stats {
			fmt.Printf("  %-14s %7d %12.2f %12.2f %12.2f\n",
				row.Label, row.N, row.AvgCharges, row.MinCharges, row.MaxCharges)
		}
		fmt.Println()
	}

	obese, err := report.ObeseSmokers(ctx, pool)
	if err != nil {
		log.Error().Err(err).Msg("report query failed")
		os.Exit(exitcode.ValidationError)
	}
	fmt.Printf("Obese smokers: n=%d avg=%.2f\n", obese.N, obese.AvgCharges)

	return nil
}

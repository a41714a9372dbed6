package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gyeh/insurestats/internal/exitcode"
	"github.com/gyeh/insurestats/internal/logging"
	"github.com/gyeh/insurestats/internal/model"
	"github.com/gyeh/insurestats/internal/recordio"
	"github.com/gyeh/insurestats/internal/star"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and classification stats (no writes)",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to CSV or Parquet record file (required)")
	f.StringVar(&configFile, "config", "", "Optional YAML file overriding the bucket definitions")
	_ = planCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if configFile != "" {
		if err := cfg.LoadFromFile(configFile); err != nil {
			log.Error().Err(err).Msg("bucket config invalid")
			os.Exit(exitcode.UsageError)
		}
	}

	dims, err := cfg.Dimensions()
	if err != nil {
		log.Error().Err(err).Msg("bucket definitions invalid")
		os.Exit(exitcode.UsageError)
	}

	sha, err := recordio.FileHash(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash file")
		os.Exit(exitcode.ValidationError)
	}

	stat, err := os.Stat(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to stat file")
		os.Exit(exitcode.ValidationError)
	}

	reader, err := recordio.Open(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to open record file")
		os.Exit(exitcode.ValidationError)
	}
	defer reader.Close()

	var all []model.InsuranceRow
	buf := make([]model.InsuranceRow, 256)
	for {
		n, readErr := reader.Read(buf)
		all = append(all, buf[:n]...)
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			log.Error().Err(readErr).Msg("failed to read rows")
			os.Exit(exitcode.ValidationError)
		}
	}

	// Same transform the load runs, minus the database.
	result, err := star.BuildFacts(all, dims)
	if err != nil {
		log.Error().Err(err).Msg("fact build failed")
		os.Exit(exitcode.BuildError)
	}

	fmt.Println("=== martload plan ===")
	fmt.Printf("File:       %s\n", cfg.FilePath)
	fmt.Printf("SHA-256:    %s\n", sha)
	fmt.Printf("Size:       %d bytes\n", stat.Size())
	fmt.Printf("Total rows: %d\n", len(all))
	fmt.Printf("Accepted:   %d\n", result.Accepted())
	fmt.Printf("Rejected:   %d\n", result.Rejected())

	if result.Rejected() > 0 {
		reasons := make([]string, 0, len(result.RejectedByReason))
		for reason := range result.RejectedByReason {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		fmt.Println("\nRejection reasons:")
		for _, reason := range reasons {
			fmt.Printf("  %6d  %s\n", result.RejectedByReason[reason], reason)
		}
	}

	fmt.Println("\nAge group distribution:")
	printBucketHistogram(dims.AgeGroups, result.Facts, func(f *star.Fact) int32 { return f.AgeGroupKey })
	fmt.Println("\nBMI category distribution:")
	printBucketHistogram(dims.BMICategories, result.Facts, func(f *star.Fact) int32 { return f.BMICategoryKey })

	fmt.Println("\nValidation: OK")
	return nil
}

func printBucketHistogram(dim *star.BucketDimension, facts []star.Fact, key func(*star.Fact) int32) {
	counts := make(map[int32]int64)
	for i := range facts {
		counts[key(&facts[i])]++
	}
	for _, m := range dim.Members() {
		fmt.Printf("  %-12s %6d\n", m.Label, counts[m.Key])
	}
}

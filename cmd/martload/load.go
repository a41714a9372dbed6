package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gyeh/insurestats/internal/db"
	"github.com/gyeh/insurestats/internal/exitcode"
	"github.com/gyeh/insurestats/internal/load"
	"github.com/gyeh/insurestats/internal/logging"
)

var configFile string

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a record file and rebuild the star schema",
	RunE:  runLoad,
}

func init() {
	f := loadCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to CSV or Parquet record file (required)")
	f.StringVar(&configFile, "config", "", "Optional YAML file overriding the bucket definitions")
	f.BoolVar(&cfg.Force, "force", false, "Rebuild even if file SHA was already loaded and verified")
	f.BoolVar(&cfg.KeepStaging, "keep-staging", false, "Keep staging rows after the build")
	_ = loadCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if configFile != "" {
		if err := cfg.LoadFromFile(configFile); err != nil {
			log.Error().Err(err).Msg("bucket config invalid")
			os.Exit(exitcode.UsageError)
		}
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	summary, err := load.Run(ctx, pool, log, &cfg)
	if err != nil {
		if pe, ok := err.(*load.PipelineError); ok {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("load failed")
			switch pe.Phase {
			case "configure", "preflight":
				os.Exit(exitcode.ValidationError)
			case "stage":
				os.Exit(exitcode.CopyError)
			case "build":
				os.Exit(exitcode.BuildError)
			default:
				os.Exit(exitcode.IntegrityError)
			}
		}
		log.Error().Err(err).Msg("load failed")
		os.Exit(exitcode.IntegrityError)
	}

	if summary.AlreadyLoaded {
		fmt.Printf("File already loaded and verified (batch %s); use --force to rebuild.\n", summary.LoadBatchID)
		return nil
	}

	fmt.Printf("Load complete: %d records accepted, %d rejected (%.1fs)\n",
		summary.FactsInserted, summary.RowsRejected, summary.DurationTotal.Seconds())
	if summary.RowsRejected > 0 {
		reasons := make([]string, 0, len(summary.RejectedByReason))
		for reason := range summary.RejectedByReason {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			fmt.Printf("  rejected %d: %s\n", summary.RejectedByReason[reason], reason)
		}
	}
	return nil
}

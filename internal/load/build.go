package load

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/insurestats/internal/model"
	"github.com/gyeh/insurestats/internal/star"
)

// Build runs the in-memory dimensional transform over the staged rows:
// lookup dimensions are populated from the observed values, then every
// record resolves all five dimension keys or is rejected with a reason.
func Build(log zerolog.Logger, rows []model.InsuranceRow, dims *star.Dimensions) (*star.BuildResult, time.Duration, error) {
	start := time.Now()

	result, err := star.BuildFacts(rows, dims)
	if err != nil {
		return nil, 0, err
	}

	dur := time.Since(start)
	ev := log.Info().
		Int64("facts", result.Accepted()).
		Int64("rejected", result.Rejected()).
		Int("regions", dims.Regions.Len()).
		Int("smokers", dims.Smokers.Len()).
		Int("sexes", dims.Sexes.Len()).
		Dur("duration", dur)
	ev.Msg("fact build complete")

	for reason, count := range result.RejectedByReason {
		log.Warn().Str("reason", reason).Int64("count", count).Msg("records rejected")
	}

	return result, dur, nil
}

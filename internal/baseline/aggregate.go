package baseline

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/rxtsh/ai-for-bharat/internal/models"
)

// Aggregate computes a baseline from raw observations. Amounts drive the
// sample size; bidder counts and bidding-window lengths may be shorter
// slices when portals published fewer of those fields, and stay zero in the
// result when no observations exist.
func Aggregate(category, region string, fromYear int, amounts, bidderCounts, windowDays []float64) (*models.HistoricalBaseline, error) {
	if len(amounts) == 0 {
		return nil, fmt.Errorf("no award amounts for %s/%s: %w", category, region, models.ErrBaselineUnavailable)
	}

	mean, err := stats.Mean(amounts)
	if err != nil {
		return nil, fmt.Errorf("mean of award amounts: %w", err)
	}

	stddev, err := stats.StandardDeviation(amounts)
	if err != nil {
		return nil, fmt.Errorf("stddev of award amounts: %w", err)
	}

	baseline := &models.HistoricalBaseline{
		Category:     category,
		Region:       region,
		FromYear:     fromYear,
		MeanAmount:   mean,
		StddevAmount: stddev,
		SampleSize:   len(amounts),
	}

	if len(bidderCounts) > 0 {
		avg, err := stats.Mean(bidderCounts)
		if err != nil {
			return nil, fmt.Errorf("mean of bidder counts: %w", err)
		}
		baseline.AvgBidderCount = avg
	}

	if len(windowDays) > 0 {
		median, err := stats.Median(windowDays)
		if err != nil {
			return nil, fmt.Errorf("median of bidding windows: %w", err)
		}
		baseline.MedianWindowDays = median
	}

	return baseline, nil
}

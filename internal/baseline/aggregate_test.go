package baseline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxtsh/ai-for-bharat/internal/baseline"
	"github.com/rxtsh/ai-for-bharat/internal/models"
)

func TestAggregate_ComputesStatistics(t *testing.T) {
	amounts := []float64{900000, 1000000, 1100000}
	bidderCounts := []float64{2, 4, 6}
	windowDays := []float64{7, 14, 21, 30}

	got, err := baseline.Aggregate("IT Hardware", "KA", 2022, amounts, bidderCounts, windowDays)
	require.NoError(t, err)

	assert.Equal(t, "IT Hardware", got.Category)
	assert.Equal(t, "KA", got.Region)
	assert.Equal(t, 2022, got.FromYear)
	assert.Equal(t, 3, got.SampleSize)

	assert.InDelta(t, 1000000, got.MeanAmount, 1e-6)
	assert.InDelta(t, 81649.6580927726, got.StddevAmount, 1e-4)
	assert.InDelta(t, 4.0, got.AvgBidderCount, 1e-9)
	assert.InDelta(t, 17.5, got.MedianWindowDays, 1e-9)
}

func TestAggregate_NoAmountsIsUnavailable(t *testing.T) {
	_, err := baseline.Aggregate("IT Hardware", "KA", 2022, nil, []float64{3}, []float64{14})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrBaselineUnavailable)
}

func TestAggregate_OptionalObservationsStayZero(t *testing.T) {
	got, err := baseline.Aggregate("Road Works", "MH", 2022, []float64{5000000}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, got.SampleSize)
	assert.InDelta(t, 5000000, got.MeanAmount, 1e-6)
	assert.Equal(t, 0.0, got.AvgBidderCount)
	assert.Equal(t, 0.0, got.MedianWindowDays)
}

func TestAggregate_SingleObservationHasZeroSpread(t *testing.T) {
	got, err := baseline.Aggregate("IT Hardware", "KA", 2022, []float64{1000000}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, got.StddevAmount)
}

func TestAggregate_OddWindowCountUsesMiddleValue(t *testing.T) {
	got, err := baseline.Aggregate("IT Hardware", "KA", 2022, []float64{1, 2}, nil, []float64{7, 30, 14})
	require.NoError(t, err)

	assert.InDelta(t, 14.0, got.MedianWindowDays, 1e-9)
}

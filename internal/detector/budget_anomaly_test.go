package detector_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rxtsh/ai-for-bharat/internal/detector"
	"github.com/rxtsh/ai-for-bharat/internal/models"
)

func overrunRecord(estimated, awarded float64) *models.ProcurementRecord {
	return &models.ProcurementRecord{
		TenderID:        "TN-2024-020",
		DepartmentID:    "DEPT-HEALTH",
		EstimatedBudget: estimated,
		AwardedAmount:   &awarded,
	}
}

func TestBudgetAnomaly_FiresWithHighConfidenceZScore(t *testing.T) {
	det := detector.NewBudgetAnomalyDetector()

	record := overrunRecord(1000000, 1250000)
	baseline := &models.HistoricalBaseline{
		Category:     "Medical Supplies",
		Region:       "KA",
		MeanAmount:   1000000,
		StddevAmount: 100000,
		SampleSize:   20,
	}

	pattern := det.Detect(context.Background(), record, baseline)

	assert.NotNil(t, pattern, "A 25% overrun should fire")
	assert.Equal(t, models.PatternBudgetAnomaly, pattern.PatternType)
	assert.InDelta(t, 90.0, pattern.Score, 1e-9)
	assert.Equal(t, true, pattern.Evidence["baseline_available"])
	assert.InDelta(t, 2.5, pattern.Evidence["z_score"].(float64), 1e-9)
	assert.Equal(t, "high", pattern.Evidence["confidence"])
}

func TestBudgetAnomaly_ThresholdOnlyWithoutBaseline(t *testing.T) {
	det := detector.NewBudgetAnomalyDetector()

	record := overrunRecord(1000000, 1300000)

	pattern := det.Detect(context.Background(), record, nil)

	assert.NotNil(t, pattern)
	assert.InDelta(t, 65.0, pattern.Score, 1e-9, "Without a baseline the score stays at the base")
	assert.Equal(t, false, pattern.Evidence["baseline_available"])
	assert.NotContains(t, pattern.Evidence, "z_score")
	assert.NotContains(t, pattern.Evidence, "confidence")
}

func TestBudgetAnomaly_ModestZScoreKeepsBaseScore(t *testing.T) {
	det := detector.NewBudgetAnomalyDetector()

	record := overrunRecord(1000000, 1250000)
	baseline := &models.HistoricalBaseline{
		Category:     "Medical Supplies",
		Region:       "KA",
		MeanAmount:   1200000,
		StddevAmount: 100000,
		SampleSize:   10,
	}

	pattern := det.Detect(context.Background(), record, baseline)

	assert.NotNil(t, pattern)
	assert.InDelta(t, 65.0, pattern.Score, 1e-9)
	assert.InDelta(t, 0.5, pattern.Evidence["z_score"].(float64), 1e-9)
	assert.Equal(t, "threshold", pattern.Evidence["confidence"])
}

func TestBudgetAnomaly_NoDetectionWithinTolerance(t *testing.T) {
	det := detector.NewBudgetAnomalyDetector()

	record := overrunRecord(1000000, 1200000)

	pattern := det.Detect(context.Background(), record, nil)

	assert.Nil(t, pattern, "An award at exactly 120% of estimate is within tolerance")
}

func TestBudgetAnomaly_NoDetectionWhenAwardMissing(t *testing.T) {
	det := detector.NewBudgetAnomalyDetector()

	record := &models.ProcurementRecord{
		TenderID:        "TN-2024-021",
		DepartmentID:    "DEPT-HEALTH",
		EstimatedBudget: 1000000,
	}

	pattern := det.Detect(context.Background(), record, nil)

	assert.Nil(t, pattern, "Pattern needs an awarded amount")
}

func TestBudgetAnomaly_NoDetectionWithoutPositiveEstimate(t *testing.T) {
	det := detector.NewBudgetAnomalyDetector()

	awarded := 1500000.0
	record := &models.ProcurementRecord{
		TenderID:      "TN-2024-022",
		DepartmentID:  "DEPT-HEALTH",
		AwardedAmount: &awarded,
	}

	pattern := det.Detect(context.Background(), record, nil)

	assert.Nil(t, pattern, "A zero estimate gives no overrun ratio to judge")
}

func TestBudgetAnomaly_SmallSampleFallsBackToThreshold(t *testing.T) {
	det := detector.NewBudgetAnomalyDetector()

	record := overrunRecord(1000000, 1500000)
	baseline := &models.HistoricalBaseline{
		Category:     "Medical Supplies",
		Region:       "KA",
		MeanAmount:   1000000,
		StddevAmount: 100000,
		SampleSize:   3,
	}

	pattern := det.Detect(context.Background(), record, baseline)

	assert.NotNil(t, pattern)
	assert.InDelta(t, 65.0, pattern.Score, 1e-9)
	assert.Equal(t, false, pattern.Evidence["baseline_available"])
	assert.NotContains(t, pattern.Evidence, "z_score")
}

func TestBudgetAnomaly_ZeroSpreadBaselineIsUnusable(t *testing.T) {
	det := detector.NewBudgetAnomalyDetector()

	record := overrunRecord(1000000, 1500000)
	baseline := &models.HistoricalBaseline{
		Category:     "Medical Supplies",
		Region:       "KA",
		MeanAmount:   1000000,
		StddevAmount: 0,
		SampleSize:   10,
	}

	pattern := det.Detect(context.Background(), record, baseline)

	assert.NotNil(t, pattern)
	assert.Equal(t, false, pattern.Evidence["baseline_available"])
	assert.InDelta(t, 65.0, pattern.Score, 1e-9)
}

func TestBudgetAnomaly_ConfiguredMinimumSample(t *testing.T) {
	det := detector.NewBudgetAnomalyDetector()
	det.SetMinSampleSize(3)

	record := overrunRecord(1000000, 1500000)
	baseline := &models.HistoricalBaseline{
		Category:     "Medical Supplies",
		Region:       "KA",
		MeanAmount:   1000000,
		StddevAmount: 200000,
		SampleSize:   3,
	}

	pattern := det.Detect(context.Background(), record, baseline)

	assert.NotNil(t, pattern)
	assert.Equal(t, true, pattern.Evidence["baseline_available"])
	assert.InDelta(t, 90.0, pattern.Score, 1e-9, "z of 2.5 adds 25 to the base score")
}

func TestBudgetAnomaly_ScoreCapsAtHundred(t *testing.T) {
	det := detector.NewBudgetAnomalyDetector()

	record := overrunRecord(1000000, 10000000)
	baseline := &models.HistoricalBaseline{
		Category:     "Medical Supplies",
		Region:       "KA",
		MeanAmount:   1000000,
		StddevAmount: 100000,
		SampleSize:   20,
	}

	pattern := det.Detect(context.Background(), record, baseline)

	assert.NotNil(t, pattern)
	assert.Equal(t, 100.0, pattern.Score)
}

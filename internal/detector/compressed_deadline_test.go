package detector_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rxtsh/ai-for-bharat/internal/detector"
	"github.com/rxtsh/ai-for-bharat/internal/models"
)

func windowRecord(budget float64, published, deadline time.Time) *models.ProcurementRecord {
	return &models.ProcurementRecord{
		TenderID:           "TN-2024-010",
		DepartmentID:       "DEPT-PWD",
		EstimatedBudget:    budget,
		PublicationDate:    &published,
		SubmissionDeadline: &deadline,
	}
}

func TestCompressedDeadline_FiresWithBaselineMedian(t *testing.T) {
	det := detector.NewCompressedDeadlineDetector()

	record := windowRecord(1000000,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	baseline := &models.HistoricalBaseline{
		Category:         "Road Construction",
		Region:           "MH",
		MedianWindowDays: 30,
		SampleSize:       12,
	}

	pattern := det.Detect(context.Background(), record, baseline)

	assert.NotNil(t, pattern, "A three-day window on a small tender should fire")
	assert.Equal(t, models.PatternCompressedDeadline, pattern.PatternType)
	assert.InDelta(t, 95.0, pattern.Score, 1e-9)
	assert.Equal(t, 3.0, pattern.Evidence["window_days"])
	assert.Equal(t, 30.0, pattern.Evidence["expected_days"])
	assert.InDelta(t, 90.0, pattern.Evidence["deviation_pct"].(float64), 1e-9)
	assert.Equal(t, true, pattern.Evidence["baseline_available"])
}

func TestCompressedDeadline_FallsBackToDefaultExpectedWindow(t *testing.T) {
	det := detector.NewCompressedDeadlineDetector()

	record := windowRecord(1000000,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))

	pattern := det.Detect(context.Background(), record, nil)

	assert.NotNil(t, pattern)
	assert.Equal(t, 21.0, pattern.Evidence["expected_days"])
	assert.Equal(t, false, pattern.Evidence["baseline_available"])
	assert.InDelta(t, 50+((21.0-5.0)/21.0)*50, pattern.Score, 1e-9)
}

func TestCompressedDeadline_LargeTenderUsesLongerThreshold(t *testing.T) {
	det := detector.NewCompressedDeadlineDetector()

	// Ten days is fine for a small tender but compressed for a large one
	record := windowRecord(6000000,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))

	pattern := det.Detect(context.Background(), record, nil)

	assert.NotNil(t, pattern, "Ten days should fire for a tender at or above fifty lakhs")
	assert.Equal(t, 14.0, pattern.Evidence["threshold_days"])
}

func TestCompressedDeadline_NoDetectionForAdequateWindow(t *testing.T) {
	det := detector.NewCompressedDeadlineDetector()

	record := windowRecord(1000000,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))

	pattern := det.Detect(context.Background(), record, nil)

	assert.Nil(t, pattern, "Ten days is adequate for a small tender")
}

func TestCompressedDeadline_BoundaryWindowDoesNotFire(t *testing.T) {
	det := detector.NewCompressedDeadlineDetector()

	smallAtSeven := windowRecord(1000000,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC))
	largeAtFourteen := windowRecord(6000000,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

	assert.Nil(t, det.Detect(context.Background(), smallAtSeven, nil),
		"Exactly seven days should not fire for a small tender")
	assert.Nil(t, det.Detect(context.Background(), largeAtFourteen, nil),
		"Exactly fourteen days should not fire for a large tender")
}

func TestCompressedDeadline_NoDetectionWhenDatesMissing(t *testing.T) {
	det := detector.NewCompressedDeadlineDetector()

	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	record := &models.ProcurementRecord{
		TenderID:        "TN-2024-011",
		DepartmentID:    "DEPT-PWD",
		EstimatedBudget: 1000000,
		PublicationDate: &published,
	}

	pattern := det.Detect(context.Background(), record, nil)

	assert.Nil(t, pattern, "Pattern needs both publication date and deadline")
}

func TestCompressedDeadline_NoDetectionForNegativeWindow(t *testing.T) {
	det := detector.NewCompressedDeadlineDetector()

	record := windowRecord(1000000,
		time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	pattern := det.Detect(context.Background(), record, nil)

	assert.Nil(t, pattern, "A deadline before publication is malformed data, not a risk signal")
}

func TestCompressedDeadline_ConfiguredExpectedWindow(t *testing.T) {
	det := detector.NewCompressedDeadlineDetector()
	det.SetDefaultExpectedDays(30)

	record := windowRecord(1000000,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))

	pattern := det.Detect(context.Background(), record, nil)

	assert.NotNil(t, pattern)
	assert.Equal(t, 30.0, pattern.Evidence["expected_days"])
	assert.InDelta(t, 95.0, pattern.Score, 1e-9)
}

package detector

import (
	"context"
	"fmt"

	"github.com/rxtsh/ai-for-bharat/internal/models"
)

const (
	compressedDeadlineTemplateID = "explanation.compressed_deadline.v1"
	compressedDeadlineTemplate   = "The bidding window of %.1f days is %.0f%% shorter than the typical %.1f days for comparable tenders. Short windows can limit how many vendors are able to prepare responsive bids."

	// Window thresholds by tender value.
	smallValueCutoff = 5000000.0
	smallValueWindow = 7.0
	largeValueWindow = 14.0
)

// CompressedDeadlineDetector flags tenders whose bidding window is short for
// their value class.
type CompressedDeadlineDetector struct {
	defaultExpectedDays float64
}

func NewCompressedDeadlineDetector() *CompressedDeadlineDetector {
	return &CompressedDeadlineDetector{
		defaultExpectedDays: 21,
	}
}

func (d *CompressedDeadlineDetector) Name() string {
	return "compressed_deadline"
}

func (d *CompressedDeadlineDetector) PatternType() models.PatternType {
	return models.PatternCompressedDeadline
}

// SetDefaultExpectedDays overrides the expected window used when no baseline
// median is available.
func (d *CompressedDeadlineDetector) SetDefaultExpectedDays(days float64) {
	if days > 0 {
		d.defaultExpectedDays = days
	}
}

func (d *CompressedDeadlineDetector) Detect(ctx context.Context, record *models.ProcurementRecord, baseline *models.HistoricalBaseline) *models.RiskPattern {
	if record.PublicationDate == nil || record.SubmissionDeadline == nil {
		return nil
	}

	windowDays := record.SubmissionDeadline.Sub(*record.PublicationDate).Hours() / 24
	if windowDays < 0 {
		return nil // Deadline before publication is malformed upstream data
	}

	value := record.TenderValue()
	fires := (value < smallValueCutoff && windowDays < smallValueWindow) ||
		(value >= smallValueCutoff && windowDays < largeValueWindow)
	if !fires {
		return nil
	}

	expectedDays := d.defaultExpectedDays
	baselineUsed := false
	if baseline != nil && baseline.MedianWindowDays > 0 {
		expectedDays = baseline.MedianWindowDays
		baselineUsed = true
	}

	deviationPct := ((expectedDays - windowDays) / expectedDays) * 100
	score := clampScore(50 + ((expectedDays-windowDays)/expectedDays)*50)

	threshold := smallValueWindow
	if value >= smallValueCutoff {
		threshold = largeValueWindow
	}

	evidence := map[string]interface{}{
		"window_days":        windowDays,
		"expected_days":      expectedDays,
		"deviation_pct":      deviationPct,
		"threshold_days":     threshold,
		"tender_value":       value,
		"baseline_available": baselineUsed,
	}

	return &models.RiskPattern{
		PatternType: d.PatternType(),
		Score:       score,
		Evidence:    evidence,
		Explanation: fmt.Sprintf(compressedDeadlineTemplate, windowDays, deviationPct, expectedDays),
		TemplateID:  compressedDeadlineTemplateID,
	}
}

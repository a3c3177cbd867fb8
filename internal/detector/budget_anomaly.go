package detector

import (
	"context"
	"fmt"
	"math"

	"github.com/rxtsh/ai-for-bharat/internal/models"
)

const (
	budgetAnomalyTemplateID = "explanation.budget_anomaly.v1"
	budgetAnomalyTemplate   = "The awarded amount of %.0f exceeds the estimated budget of %.0f by %.0f%%. Awards materially above estimate sometimes follow legitimate scope changes; the size of this gap places it outside the configured tolerance."

	// Awards above this multiple of the estimate fire the pattern.
	budgetOverrunMultiple = 1.20

	budgetAnomalyBaseScore = 65.0
	budgetAnomalyMaxBonus  = 35.0

	// Deviations beyond two standard deviations from the historical mean
	// unlock z-scaled scoring.
	highConfidenceZ = 2.0
)

// BudgetAnomalyDetector flags awards well above their estimated budget,
// scaled by deviation from the historical mean when a usable baseline
// exists.
type BudgetAnomalyDetector struct {
	minSampleSize int
}

func NewBudgetAnomalyDetector() *BudgetAnomalyDetector {
	return &BudgetAnomalyDetector{
		minSampleSize: 5,
	}
}

func (d *BudgetAnomalyDetector) Name() string {
	return "budget_anomaly"
}

func (d *BudgetAnomalyDetector) PatternType() models.PatternType {
	return models.PatternBudgetAnomaly
}

// SetMinSampleSize overrides the sample size under which a baseline is
// treated as unavailable.
func (d *BudgetAnomalyDetector) SetMinSampleSize(n int) {
	if n > 0 {
		d.minSampleSize = n
	}
}

func (d *BudgetAnomalyDetector) Detect(ctx context.Context, record *models.ProcurementRecord, baseline *models.HistoricalBaseline) *models.RiskPattern {
	if record.AwardedAmount == nil {
		return nil
	}
	if record.EstimatedBudget <= 0 {
		return nil
	}

	awarded := *record.AwardedAmount
	if awarded <= record.EstimatedBudget*budgetOverrunMultiple {
		return nil
	}

	overrunPct := (awarded/record.EstimatedBudget - 1) * 100

	evidence := map[string]interface{}{
		"awarded_amount":   awarded,
		"estimated_budget": record.EstimatedBudget,
		"overrun_pct":      overrunPct,
	}

	score := budgetAnomalyBaseScore

	usable := baseline != nil && baseline.SampleSize >= d.minSampleSize && baseline.StddevAmount > 0
	if usable {
		z := (awarded - baseline.MeanAmount) / baseline.StddevAmount
		evidence["baseline_available"] = true
		evidence["baseline_mean"] = baseline.MeanAmount
		evidence["baseline_stddev"] = baseline.StddevAmount
		evidence["baseline_sample_size"] = baseline.SampleSize
		evidence["z_score"] = z

		if z > highConfidenceZ {
			score = budgetAnomalyBaseScore + math.Min(budgetAnomalyMaxBonus, z*10)
			evidence["confidence"] = "high"
		} else {
			evidence["confidence"] = "threshold"
		}
	} else {
		// Threshold-only path: no z-score fields, the gap alone fired it.
		evidence["baseline_available"] = false
	}

	score = clampScore(score)

	return &models.RiskPattern{
		PatternType: d.PatternType(),
		Score:       score,
		Evidence:    evidence,
		Explanation: fmt.Sprintf(budgetAnomalyTemplate, awarded, record.EstimatedBudget, overrunPct),
		TemplateID:  budgetAnomalyTemplateID,
	}
}

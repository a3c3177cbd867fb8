// Package detector holds the five independent anomaly detectors. Each is
// stateless over the record: it reads the record and the baseline snapshot,
// and either produces a RiskPattern or returns nil. A missing optional field
// makes a detector not applicable, never an error.
package detector

import (
	"context"

	"github.com/rxtsh/ai-for-bharat/internal/models"
)

// Detector is one anomaly pattern over a procurement record.
type Detector interface {
	Name() string
	PatternType() models.PatternType
	Detect(ctx context.Context, record *models.ProcurementRecord, baseline *models.HistoricalBaseline) *models.RiskPattern
}

// clampScore bounds a raw score to [0,100] before weighting.
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

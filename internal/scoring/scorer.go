// Package scoring combines detected risk patterns into one bounded score
// with interaction effects, and attributes the combined score back across
// the patterns so the contributions always sum to the overall score.
package scoring

import (
	"github.com/rxtsh/ai-for-bharat/internal/models"
)

// InteractionReason identifies why an interaction multiplier was applied.
// The report builder renders these from its closed template table.
type InteractionReason string

const (
	ReasonNone                 InteractionReason = ""
	ReasonMultiplePatterns     InteractionReason = "MULTIPLE_PATTERNS"
	ReasonDeadlineSingleBidder InteractionReason = "DEADLINE_SINGLE_BIDDER"
)

const (
	// Each co-occurring pattern past the first raises the multiplier.
	perPatternIncrement = 0.05

	// A compressed deadline together with a single bidder compounds further.
	deadlineBidderMultiplier = 1.15
)

// Result carries the combined score plus the per-pattern attribution,
// aligned by index with the input pattern list.
type Result struct {
	CombinedScore float64
	Level         models.RiskLevel

	Multiplier float64
	Reason     InteractionReason

	Contributions []float64
	Weights       []float64
}

// Scorer folds pattern lists into combined scores under a fixed weight
// configuration.
type Scorer struct {
	weights models.WeightConfig
}

// NewScorer validates the weight configuration up front; a non-positive or
// unknown weight is a ConfigurationError before any record is processed.
func NewScorer(weights models.WeightConfig) (*Scorer, error) {
	if weights == nil {
		weights = models.DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: weights}, nil
}

// Combine computes the combined score for patterns given in fixed
// registration order. An empty list yields score 0 and level LOW.
//
// Each pattern contributes score*weight; the weighted sum is raised by the
// interaction multiplier and clamped to 100. Contributions are the weighted
// scores scaled proportionally so they sum exactly to the combined score.
func (s *Scorer) Combine(patterns []*models.RiskPattern) *Result {
	if len(patterns) == 0 {
		return &Result{
			CombinedScore: 0,
			Level:         models.RiskLow,
			Multiplier:    1.0,
			Reason:        ReasonNone,
		}
	}

	raw := make([]float64, len(patterns))
	weights := make([]float64, len(patterns))
	var weightedSum float64
	for i, p := range patterns {
		w := s.weights.Weight(p.PatternType)
		weights[i] = w
		raw[i] = p.Score * w
		weightedSum += raw[i]
	}

	multiplier := 1.0 + perPatternIncrement*float64(len(patterns)-1)
	reason := ReasonNone
	if len(patterns) > 1 {
		reason = ReasonMultiplePatterns
	}
	if hasPattern(patterns, models.PatternCompressedDeadline) && hasPattern(patterns, models.PatternSingleBidder) {
		multiplier *= deadlineBidderMultiplier
		reason = ReasonDeadlineSingleBidder
	}

	combined := weightedSum * multiplier
	if combined > 100 {
		combined = 100
	}

	contributions := make([]float64, len(patterns))
	if weightedSum > 0 {
		scale := combined / weightedSum
		for i := range raw {
			contributions[i] = raw[i] * scale
		}
	}

	return &Result{
		CombinedScore: combined,
		Level:         Classify(combined),
		Multiplier:    multiplier,
		Reason:        reason,
		Contributions: contributions,
		Weights:       weights,
	}
}

// Classify buckets a combined score into a risk level.
func Classify(score float64) models.RiskLevel {
	switch {
	case score < 40:
		return models.RiskLow
	case score <= 70:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

func hasPattern(patterns []*models.RiskPattern, t models.PatternType) bool {
	for _, p := range patterns {
		if p.PatternType == t {
			return true
		}
	}
	return false
}

package models

import "fmt"

// WeightConfig maps each pattern type to a positive weight multiplier.
// Loaded once at pipeline construction and treated as immutable afterwards;
// changing weights means building a new pipeline.
type WeightConfig map[PatternType]float64

// DefaultWeights returns the neutral configuration: every pattern weighted 1.0.
func DefaultWeights() WeightConfig {
	weights := make(WeightConfig, len(AllPatternTypes))
	for _, t := range AllPatternTypes {
		weights[t] = 1.0
	}
	return weights
}

// Weight returns the configured weight for a pattern type, 1.0 when unset.
func (w WeightConfig) Weight(t PatternType) float64 {
	if v, ok := w[t]; ok {
		return v
	}
	return 1.0
}

// Validate rejects unknown pattern types and non-positive weights.
func (w WeightConfig) Validate() error {
	for t, v := range w {
		if !knownPatternType(t) {
			return &ConfigurationError{
				Field:  "weights",
				Reason: fmt.Sprintf("unknown pattern type %q", t),
			}
		}
		if v <= 0 {
			return &ConfigurationError{
				Field:  "weights",
				Reason: fmt.Sprintf("weight for %s must be positive, got %v", t, v),
			}
		}
	}
	return nil
}

func knownPatternType(t PatternType) bool {
	for _, known := range AllPatternTypes {
		if t == known {
			return true
		}
	}
	return false
}

package models

import "time"

// PatternType identifies one of the five anomaly patterns.
type PatternType string

const (
	PatternSingleBidder       PatternType = "SINGLE_BIDDER"
	PatternVendorRepetition   PatternType = "VENDOR_REPETITION"
	PatternCompressedDeadline PatternType = "COMPRESSED_DEADLINE"
	PatternBudgetAnomaly      PatternType = "BUDGET_ANOMALY"
	PatternSpecTailoring      PatternType = "SPEC_TAILORING"
)

// AllPatternTypes lists the pattern types in fixed registration order.
// The pipeline registers detectors in this order and the scorer receives
// patterns in it, so combined scores are reproducible.
var AllPatternTypes = []PatternType{
	PatternSingleBidder,
	PatternVendorRepetition,
	PatternCompressedDeadline,
	PatternBudgetAnomaly,
	PatternSpecTailoring,
}

// PatternSubType refines SPEC_TAILORING by what drove the detection.
type PatternSubType string

const (
	SubTypeBrandReference      PatternSubType = "BRAND_REFERENCE"
	SubTypeRestrictiveLanguage PatternSubType = "RESTRICTIVE_LANGUAGE"
	SubTypeMixed               PatternSubType = "MIXED"
)

// RiskLevel buckets an overall score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// RiskPattern is one detected anomaly with its bounded score and the facts
// the formula used. Produced by exactly one detector, immutable afterwards.
type RiskPattern struct {
	PatternType PatternType    `json:"pattern_type"`
	SubType     PatternSubType `json:"sub_type,omitempty"`

	Score    float64                `json:"score"`
	Evidence map[string]interface{} `json:"evidence"`

	Explanation string `json:"explanation"`
	TemplateID  string `json:"-"`
}

// ReportPattern is a pattern as it appears in the final report, carrying its
// share of the combined score instead of the raw detector score.
type ReportPattern struct {
	PatternType       PatternType            `json:"pattern_type"`
	SubType           PatternSubType         `json:"sub_type,omitempty"`
	ScoreContribution float64                `json:"score_contribution"`
	Weight            float64                `json:"weight"`
	Evidence          map[string]interface{} `json:"evidence"`
	Explanation       string                 `json:"explanation"`
	TemplateID        string                 `json:"-"`
}

// InteractionEffects records the multiplier applied when patterns co-occur.
type InteractionEffects struct {
	Multiplier float64 `json:"multiplier"`
	Reason     string  `json:"reason,omitempty"`
}

// RiskAnalysis is the final output for one record. Never mutated after
// creation; re-analysis produces a new value.
type RiskAnalysis struct {
	ProcurementID    string             `json:"procurement_id"`
	OverallRiskScore float64            `json:"overall_risk_score"`
	RiskLevel        RiskLevel          `json:"risk_level"`
	RiskPatterns     []ReportPattern    `json:"risk_patterns"`
	Interaction      InteractionEffects `json:"interaction_effects"`
	SummaryText      string             `json:"summary_text"`
	Disclaimer       string             `json:"disclaimer"`
	GeneratedAt      time.Time          `json:"generated_at"`

	// Template ids are kept for the safety validator and never serialized.
	SummaryTemplateID string `json:"-"`
	ReasonTemplateID  string `json:"-"`
}

// Package report assembles the final RiskAnalysis for a record. Summary and
// interaction text come from a closed template table; per-pattern explanation
// text is produced by the owning detector and passed through untouched.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/rxtsh/ai-for-bharat/internal/models"
	"github.com/rxtsh/ai-for-bharat/internal/scoring"
)

// Builder turns detected patterns and a scoring result into a report.
// Pure apart from the clock, which is injectable so output can be
// reproduced byte for byte in tests.
type Builder struct {
	clock func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{clock: time.Now}
}

// SetClock replaces the timestamp source.
func (b *Builder) SetClock(clock func() time.Time) {
	b.clock = clock
}

// Build produces the report for one record. Patterns and the scoring result
// must be aligned by index, in fixed registration order.
func (b *Builder) Build(record *models.ProcurementRecord, patterns []*models.RiskPattern, result *scoring.Result) *models.RiskAnalysis {
	reportPatterns := make([]models.ReportPattern, 0, len(patterns))
	for i, p := range patterns {
		reportPatterns = append(reportPatterns, models.ReportPattern{
			PatternType:       p.PatternType,
			SubType:           p.SubType,
			ScoreContribution: result.Contributions[i],
			Weight:            result.Weights[i],
			Evidence:          p.Evidence,
			Explanation:       p.Explanation,
			TemplateID:        p.TemplateID,
		})
	}

	summaryID, summary := summarize(record.TenderID, patterns, result.Level)
	reasonID, reason := reasonText(result.Reason)

	return &models.RiskAnalysis{
		ProcurementID:    record.TenderID,
		OverallRiskScore: result.CombinedScore,
		RiskLevel:        result.Level,
		RiskPatterns:     reportPatterns,
		Interaction: models.InteractionEffects{
			Multiplier: result.Multiplier,
			Reason:     reason,
		},
		SummaryText:       summary,
		Disclaimer:        Disclaimer,
		GeneratedAt:       b.clock().UTC(),
		SummaryTemplateID: summaryID,
		ReasonTemplateID:  reasonID,
	}
}

func summarize(tenderID string, patterns []*models.RiskPattern, level models.RiskLevel) (templateID, text string) {
	switch len(patterns) {
	case 0:
		return summaryNoneID, fmt.Sprintf(templates[summaryNoneID], tenderID, level)
	case 1:
		return summarySingleID, fmt.Sprintf(templates[summarySingleID], tenderID, displayName(patterns[0].PatternType), level)
	default:
		names := make([]string, len(patterns))
		for i, p := range patterns {
			names[i] = displayName(p.PatternType)
		}
		return summaryMultipleID, fmt.Sprintf(templates[summaryMultipleID], len(patterns), tenderID, strings.Join(names, ", "), level)
	}
}

func reasonText(reason scoring.InteractionReason) (templateID, text string) {
	switch reason {
	case scoring.ReasonMultiplePatterns:
		return reasonMultipleID, templates[reasonMultipleID]
	case scoring.ReasonDeadlineSingleBidder:
		return reasonDeadlineBidderID, templates[reasonDeadlineBidderID]
	default:
		return "", ""
	}
}

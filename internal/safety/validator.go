// Package safety screens generated report text against a deny-list of
// accusatory phrasing. The check fails closed: a match aborts that record's
// analysis instead of emitting silently sanitized text.
package safety

import (
	"fmt"
	"strings"

	"github.com/rxtsh/ai-for-bharat/internal/models"
)

// DefaultDenyList is the built-in set of forbidden phrases. Matching is
// case-insensitive substring, so entries are stored lowercase.
var DefaultDenyList = []string{
	"proves corruption",
	"guilty of",
	"fraudulent",
	"criminal activity",
	"definitely corrupt",
}

// Validator scans every generated text field of a report for forbidden
// phrases. The deny-list is fixed at construction.
type Validator struct {
	deny []string
}

// NewValidator builds a validator over the given phrases; nil or empty
// falls back to DefaultDenyList.
func NewValidator(denyList []string) *Validator {
	if len(denyList) == 0 {
		denyList = DefaultDenyList
	}
	deny := make([]string, len(denyList))
	for i, phrase := range denyList {
		deny[i] = strings.ToLower(phrase)
	}
	return &Validator{deny: deny}
}

// Validate checks the summary, every pattern explanation and the interaction
// reason. The first match is returned as a LanguageSafetyViolation naming
// the template the text came from; nil means the report is safe to emit.
func (v *Validator) Validate(analysis *models.RiskAnalysis) error {
	if err := v.check(analysis.SummaryText, analysis.SummaryTemplateID, "summary_text"); err != nil {
		return err
	}
	for i, p := range analysis.RiskPatterns {
		field := fmt.Sprintf("risk_patterns[%d].explanation", i)
		if err := v.check(p.Explanation, p.TemplateID, field); err != nil {
			return err
		}
	}
	return v.check(analysis.Interaction.Reason, analysis.ReasonTemplateID, "interaction_effects.reason")
}

func (v *Validator) check(text, templateID, field string) error {
	lower := strings.ToLower(text)
	for _, phrase := range v.deny {
		if strings.Contains(lower, phrase) {
			return &models.LanguageSafetyViolation{
				TemplateID: templateID,
				Phrase:     phrase,
				Field:      field,
			}
		}
	}
	return nil
}

package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrBaselineUnavailable signals that historical statistics are missing or
// under the minimum sample size. Affected detectors fall back to
// threshold-only logic; the record is never failed for it.
var ErrBaselineUnavailable = errors.New("historical baseline unavailable")

// ConfigurationError reports malformed weight or knowledge configuration.
// Raised at pipeline construction, before any record is processed.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Field, e.Reason)
}

// LanguageSafetyViolation reports generated text that matched the accusatory
// deny-list. The offending record's analysis is aborted, never emitted with
// the text silently sanitized.
type LanguageSafetyViolation struct {
	TemplateID string
	Phrase     string
	Field      string
}

func (e *LanguageSafetyViolation) Error() string {
	return fmt.Sprintf("language safety violation in %s (template %s): matched forbidden phrase %q",
		e.Field, e.TemplateID, e.Phrase)
}

// AnalysisTimeoutError reports a record that exceeded its processing budget.
// The failure is retryable and isolated to that record.
type AnalysisTimeoutError struct {
	TenderID string
	Budget   time.Duration
}

func (e *AnalysisTimeoutError) Error() string {
	return fmt.Sprintf("analysis of %s exceeded the %s processing budget", e.TenderID, e.Budget)
}

// Retryable marks the timeout as safe to resubmit.
func (e *AnalysisTimeoutError) Retryable() bool { return true }

// IsRetryable reports whether err represents a transient failure worth
// resubmitting.
func IsRetryable(err error) bool {
	var timeout *AnalysisTimeoutError
	return errors.As(err, &timeout)
}

package report

import "github.com/rxtsh/ai-for-bharat/internal/models"

// Disclaimer is appended verbatim to every report.
const Disclaimer = "Risk scores are analytical indicators, not evidence of wrongdoing. Further investigation is required before drawing conclusions."

const (
	summaryNoneID     = "summary.none.v1"
	summarySingleID   = "summary.single.v1"
	summaryMultipleID = "summary.multiple.v1"

	reasonMultipleID       = "reason.multiple_patterns.v1"
	reasonDeadlineBidderID = "reason.deadline_single_bidder.v1"
)

// templates is the closed table every generated sentence comes from.
// No report text is produced outside this table and the detector
// explanation formats, so the full output surface can be audited.
var templates = map[string]string{
	summaryNoneID:     "No elevated risk indicators were detected for tender %s. Overall risk level: %s.",
	summarySingleID:   "One risk indicator was detected for tender %s: %s. Overall risk level: %s.",
	summaryMultipleID: "%d risk indicators were detected for tender %s: %s. Overall risk level: %s.",

	reasonMultipleID:       "Multiple independent risk indicators were detected on the same tender.",
	reasonDeadlineBidderID: "A compressed submission deadline coincided with a single bidder, which compounds both indicators.",
}

var patternDisplayNames = map[models.PatternType]string{
	models.PatternSingleBidder:       "single bidder",
	models.PatternVendorRepetition:   "vendor repetition",
	models.PatternCompressedDeadline: "compressed deadline",
	models.PatternBudgetAnomaly:      "budget anomaly",
	models.PatternSpecTailoring:      "specification tailoring",
}

// Templates returns a copy of the template table so callers can audit the
// full set of sentences the builder can emit.
func Templates() map[string]string {
	out := make(map[string]string, len(templates))
	for id, text := range templates {
		out[id] = text
	}
	return out
}

func displayName(t models.PatternType) string {
	if name, ok := patternDisplayNames[t]; ok {
		return name
	}
	return string(t)
}

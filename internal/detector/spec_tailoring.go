package detector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rxtsh/ai-for-bharat/internal/knowledge"
	"github.com/rxtsh/ai-for-bharat/internal/models"
)

const (
	specTailoringTemplateID = "explanation.spec_tailoring.v1"
	specTailoringTemplate   = "The specification text contains %d tailoring indicators: %d brand references and %d restrictive phrases. Narrowly drafted specifications can exclude capable suppliers even when no exclusion was intended."

	// Firing thresholds over the indicator counts.
	restrictivePhraseThreshold = 3
	brandReferenceThreshold    = 2
)

// SpecTailoringDetector flags specification text drafted around particular
// brands or laced with restrictive phrasing, using the knowledge base's
// pattern tables and category exemptions.
type SpecTailoringDetector struct {
	kb *knowledge.Base
}

func NewSpecTailoringDetector(kb *knowledge.Base) *SpecTailoringDetector {
	return &SpecTailoringDetector{
		kb: kb,
	}
}

func (d *SpecTailoringDetector) Name() string {
	return "spec_tailoring"
}

func (d *SpecTailoringDetector) PatternType() models.PatternType {
	return models.PatternSpecTailoring
}

func (d *SpecTailoringDetector) Detect(ctx context.Context, record *models.ProcurementRecord, _ *models.HistoricalBaseline) *models.RiskPattern {
	if strings.TrimSpace(record.Specification) == "" {
		return nil
	}
	if d.kb == nil {
		return nil
	}
	if d.kb.IsExemptCategory(record.Category) {
		return nil
	}

	brandMatches := d.kb.FindBrandMatches(record.Specification)
	restrictiveMatches := d.kb.FindRestrictiveMatches(record.Specification)

	brandCount := len(brandMatches)
	restrictiveCount := len(restrictiveMatches)

	firesBrand := brandCount >= brandReferenceThreshold
	firesRestrictive := restrictiveCount >= restrictivePhraseThreshold
	if !firesBrand && !firesRestrictive {
		return nil
	}

	indicatorCount := brandCount + restrictiveCount
	score := clampScore(70 + math.Min(30, float64(indicatorCount)*5))

	var subType models.PatternSubType
	switch {
	case firesBrand && firesRestrictive:
		subType = models.SubTypeMixed
	case firesBrand:
		subType = models.SubTypeBrandReference
	default:
		subType = models.SubTypeRestrictiveLanguage
	}

	indicators := make([]map[string]interface{}, 0, indicatorCount)
	for _, m := range brandMatches {
		indicators = append(indicators, map[string]interface{}{
			"phrase":         m.Phrase,
			"offset":         m.Offset,
			"indicator_type": string(models.SubTypeBrandReference),
		})
	}
	for _, m := range restrictiveMatches {
		indicators = append(indicators, map[string]interface{}{
			"phrase":         m.Phrase,
			"offset":         m.Offset,
			"indicator_type": string(models.SubTypeRestrictiveLanguage),
		})
	}
	sort.SliceStable(indicators, func(i, j int) bool {
		return indicators[i]["offset"].(int) < indicators[j]["offset"].(int)
	})

	evidence := map[string]interface{}{
		"brand_count":       brandCount,
		"restrictive_count": restrictiveCount,
		"indicator_count":   indicatorCount,
		"indicators":        indicators,
	}

	return &models.RiskPattern{
		PatternType: d.PatternType(),
		SubType:     subType,
		Score:       score,
		Evidence:    evidence,
		Explanation: fmt.Sprintf(specTailoringTemplate, indicatorCount, brandCount, restrictiveCount),
		TemplateID:  specTailoringTemplateID,
	}
}

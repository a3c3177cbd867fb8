package detector

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/rxtsh/ai-for-bharat/internal/baseline"
	"github.com/rxtsh/ai-for-bharat/internal/models"
)

const (
	vendorRepetitionTemplateID = "explanation.vendor_repetition.v1"
	vendorRepetitionTemplate   = "The awarded vendor received %d other contracts worth %.2f crore from the same department within the preceding twelve months. Repeated awards can reflect specialised capability; they can also indicate that bids were invited from a narrow pool."

	// More than this many prior awards in the trailing year fires the pattern.
	repeatAwardThreshold = 3

	vendorLookbackDays       = 365
	vendorRecentLookbackDays = 180

	// Trailing-180-day concentration above one crore floors the score.
	recentConcentrationCutoff = 1 * models.Crore
	concentrationFloorScore   = 70.0
)

// VendorRepetitionDetector flags vendors repeatedly awarded by the same
// department inside a trailing one-year window.
type VendorRepetitionDetector struct {
	history baseline.HistoryProvider
}

func NewVendorRepetitionDetector(history baseline.HistoryProvider) *VendorRepetitionDetector {
	return &VendorRepetitionDetector{
		history: history,
	}
}

func (d *VendorRepetitionDetector) Name() string {
	return "vendor_repetition"
}

func (d *VendorRepetitionDetector) PatternType() models.PatternType {
	return models.PatternVendorRepetition
}

func (d *VendorRepetitionDetector) Detect(ctx context.Context, record *models.ProcurementRecord, _ *models.HistoricalBaseline) *models.RiskPattern {
	if record.AwardedVendorID == nil || record.AwardDate == nil || record.DepartmentID == "" {
		return nil
	}

	if d.history == nil {
		return nil // No award history source configured
	}

	vendorID := *record.AwardedVendorID
	to := *record.AwardDate
	from := to.AddDate(0, 0, -vendorLookbackDays)

	contracts, err := d.history.AwardsByVendor(ctx, vendorID, record.DepartmentID, from, to)
	if err != nil {
		// History unavailable degrades to no pattern; the record itself is fine.
		log.Printf("Award history lookup failed for vendor %s: %v", vendorID, err)
		return nil
	}

	prior := make([]models.AwardedContract, 0, len(contracts))
	for _, c := range contracts {
		if c.TenderID == record.TenderID {
			continue // The record under analysis is not its own evidence
		}
		prior = append(prior, c)
	}

	count := len(prior)
	if count <= repeatAwardThreshold {
		return nil
	}

	sort.Slice(prior, func(i, j int) bool {
		return prior[i].AwardDate.After(prior[j].AwardDate)
	})

	recentFrom := to.AddDate(0, 0, -vendorRecentLookbackDays)
	var total, recentTotal float64
	for _, c := range prior {
		total += c.Amount
		if c.AwardDate.After(recentFrom) {
			recentTotal += c.Amount
		}
	}

	totalCrores := total / models.Crore
	score := math.Min(100, 40+float64(count)*10+totalCrores*5)
	if recentTotal > recentConcentrationCutoff && score < concentrationFloorScore {
		score = concentrationFloorScore
	}
	score = clampScore(score)

	evidence := map[string]interface{}{
		"vendor_id":           vendorID,
		"department_id":       record.DepartmentID,
		"contract_count":      count,
		"total_value":         total,
		"total_value_crores":  totalCrores,
		"recent_total_value":  recentTotal,
		"window_days":         vendorLookbackDays,
		"contracts":           prior,
		"window_end":          to.Format(time.RFC3339),
	}

	return &models.RiskPattern{
		PatternType: d.PatternType(),
		Score:       score,
		Evidence:    evidence,
		Explanation: fmt.Sprintf(vendorRepetitionTemplate, count, totalCrores),
		TemplateID:  vendorRepetitionTemplateID,
	}
}

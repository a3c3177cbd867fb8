package detector

import (
	"context"
	"fmt"
	"math"

	"github.com/rxtsh/ai-for-bharat/internal/models"
)

const (
	singleBidderTemplateID = "explanation.single_bidder.v1"
	singleBidderTemplate   = "This tender received exactly one bid. Comparable tenders in this category attract %s bids on average. Limited competition can follow from narrow publicity, short preparation time, or genuinely specialised requirements."

	// Value bonus saturates at 20 lakhs; tenders above 10 lakhs carry a
	// fixed surcharge on top.
	singleBidderBaseScore     = 60.0
	singleBidderMaxValueBonus = 20.0
	highValueSurcharge        = 15.0
	highValueCutoff           = 1000000.0
)

// SingleBidderDetector flags tenders that attracted exactly one bidder.
type SingleBidderDetector struct{}

func NewSingleBidderDetector() *SingleBidderDetector {
	return &SingleBidderDetector{}
}

func (d *SingleBidderDetector) Name() string {
	return "single_bidder"
}

func (d *SingleBidderDetector) PatternType() models.PatternType {
	return models.PatternSingleBidder
}

func (d *SingleBidderDetector) Detect(ctx context.Context, record *models.ProcurementRecord, baseline *models.HistoricalBaseline) *models.RiskPattern {
	if record.BidderCount == nil {
		return nil // Cant judge competition without a bidder count
	}

	if *record.BidderCount != 1 {
		return nil
	}

	value := record.TenderValue()
	valueLakhs := value / models.Lakh

	score := singleBidderBaseScore + math.Min(singleBidderMaxValueBonus, valueLakhs)
	surcharge := value > highValueCutoff
	if surcharge {
		score += highValueSurcharge
	}
	score = clampScore(score)

	evidence := map[string]interface{}{
		"bidder_count":         *record.BidderCount,
		"tender_value":         value,
		"tender_value_lakhs":   valueLakhs,
		"high_value_surcharge": surcharge,
	}

	expected := "multiple"
	if baseline != nil && baseline.AvgBidderCount > 0 {
		evidence["expected_bidder_count"] = baseline.AvgBidderCount
		expected = fmt.Sprintf("%.1f", baseline.AvgBidderCount)
	}

	return &models.RiskPattern{
		PatternType: d.PatternType(),
		Score:       score,
		Evidence:    evidence,
		Explanation: fmt.Sprintf(singleBidderTemplate, expected),
		TemplateID:  singleBidderTemplateID,
	}
}

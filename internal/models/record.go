package models

import "time"

// Currency denominations used throughout the scoring formulas.
const (
	Lakh  = 100000.0
	Crore = 10000000.0
)

// ProcurementRecord is one validated tender/award record handed over by
// ingestion. The core reads it and never mutates it. Optional fields are
// pointers, nil meaning the source portal did not publish the value.
type ProcurementRecord struct {
	TenderID       string `json:"tender_id" validate:"required"`
	DepartmentID   string `json:"department_id" validate:"required"`
	DepartmentName string `json:"department_name,omitempty"`
	Category       string `json:"category"`
	Region         string `json:"region"`

	EstimatedBudget float64 `json:"estimated_budget" validate:"required,gt=0"`

	PublicationDate    *time.Time `json:"publication_date,omitempty"`
	SubmissionDeadline *time.Time `json:"submission_deadline,omitempty"`

	BidderCount     *int       `json:"bidder_count,omitempty"`
	AwardedVendorID *string    `json:"awarded_vendor_id,omitempty"`
	AwardedAmount   *float64   `json:"awarded_amount,omitempty"`
	AwardDate       *time.Time `json:"award_date,omitempty"`

	Specification   string `json:"specification,omitempty"`
	ProcurementYear int    `json:"procurement_year,omitempty"`
}

// TenderValue returns the awarded amount when the award is known, otherwise
// the estimated budget. Value thresholds in the detectors work off this.
func (r *ProcurementRecord) TenderValue() float64 {
	if r.AwardedAmount != nil {
		return *r.AwardedAmount
	}
	return r.EstimatedBudget
}

// Year returns the procurement year, falling back to the publication or
// award date when ingestion did not set it. Returns 0 when unknown.
func (r *ProcurementRecord) Year() int {
	if r.ProcurementYear != 0 {
		return r.ProcurementYear
	}
	if r.PublicationDate != nil {
		return r.PublicationDate.Year()
	}
	if r.AwardDate != nil {
		return r.AwardDate.Year()
	}
	return 0
}

// HistoricalBaseline holds the aggregate statistics for one
// (category, region, year-window). An absent baseline is a valid state:
// unknown, not zero.
type HistoricalBaseline struct {
	Category string `json:"category"`
	Region   string `json:"region"`
	FromYear int    `json:"from_year"`

	MeanAmount       float64 `json:"mean_amount"`
	StddevAmount     float64 `json:"stddev_amount"`
	AvgBidderCount   float64 `json:"avg_bidder_count"`
	MedianWindowDays float64 `json:"median_window_days"`
	SampleSize       int     `json:"sample_size"`
}

// AwardedContract is one awarded contract row from the award history store.
type AwardedContract struct {
	TenderID     string    `json:"tender_id"`
	VendorID     string    `json:"vendor_id"`
	DepartmentID string    `json:"department_id"`
	Amount       float64   `json:"amount"`
	AwardDate    time.Time `json:"award_date"`
}

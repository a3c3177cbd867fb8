// Package baseline provides read-only access to historical procurement
// statistics: per category/region aggregates and per vendor award history.
// Providers are immutable for the lifetime of a pipeline instance so every
// record in a batch is scored against the same snapshot.
package baseline

import (
	"context"
	"time"

	"github.com/rxtsh/ai-for-bharat/internal/models"
)

// Provider looks up the historical aggregate for a category/region window.
// Lookup returns models.ErrBaselineUnavailable (possibly wrapped) when no
// baseline exists for the key; callers degrade to threshold-only logic.
type Provider interface {
	Lookup(ctx context.Context, category, region string, fromYear int) (*models.HistoricalBaseline, error)
}

// HistoryProvider returns awarded contracts for a vendor/department pair
// with award dates in (from, to], newest first.
type HistoryProvider interface {
	AwardsByVendor(ctx context.Context, vendorID, departmentID string, from, to time.Time) ([]models.AwardedContract, error)
}

package baseline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rxtsh/ai-for-bharat/internal/models"
)

// MemoryProvider serves baselines and award history from in-memory
// snapshots. It backs tests and deployments without a Postgres store. The
// snapshot is built before analysis starts and read concurrently afterwards,
// so no locking is needed.
type MemoryProvider struct {
	baselines map[string]*models.HistoricalBaseline
	awards    []models.AwardedContract
}

// NewMemoryProvider returns an empty snapshot.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		baselines: make(map[string]*models.HistoricalBaseline),
	}
}

// AddBaseline stores a baseline under its category/region key. The year
// window is carried on the baseline itself; the snapshot holds one aggregate
// per key.
func (m *MemoryProvider) AddBaseline(b *models.HistoricalBaseline) {
	m.baselines[baselineKey(b.Category, b.Region)] = b
}

// AddAwards appends contracts to the award history.
func (m *MemoryProvider) AddAwards(contracts ...models.AwardedContract) {
	m.awards = append(m.awards, contracts...)
}

// Lookup returns the snapshot baseline for the category/region, or
// models.ErrBaselineUnavailable when none was loaded.
func (m *MemoryProvider) Lookup(ctx context.Context, category, region string, fromYear int) (*models.HistoricalBaseline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, ok := m.baselines[baselineKey(category, region)]
	if !ok {
		return nil, fmt.Errorf("no baseline for %s/%s: %w", category, region, models.ErrBaselineUnavailable)
	}
	return b, nil
}

// AwardsByVendor returns contracts for the vendor/department with award
// dates in (from, to], newest first.
func (m *MemoryProvider) AwardsByVendor(ctx context.Context, vendorID, departmentID string, from, to time.Time) ([]models.AwardedContract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result []models.AwardedContract
	for _, c := range m.awards {
		if c.VendorID != vendorID || c.DepartmentID != departmentID {
			continue
		}
		if !c.AwardDate.After(from) || c.AwardDate.After(to) {
			continue
		}
		result = append(result, c)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].AwardDate.After(result[j].AwardDate)
	})
	return result, nil
}

func baselineKey(category, region string) string {
	return strings.ToLower(category) + "|" + strings.ToLower(region)
}

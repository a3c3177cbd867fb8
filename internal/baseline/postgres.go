package baseline

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rxtsh/ai-for-bharat/internal/models"
)

// PostgresStore reads award history from the procurement_awards table and
// computes baselines on demand. It implements both Provider and
// HistoryProvider. Lookups respect the caller's context deadline, so a slow
// database surfaces as a baseline-unavailable degrade rather than a record
// failure.
type PostgresStore struct {
	connectionString string
	pool             *pgxpool.Pool
}

// NewPostgresStore prepares a store; Connect must be called before use.
func NewPostgresStore(connectionString string) *PostgresStore {
	return &PostgresStore{
		connectionString: connectionString,
	}
}

// Connect opens the connection pool.
func (p *PostgresStore) Connect(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, p.connectionString)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	p.pool = pool
	return nil
}

// Close releases the pool.
func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}

// HealthCheck pings the database.
func (p *PostgresStore) HealthCheck(ctx context.Context) error {
	if p.pool == nil {
		return fmt.Errorf("postgres store not connected")
	}

	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// Lookup loads award rows for the category/region from fromYear onwards and
// aggregates them into a baseline. Zero rows means the baseline is
// unavailable, not zero.
func (p *PostgresStore) Lookup(ctx context.Context, category, region string, fromYear int) (*models.HistoricalBaseline, error) {
	if p.pool == nil {
		return nil, fmt.Errorf("postgres store not connected: %w", models.ErrBaselineUnavailable)
	}

	query := `
		SELECT awarded_amount,
		       bidder_count,
		       EXTRACT(EPOCH FROM (submission_deadline - publication_date)) / 86400.0
		FROM procurement_awards
		WHERE category = $1 AND region = $2 AND procurement_year >= $3
		  AND awarded_amount IS NOT NULL`

	rows, err := p.pool.Query(ctx, query, category, region, fromYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query baseline rows: %w", err)
	}
	defer rows.Close()

	var amounts, bidderCounts, windowDays []float64
	for rows.Next() {
		var amount float64
		var bidders *int
		var window *float64

		if err := rows.Scan(&amount, &bidders, &window); err != nil {
			return nil, fmt.Errorf("failed to scan baseline row: %w", err)
		}

		amounts = append(amounts, amount)
		if bidders != nil {
			bidderCounts = append(bidderCounts, float64(*bidders))
		}
		if window != nil && *window >= 0 {
			windowDays = append(windowDays, *window)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read baseline rows: %w", err)
	}

	return Aggregate(category, region, fromYear, amounts, bidderCounts, windowDays)
}

// AwardsByVendor returns the vendor's contracts from the department with
// award dates in (from, to], newest first.
func (p *PostgresStore) AwardsByVendor(ctx context.Context, vendorID, departmentID string, from, to time.Time) ([]models.AwardedContract, error) {
	if p.pool == nil {
		return nil, fmt.Errorf("postgres store not connected")
	}

	query := `
		SELECT tender_id, vendor_id, department_id, awarded_amount, award_date
		FROM procurement_awards
		WHERE vendor_id = $1 AND department_id = $2
		  AND award_date > $3 AND award_date <= $4
		  AND awarded_amount IS NOT NULL
		ORDER BY award_date DESC`

	rows, err := p.pool.Query(ctx, query, vendorID, departmentID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query award history: %w", err)
	}
	defer rows.Close()

	var contracts []models.AwardedContract
	for rows.Next() {
		var c models.AwardedContract
		if err := rows.Scan(&c.TenderID, &c.VendorID, &c.DepartmentID, &c.Amount, &c.AwardDate); err != nil {
			return nil, fmt.Errorf("failed to scan award row: %w", err)
		}
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read award rows: %w", err)
	}

	return contracts, nil
}

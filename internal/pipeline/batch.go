package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rxtsh/ai-for-bharat/internal/models"
)

// DefaultBatchWorkers bounds concurrent record analyses in a batch.
const DefaultBatchWorkers = 4

// RecordFailure pairs a failed record with its error.
type RecordFailure struct {
	TenderID string
	Err      error
}

// BatchResult is the outcome of one batch run. Analyses and failures keep
// the input order.
type BatchResult struct {
	BatchID  string
	Analyses []*models.RiskAnalysis
	Failures []RecordFailure
	Duration time.Duration
}

// Runner fans a batch of records across a bounded worker pool. Records are
// fully independent; one record's failure never affects another's.
type Runner struct {
	pipeline *Pipeline
	workers  int
}

// NewRunner wraps a pipeline for batch use.
func NewRunner(pipeline *Pipeline, workers int) *Runner {
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}
	return &Runner{pipeline: pipeline, workers: workers}
}

// Run analyses every record and reports per-record outcomes. Cancelling ctx
// stops further records from starting; records already in flight run to
// completion so no partial analysis is ever emitted.
func (r *Runner) Run(ctx context.Context, records []*models.ProcurementRecord) *BatchResult {
	start := time.Now()
	batchID := uuid.NewString()
	log.Printf("Starting batch %s (%d records, %d workers)", batchID, len(records), r.workers)

	analyses := make([]*models.RiskAnalysis, len(records))
	errs := make([]error, len(records))

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, record := range records {
		// Per-iteration copies: the go directive is capped at 1.21 by the
		// build toolchain, which has shared loop variables.
		i, record := i, record

		select {
		case <-ctx.Done():
			errs[i] = ctx.Err()
			continue
		default:
		}

		g.Go(func() error {
			// Detach from the batch context so an in-flight record is never
			// cut off halfway. The per-record budget still applies.
			analyses[i], errs[i] = r.pipeline.Analyze(context.WithoutCancel(ctx), record)
			return nil
		})
	}
	g.Wait()

	result := &BatchResult{BatchID: batchID, Duration: time.Since(start)}
	for i, record := range records {
		switch {
		case errs[i] != nil:
			result.Failures = append(result.Failures, RecordFailure{TenderID: record.TenderID, Err: errs[i]})
		case analyses[i] != nil:
			result.Analyses = append(result.Analyses, analyses[i])
		}
	}

	log.Printf("Batch %s finished in %s (%d analysed, %d failed)",
		batchID, result.Duration, len(result.Analyses), len(result.Failures))

	return result
}

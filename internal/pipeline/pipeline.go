// Package pipeline drives each record through the analysis state machine:
// RECEIVED, DETECTING, SCORING, EXPLAINING, VALIDATING, then DONE or FAILED.
// States are strictly sequential per record and no record's analysis
// affects another's.
package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rxtsh/ai-for-bharat/internal/baseline"
	"github.com/rxtsh/ai-for-bharat/internal/detector"
	"github.com/rxtsh/ai-for-bharat/internal/models"
	"github.com/rxtsh/ai-for-bharat/internal/report"
	"github.com/rxtsh/ai-for-bharat/internal/safety"
	"github.com/rxtsh/ai-for-bharat/internal/scoring"
)

const (
	// DefaultRecordTimeout bounds one record's full analysis.
	DefaultRecordTimeout = 10 * time.Second

	// DefaultBaselineTimeout bounds the baseline lookup alone. Expiry means
	// "baseline unavailable", never a failed record.
	DefaultBaselineTimeout = 500 * time.Millisecond

	// Baselines cover the two full years before the record's own.
	baselineLookbackYears = 2
)

// Pipeline runs registered detectors over records and assembles validated
// reports. Stateless between records apart from the tracker.
type Pipeline struct {
	detectors []detector.Detector
	scorer    *scoring.Scorer
	builder   *report.Builder
	validator *safety.Validator
	tracker   *Tracker

	baselines baseline.Provider

	recordTimeout   time.Duration
	baselineTimeout time.Duration
}

// New creates a pipeline with no detectors registered.
func New(scorer *scoring.Scorer, builder *report.Builder, validator *safety.Validator) *Pipeline {
	return &Pipeline{
		detectors:       make([]detector.Detector, 0),
		scorer:          scorer,
		builder:         builder,
		validator:       validator,
		tracker:         NewTracker(),
		recordTimeout:   DefaultRecordTimeout,
		baselineTimeout: DefaultBaselineTimeout,
	}
}

// RegisterDetector appends a detector. Registration order fixes the pattern
// order handed to the scorer, so it must match across runs.
func (p *Pipeline) RegisterDetector(d detector.Detector) {
	p.detectors = append(p.detectors, d)
	log.Printf("Registered detector: %s (pattern: %s)", d.Name(), d.PatternType())
}

// SetBaselineProvider wires the historical statistics source. Without one,
// every detector sees a nil baseline and uses its threshold-only path.
func (p *Pipeline) SetBaselineProvider(provider baseline.Provider) {
	p.baselines = provider
}

// SetRecordTimeout overrides the per-record processing budget.
func (p *Pipeline) SetRecordTimeout(d time.Duration) {
	if d > 0 {
		p.recordTimeout = d
	}
}

// SetBaselineTimeout overrides the baseline lookup budget.
func (p *Pipeline) SetBaselineTimeout(d time.Duration) {
	if d > 0 {
		p.baselineTimeout = d
	}
}

// Tracker exposes per-record states and completion counters.
func (p *Pipeline) Tracker() *Tracker {
	return p.tracker
}

// RegisteredDetectors returns the names of registered detectors in order.
func (p *Pipeline) RegisteredDetectors() []string {
	names := make([]string, len(p.detectors))
	for i, det := range p.detectors {
		names[i] = det.Name()
	}
	return names
}

// Analyze runs one record through the full state machine. The returned
// analysis is complete and validated; on any failure nothing partial is
// returned. Exceeding the processing budget yields an AnalysisTimeoutError,
// which is retryable.
func (p *Pipeline) Analyze(ctx context.Context, record *models.ProcurementRecord) (*models.RiskAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, p.recordTimeout)
	defer cancel()

	p.tracker.SetState(record.TenderID, StateReceived)

	p.tracker.SetState(record.TenderID, StateDetecting)
	patterns, err := p.runDetectors(ctx, record)
	if err != nil {
		return nil, p.fail(record, err)
	}

	p.tracker.SetState(record.TenderID, StateScoring)
	result := p.scorer.Combine(patterns)

	p.tracker.SetState(record.TenderID, StateExplaining)
	analysis := p.builder.Build(record, patterns, result)

	p.tracker.SetState(record.TenderID, StateValidating)
	if err := p.validator.Validate(analysis); err != nil {
		return nil, p.fail(record, err)
	}

	p.tracker.SetState(record.TenderID, StateDone)

	if len(analysis.RiskPatterns) == 0 {
		log.Printf("No risk patterns detected (tender: %s)", record.TenderID)
	} else {
		log.Printf("Found %d risk patterns in tender: %s (score: %.1f, level: %s)",
			len(analysis.RiskPatterns), record.TenderID, analysis.OverallRiskScore, analysis.RiskLevel)
	}

	return analysis, nil
}

func (p *Pipeline) fail(record *models.ProcurementRecord, err error) error {
	p.tracker.SetState(record.TenderID, StateFailed)
	if errors.Is(err, context.DeadlineExceeded) {
		return &models.AnalysisTimeoutError{TenderID: record.TenderID, Budget: p.recordTimeout}
	}
	return err
}

// runDetectors looks up the baseline once, fans detectors out concurrently,
// then joins the fired patterns back in registration order so scoring is
// deterministic regardless of completion order.
func (p *Pipeline) runDetectors(ctx context.Context, record *models.ProcurementRecord) ([]*models.RiskPattern, error) {
	bl := p.lookupBaseline(ctx, record)

	results := make([]*models.RiskPattern, len(p.detectors))
	g, gctx := errgroup.WithContext(ctx)
	for i, det := range p.detectors {
		// Per-iteration copies: the go directive is capped at 1.21 by the
		// build toolchain, which has shared loop variables.
		i, det := i, det
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = det.Detect(gctx, record, bl)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	patterns := make([]*models.RiskPattern, 0, len(results))
	for _, r := range results {
		if r != nil {
			patterns = append(patterns, r)
		}
	}
	return patterns, nil
}

func (p *Pipeline) lookupBaseline(ctx context.Context, record *models.ProcurementRecord) *models.HistoricalBaseline {
	if p.baselines == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.baselineTimeout)
	defer cancel()

	fromYear := record.Year() - baselineLookbackYears
	bl, err := p.baselines.Lookup(ctx, record.Category, record.Region, fromYear)
	if err != nil {
		if !errors.Is(err, models.ErrBaselineUnavailable) {
			log.Printf("Baseline lookup failed for %s/%s: %v (continuing without baseline)",
				record.Category, record.Region, err)
		}
		return nil
	}
	return bl
}

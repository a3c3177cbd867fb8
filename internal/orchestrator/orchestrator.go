package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/rxtsh/ai-for-bharat/internal/baseline"
	"github.com/rxtsh/ai-for-bharat/internal/config"
	"github.com/rxtsh/ai-for-bharat/internal/dedupe"
	"github.com/rxtsh/ai-for-bharat/internal/detector"
	"github.com/rxtsh/ai-for-bharat/internal/eventbus"
	"github.com/rxtsh/ai-for-bharat/internal/knowledge"
	"github.com/rxtsh/ai-for-bharat/internal/models"
	"github.com/rxtsh/ai-for-bharat/internal/pipeline"
	"github.com/rxtsh/ai-for-bharat/internal/report"
	"github.com/rxtsh/ai-for-bharat/internal/safety"
	"github.com/rxtsh/ai-for-bharat/internal/scoring"
)

// Orchestrator manages the Risk Analyser service lifecycle and coordinates
// record intake, pipeline analysis, and publication of validated reports.
//
// Lifecycle:
//  1. Start() - Loads weights and knowledge, connects storage, initializes the pipeline and NATS
//  2. Run() - Subscribes for procurement records and blocks until cancelled
//  3. Stop() - Gracefully closes all connections and resources
//
// The orchestrator implements graceful degradation:
//   - Postgres failure: no historical baselines - detectors fall back to threshold-only logic
//   - Redis failure: no deduplication - repeated records are re-analysed
//   - NATS failure: records cannot be received or analyses published (log-only operation)
type Orchestrator struct {
	config *config.Config

	// Analysis pipeline with registered detectors
	pipeline *pipeline.Pipeline

	// Optional integrations
	baselines  *baseline.PostgresStore // historical baseline store
	seen       *dedupe.Store           // Redis dedupe store
	publisher  *eventbus.Publisher     // NATS publisher for analyses
	subscriber *eventbus.Subscriber    // NATS subscriber for records
}

// NewOrchestrator creates a new Orchestrator instance with the provided
// configuration. The orchestrator is not started until Start() is called.
func NewOrchestrator(cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		config: cfg,
	}
}

// Start initializes all service connections and prepares the orchestrator
// for record analysis. This method must be called before Run().
//
// Weight or knowledge configuration problems fail fast here, before any
// record is processed. Storage and messaging are optional; their absence
// degrades behaviour but never prevents startup.
func (o *Orchestrator) Start() error {
	log.Printf("Starting Risk Analyser Orchestrator...")

	// Optional storage first so detectors can take their handles
	o.connectPostgres() // Optional - warnings logged on failure
	o.connectRedis()    // Optional - warnings logged on failure

	if err := o.initializePipeline(); err != nil {
		return fmt.Errorf("failed to initialize analysis pipeline: %w", err)
	}

	o.connectNATS() // Optional - warnings logged on failure

	log.Printf("Risk Analyser Orchestrator started successfully")
	return nil
}

// initializePipeline loads configuration surfaces, builds the scorer,
// report builder and safety validator, and registers all detectors.
func (o *Orchestrator) initializePipeline() error {
	log.Printf("Initializing analysis pipeline...")

	weights, err := o.loadWeights()
	if err != nil {
		return err
	}

	kb, err := o.loadKnowledge()
	if err != nil {
		return err
	}

	scorer, err := scoring.NewScorer(weights)
	if err != nil {
		return err
	}

	o.pipeline = pipeline.New(scorer, report.NewBuilder(), safety.NewValidator(nil))
	o.pipeline.SetRecordTimeout(time.Duration(o.config.RecordTimeoutSeconds) * time.Second)
	o.pipeline.SetBaselineTimeout(time.Duration(o.config.BaselineTimeoutMs) * time.Millisecond)

	if o.baselines != nil {
		o.pipeline.SetBaselineProvider(o.baselines)
	}

	o.registerDetectors(kb)

	detectorNames := o.pipeline.RegisteredDetectors()
	log.Printf("Analysis pipeline initialized with %d detectors: %v", len(detectorNames), detectorNames)
	return nil
}

func (o *Orchestrator) loadWeights() (models.WeightConfig, error) {
	if o.config.WeightsPath == "" {
		log.Printf("No weights file configured, using default pattern weights")
		return models.DefaultWeights(), nil
	}

	weights, err := scoring.LoadWeights(o.config.WeightsPath)
	if err != nil {
		return nil, err
	}

	log.Printf("Loaded pattern weights from: %s", o.config.WeightsPath)
	return weights, nil
}

func (o *Orchestrator) loadKnowledge() (*knowledge.Base, error) {
	if o.config.KnowledgePath == "" {
		log.Printf("No knowledge file configured, using built-in knowledge base")
		return knowledge.Default(), nil
	}

	kb, err := knowledge.Load(o.config.KnowledgePath)
	if err != nil {
		return nil, err
	}

	log.Printf("Loaded knowledge base from: %s", o.config.KnowledgePath)
	return kb, nil
}

// registerDetectors registers all five detectors in their fixed order and
// applies configured tuning.
func (o *Orchestrator) registerDetectors(kb *knowledge.Base) {
	log.Printf("Registering detectors with configured tuning...")

	// Single Bidder
	o.pipeline.RegisterDetector(detector.NewSingleBidderDetector())

	// Vendor Repetition (award history served by the baseline store)
	var history baseline.HistoryProvider
	if o.baselines != nil {
		history = o.baselines
	}
	o.pipeline.RegisterDetector(detector.NewVendorRepetitionDetector(history))

	// Compressed Deadline
	deadlineDetector := detector.NewCompressedDeadlineDetector()
	deadlineDetector.SetDefaultExpectedDays(float64(o.config.Tuning.DefaultExpectedWindowDays))
	o.pipeline.RegisterDetector(deadlineDetector)
	log.Printf("  - Compressed Deadline: default_expected_days=%d",
		o.config.Tuning.DefaultExpectedWindowDays)

	// Budget Anomaly
	budgetDetector := detector.NewBudgetAnomalyDetector()
	budgetDetector.SetMinSampleSize(o.config.Tuning.MinBaselineSample)
	o.pipeline.RegisterDetector(budgetDetector)
	log.Printf("  - Budget Anomaly: min_baseline_sample=%d",
		o.config.Tuning.MinBaselineSample)

	// Spec Tailoring
	o.pipeline.RegisterDetector(detector.NewSpecTailoringDetector(kb))
}

// connectPostgres opens the historical baseline store. This is an optional
// connection - failure logs a warning but does not prevent startup.
// Without it every detector sees "baseline unavailable" and falls back to
// threshold-only logic.
func (o *Orchestrator) connectPostgres() {
	if o.config.PostgresDSN == "" {
		log.Printf("POSTGRES_DSN not configured, skipping baseline store")
		return
	}

	log.Printf("Connecting to baseline store...")

	store := baseline.NewPostgresStore(o.config.PostgresDSN)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.Connect(ctx); err != nil {
		log.Printf("Warning: failed to connect baseline store: %v", err)
		log.Printf("Historical baselines unavailable - detectors use threshold-only logic")
		return
	}

	o.baselines = store
	log.Printf("Connected to baseline store")
}

// connectRedis opens the dedupe store. This is an optional connection -
// failure logs a warning but does not prevent startup. Without it repeated
// records are re-analysed instead of skipped.
func (o *Orchestrator) connectRedis() {
	if o.config.RedisAddr == "" {
		log.Printf("REDIS_ADDR not configured, skipping dedupe store")
		return
	}

	log.Printf("Connecting to dedupe store at: %s", o.config.RedisAddr)

	ttl := time.Duration(o.config.DedupTTLHours) * time.Hour
	store, err := dedupe.NewStore(o.config.RedisAddr, o.config.RedisPassword, o.config.RedisDB, ttl)
	if err != nil {
		log.Printf("Warning: failed to connect dedupe store: %v", err)
		log.Printf("Deduplication unavailable - repeated records will be re-analysed")
		return
	}

	o.seen = store
	log.Printf("Connected to dedupe store")
}

// connectNATS establishes the event bus connections for record intake and
// analysis publication. This is an optional connection - failure logs a
// warning but does not prevent startup.
func (o *Orchestrator) connectNATS() {
	if o.config.NatsURL == "" {
		log.Printf("NATS URL not configured, skipping connection")
		return
	}

	log.Printf("Connecting to NATS at: %s", o.config.NatsURL)

	publisher, err := eventbus.NewPublisher(o.config.NatsURL, o.config.AnalysesSubject)
	if err != nil {
		log.Printf("Warning: failed to connect NATS publisher: %v", err)
		log.Printf("Analyses will not be published downstream")
	} else {
		o.publisher = publisher
		log.Printf("Connected to NATS publisher")
	}

	subscriber, err := eventbus.NewSubscriber(o.config.NatsURL, o.config.RecordsSubject, o.handleRecord)
	if err != nil {
		log.Printf("Warning: failed to create NATS subscriber: %v", err)
		log.Printf("Record intake over the event bus unavailable")
	} else {
		o.subscriber = subscriber
		log.Printf("Connected to NATS subscriber")
	}
}

// Run starts record intake and blocks until the context is cancelled.
// Each incoming record is deduplicated, analysed by the pipeline, and its
// validated report published to the analyses subject.
func (o *Orchestrator) Run(ctx context.Context) error {
	if o.subscriber != nil {
		if err := o.subscriber.Start(); err != nil {
			return fmt.Errorf("failed to start record subscription: %w", err)
		}
		log.Printf("Risk analyser ready - listening for procurement records")
	} else {
		log.Printf("Warning: no record subscription active - waiting for shutdown")
	}

	<-ctx.Done()
	log.Printf("Shutdown signal received")
	return ctx.Err()
}

// handleRecord processes one incoming record end to end. Runs on the NATS
// delivery goroutine; failures are isolated to the record.
func (o *Orchestrator) handleRecord(record *models.ProcurementRecord) {
	ctx := context.Background()

	fingerprint, duplicate := o.claimRecord(ctx, record)
	if duplicate {
		return
	}

	analysis, err := o.pipeline.Analyze(ctx, record)
	if err != nil {
		o.handleAnalysisFailure(ctx, record, fingerprint, err)
		return
	}

	o.publishAnalysis(analysis)
}

// claimRecord marks the record as seen and reports whether it was already
// analysed within the TTL window. Dedupe store errors degrade to analysing
// the record anyway.
func (o *Orchestrator) claimRecord(ctx context.Context, record *models.ProcurementRecord) (fingerprint string, duplicate bool) {
	if o.seen == nil {
		return "", false
	}

	fp, err := dedupe.Fingerprint(record)
	if err != nil {
		log.Printf("Warning: failed to fingerprint record %s: %v (analysing anyway)", record.TenderID, err)
		return "", false
	}

	fresh, err := o.seen.MarkIfNew(ctx, fp)
	if err != nil {
		log.Printf("Warning: dedupe check failed for %s: %v (analysing anyway)", record.TenderID, err)
		return fp, false
	}
	if !fresh {
		log.Printf("Skipping duplicate record %s (already analysed within TTL)", record.TenderID)
		return fp, true
	}

	return fp, false
}

func (o *Orchestrator) handleAnalysisFailure(ctx context.Context, record *models.ProcurementRecord, fingerprint string, err error) {
	var violation *models.LanguageSafetyViolation
	if errors.As(err, &violation) {
		log.Printf("Language safety violation for %s: template %s matched %q in %s",
			record.TenderID, violation.TemplateID, violation.Phrase, violation.Field)
		log.Printf("Fix the offending template before re-ingesting this record")
		return
	}

	log.Printf("Analysis failed for %s: %v", record.TenderID, err)

	// A retryable failure releases the dedupe claim so resubmission is
	// analysed instead of skipped as a duplicate.
	if models.IsRetryable(err) && o.seen != nil && fingerprint != "" {
		if ferr := o.seen.Forget(ctx, fingerprint); ferr != nil {
			log.Printf("Warning: failed to release dedupe claim for %s: %v", record.TenderID, ferr)
		}
	}
}

func (o *Orchestrator) publishAnalysis(analysis *models.RiskAnalysis) {
	if o.publisher == nil {
		log.Printf("NATS publisher unavailable - analysis for %s not published (level: %s, score: %.1f)",
			analysis.ProcurementID, analysis.RiskLevel, analysis.OverallRiskScore)
		return
	}

	if err := o.publisher.PublishAnalysis(analysis); err != nil {
		log.Printf("Warning: failed to publish analysis for %s: %v", analysis.ProcurementID, err)
	}
}

// Stop gracefully closes all connections and releases resources.
// This method should be called during application shutdown.
func (o *Orchestrator) Stop() error {
	log.Printf("Stopping Orchestrator...")

	// Stop intake first so no new analyses start mid-shutdown
	if o.subscriber != nil {
		o.subscriber.Close()
	}

	if o.publisher != nil {
		o.publisher.Close()
	}

	if o.seen != nil {
		if err := o.seen.Close(); err != nil {
			log.Printf("Error closing dedupe store: %v", err)
		}
	}

	if o.baselines != nil {
		o.baselines.Close()
	}

	log.Printf("Orchestrator stopped successfully")
	return nil
}

package pipeline

import (
	"context"
	"fmt"

	"aapl-elt/src/interfaces"
	"aapl-elt/src/logger"
	"aapl-elt/src/models"
	"aapl-elt/src/utils"
)

// -----------------------------------------------------------------------------

// Orchestrator sequences the pipeline stages: SetupInfra -> Extract ->
// ScoreSentiment -> Join -> Validate -> Load. Any hard failure stops the run
// and leaves the warehouse table in its last-known-good state. There is no
// retry inside the pipeline; whole-run retry is the scheduler's concern.
type Orchestrator struct {
	Config *models.MConfig
	Store  interfaces.IObjectStore
	Logger *logger.Logger

	extractor   *Extractor
	transformer *SentimentTransformer
	joiner      *JoinTransformer
	validator   *Validator
	loader      *WarehouseLoader
}

// -----------------------------------------------------------------------------

func NewOrchestrator(
	cfg *models.MConfig,
	store interfaces.IObjectStore,
	source interfaces.IMarketDataSource,
	scorer interfaces.ISentimentScorer,
	warehouse interfaces.IWarehouse,
	cal *utils.TradingCalendar,
) *Orchestrator {
	return &Orchestrator{
		Config:      cfg,
		Store:       store,
		Logger:      logger.NewLogger("Orchestrator"),
		extractor:   NewExtractor(cfg, store, source, cal),
		transformer: NewSentimentTransformer(cfg, store, scorer),
		joiner:      NewJoinTransformer(cfg, store),
		validator:   NewValidator(),
		loader:      NewWarehouseLoader(warehouse),
	}
}

// -----------------------------------------------------------------------------

// SetupInfra ensures both buckets exist. Idempotent: re-running with buckets
// already present is a no-op aside from a log line.
func (o *Orchestrator) SetupInfra(ctx context.Context) error {
	o.Logger.Info("Setting up infrastructure...")

	buckets := []string{o.Config.ObjectStore.RawBucket, o.Config.ObjectStore.ProcessedBucket}
	for _, bucket := range buckets {
		exists, err := o.Store.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
		}
		if exists {
			o.Logger.Info("Bucket exists: %s", bucket)
			continue
		}
		if err := o.Store.MakeBucket(ctx, bucket); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
		o.Logger.Info("Created bucket: %s", bucket)
	}

	return nil
}

// -----------------------------------------------------------------------------
// Stage entry points. These are exposed individually so the scheduler can
// wire them as separate tasks, mirroring how the pipeline is triggered in
// production.
// -----------------------------------------------------------------------------

func (o *Orchestrator) ExtractLoad(ctx context.Context) models.StageOutcome {
	return o.extractor.Run(ctx)
}

func (o *Orchestrator) TransformSentiment(ctx context.Context) models.StageOutcome {
	return o.transformer.Run(ctx)
}

// JoinValidateLoad runs the three hard-failing stages and returns the number
// of rows loaded.
func (o *Orchestrator) JoinValidateLoad(ctx context.Context) (int, error) {
	joined, outcome := o.joiner.Run(ctx)
	if joined == nil {
		return 0, fmt.Errorf("join produced no result: %s", outcome.Reason)
	}

	validated, err := o.validator.Validate(joined)
	if err != nil {
		return 0, err
	}

	if err := o.loader.Load(validated); err != nil {
		return 0, err
	}

	return len(validated), nil
}

// -----------------------------------------------------------------------------

// Run executes the full pipeline synchronously. Degraded input is reported
// as ordinary success: the daily_sentiment=0.0 fallback is a defined
// outcome, not an error.
func (o *Orchestrator) Run(ctx context.Context) models.RunReport {
	var degraded []string

	if err := o.SetupInfra(ctx); err != nil {
		o.Logger.Error("Infrastructure setup failed: %v", err)
		return models.RunReport{OK: false, Cause: fmt.Sprintf("infrastructure setup failed: %v", err)}
	}

	if out := o.ExtractLoad(ctx); out.Status == models.StageDegraded {
		degraded = append(degraded, out.Reason)
	}

	if out := o.TransformSentiment(ctx); out.Status == models.StageDegraded {
		degraded = append(degraded, out.Reason)
	}

	rows, err := o.JoinValidateLoad(ctx)
	if err != nil {
		o.Logger.Error("Pipeline run failed: %v", err)
		return models.RunReport{OK: false, Cause: err.Error(), Degraded: degraded}
	}

	o.Logger.Info("Pipeline run complete: %d rows loaded", rows)
	return models.RunReport{OK: true, RowsLoaded: rows, Degraded: degraded}
}

package scheduler

import (
	"context"
	"sync"
	"time"

	"aapl-elt/src/helpers"
	"aapl-elt/src/logger"
	"aapl-elt/src/models"
	"aapl-elt/src/pipeline"

	"github.com/bpradana/weave"
)

// -----------------------------------------------------------------------------

// Scheduler triggers full pipeline runs on a fixed cadence and retries a
// failed run a bounded number of times with a fixed delay. Each run is
// expressed as a three-task graph matching how the stages are grouped in
// production: extract_load -> transform_sentiment -> join_validate_load.
type Scheduler struct {
	Config   *models.MConfig
	Logger   *logger.Logger
	Pipeline *pipeline.Orchestrator
}

// -----------------------------------------------------------------------------

func NewScheduler(cfg *models.MConfig, orch *pipeline.Orchestrator) *Scheduler {
	return &Scheduler{
		Config:   cfg,
		Logger:   logger.NewLogger("Scheduler"),
		Pipeline: orch,
	}
}

// -----------------------------------------------------------------------------

// RunOnce executes one pipeline run as a task graph. The graph's FailFast
// strategy skips downstream tasks after a hard failure, matching the
// orchestrator's short-circuit semantics.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	g := weave.NewGraph()

	extract, err := weave.AddTask(g, "extract_load", func(ctx context.Context, deps weave.DependencyResolver) (models.StageOutcome, error) {
		if err := s.Pipeline.SetupInfra(ctx); err != nil {
			return models.StageOutcome{}, err
		}
		return s.Pipeline.ExtractLoad(ctx), nil
	})
	if err != nil {
		return err
	}

	transform, err := weave.AddTask(g, "transform_sentiment", func(ctx context.Context, deps weave.DependencyResolver) (models.StageOutcome, error) {
		return s.Pipeline.TransformSentiment(ctx), nil
	}, weave.DependsOn(extract))
	if err != nil {
		return err
	}

	if _, err := weave.AddTask(g, "join_validate_load", func(ctx context.Context, deps weave.DependencyResolver) (int, error) {
		return s.Pipeline.JoinValidateLoad(ctx)
	}, weave.DependsOn(transform)); err != nil {
		return err
	}

	_, metrics, err := g.Run(ctx)
	s.Logger.Info("Run finished in %v: %d succeeded, %d failed, %d skipped",
		metrics.Duration, metrics.TasksSucceeded, metrics.TasksFailed, metrics.TasksSkipped)
	return err
}

// -----------------------------------------------------------------------------

// RunWithRetry runs the pipeline, retrying the whole run on failure.
func (s *Scheduler) RunWithRetry(ctx context.Context) error {
	attempts := s.Config.Scheduler.Retries + 1
	delay := time.Duration(s.Config.Scheduler.RetryDelaySeconds) * time.Second

	return helpers.RetryFixedDelay("pipeline run", attempts, delay, s.Logger, func() error {
		return s.RunOnce(ctx)
	})
}

// -----------------------------------------------------------------------------

// Start begins the cadence loop. An immediate run happens on startup, then
// one per interval until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go s.runLoop(ctx, wg)
	s.Logger.Info("Scheduler started: running every %dh", s.Config.Scheduler.IntervalHours)
}

// -----------------------------------------------------------------------------

func (s *Scheduler) runLoop(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	interval := time.Duration(s.Config.Scheduler.IntervalHours) * time.Hour
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := s.RunWithRetry(ctx); err != nil {
		s.Logger.Error("Scheduled run failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			if err := s.RunWithRetry(ctx); err != nil {
				s.Logger.Error("Scheduled run failed: %v", err)
			}
		}
	}
}

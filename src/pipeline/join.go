package pipeline

import (
	"context"
	"sort"

	"aapl-elt/src/interfaces"
	"aapl-elt/src/logger"
	"aapl-elt/src/models"
)

// -----------------------------------------------------------------------------

// JoinTransformer left-joins per-day mean sentiment onto daily stock rows.
// Every date in the stock feed survives the join; dates present only in the
// sentiment feed are dropped. Missing sentiment resolves to exactly 0.0 —
// the validator depends on this, the warehouse never stores nulls.
type JoinTransformer struct {
	Config *models.MConfig
	Store  interfaces.IObjectStore
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewJoinTransformer(cfg *models.MConfig, store interfaces.IObjectStore) *JoinTransformer {
	return &JoinTransformer{
		Config: cfg,
		Store:  store,
		Logger: logger.NewLogger("JoinTransformer"),
	}
}

// -----------------------------------------------------------------------------

// Run produces the joined rows, or nil with a Failed outcome when either
// staged source cannot be read. Nil rows are a hard stop for the run.
func (j *JoinTransformer) Run(ctx context.Context) ([]models.DailyAnalysisRecord, models.StageOutcome) {
	j.Logger.Info("Joining data...")

	stocks, outcome := j.readStockSide(ctx)
	if outcome.Status == models.StageFailed {
		return nil, outcome
	}

	sentiments, outcome := j.readSentimentSide(ctx)
	if outcome.Status == models.StageFailed {
		return nil, outcome
	}

	daily := aggregateDailySentiment(sentiments)

	joined := make([]models.DailyAnalysisRecord, 0, len(stocks))
	for _, s := range stocks {
		key := s.Date.Format(models.DateLayout)
		sentiment := 0.0
		if mean, ok := daily[key]; ok {
			sentiment = mean
		}
		joined = append(joined, models.DailyAnalysisRecord{
			Date:           s.Date,
			ClosePrice:     s.ClosePrice,
			Volume:         s.Volume,
			DailySentiment: sentiment,
		})
	}

	sort.Slice(joined, func(a, b int) bool {
		return joined[a].Date.Before(joined[b].Date)
	})

	j.Logger.Info("Joined %d stock rows against %d sentiment dates", len(joined), len(daily))
	return joined, models.Success()
}

// -----------------------------------------------------------------------------

// readStockSide loads the staged stock snapshot. Unreachable store or
// malformed encoding is a hard failure: nothing downstream can proceed.
func (j *JoinTransformer) readStockSide(ctx context.Context) ([]models.RawStockRecord, models.StageOutcome) {
	payload, err := j.Store.GetObject(ctx, j.Config.ObjectStore.RawBucket, RawStockObjectKey)
	if err != nil {
		j.Logger.Error("Error reading staged stock data: %v", err)
		return nil, models.Failed("staged stock object unreadable: %v", err)
	}

	stocks, err := DecodeStockCSV(payload)
	if err != nil {
		j.Logger.Error("Error decoding staged stock data: %v", err)
		return nil, models.Failed("staged stock object malformed: %v", err)
	}

	return stocks, models.Success()
}

// -----------------------------------------------------------------------------

// readSentimentSide loads the processed sentiment object. An absent object
// is the same as an empty one; any other read failure is hard.
func (j *JoinTransformer) readSentimentSide(ctx context.Context) ([]models.SentimentRecord, models.StageOutcome) {
	payload, err := j.Store.GetObject(ctx, j.Config.ObjectStore.ProcessedBucket, SentimentObjectKey)
	if err != nil {
		if j.Store.IsNotFound(err) {
			j.Logger.Info("No processed sentiment object, defaulting all dates to neutral")
			return nil, models.Success()
		}
		j.Logger.Error("Error reading processed sentiment data: %v", err)
		return nil, models.Failed("processed sentiment object unreadable: %v", err)
	}

	sentiments, err := DecodeSentimentCSV(payload)
	if err != nil {
		j.Logger.Error("Error decoding processed sentiment data: %v", err)
		return nil, models.Failed("processed sentiment object malformed: %v", err)
	}

	return sentiments, models.Success()
}

// -----------------------------------------------------------------------------

// aggregateDailySentiment computes the arithmetic mean score per date.
// Simple average: no weighting by headline count across days, no trimming.
func aggregateDailySentiment(records []models.SentimentRecord) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, r := range records {
		key := r.Date.Format(models.DateLayout)
		sums[key] += r.SentimentScore
		counts[key]++
	}

	means := make(map[string]float64, len(sums))
	for key, sum := range sums {
		means[key] = sum / float64(counts[key])
	}

	return means
}

package pipeline

import (
	"context"

	"aapl-elt/src/interfaces"
	"aapl-elt/src/logger"
	"aapl-elt/src/models"
)

// -----------------------------------------------------------------------------

// SentimentTransformer reads the raw news object, scores each headline, and
// stages the result in the processed bucket. An unreadable raw news object
// (including one that was never staged) degrades the run instead of failing
// it; the join treats the absent output as an empty sentiment set.
type SentimentTransformer struct {
	Config *models.MConfig
	Store  interfaces.IObjectStore
	Scorer interfaces.ISentimentScorer
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSentimentTransformer(cfg *models.MConfig, store interfaces.IObjectStore, scorer interfaces.ISentimentScorer) *SentimentTransformer {
	return &SentimentTransformer{
		Config: cfg,
		Store:  store,
		Scorer: scorer,
		Logger: logger.NewLogger("SentimentTransformer"),
	}
}

// -----------------------------------------------------------------------------

func (t *SentimentTransformer) Run(ctx context.Context) models.StageOutcome {
	t.Logger.Info("Processing sentiment analysis...")

	payload, err := t.Store.GetObject(ctx, t.Config.ObjectStore.RawBucket, RawNewsObjectKey)
	if err != nil {
		t.Logger.Error("Error reading news data: %v", err)
		return models.Degraded("raw news object unavailable, no sentiment staged")
	}

	news, err := DecodeNewsCSV(payload)
	if err != nil {
		t.Logger.Error("Error decoding news data: %v", err)
		return models.Degraded("raw news object malformed, no sentiment staged")
	}

	t.Logger.Info("Calculating sentiment scores for %d headlines...", len(news))

	scored := make([]models.SentimentRecord, 0, len(news))
	for _, row := range news {
		scored = append(scored, models.SentimentRecord{
			Date:           row.Date,
			Headline:       row.Headline,
			SentimentScore: t.Scorer.Score(row.Headline),
		})
	}

	out, err := EncodeSentimentCSV(scored)
	if err != nil {
		t.Logger.Error("Error encoding sentiment data: %v", err)
		return models.Degraded("sentiment encoding failed, no sentiment staged")
	}

	if err := t.Store.PutObject(ctx, t.Config.ObjectStore.ProcessedBucket, SentimentObjectKey, out, csvContentType); err != nil {
		t.Logger.Error("Error uploading processed data: %v", err)
		return models.Degraded("sentiment upload failed")
	}

	t.Logger.Info("Saved %d sentiment rows to %s/%s", len(scored), t.Config.ObjectStore.ProcessedBucket, SentimentObjectKey)
	return models.Success()
}

package pipeline

import (
	"context"
	"os"
	"strings"
	"time"

	"aapl-elt/src/interfaces"
	"aapl-elt/src/logger"
	"aapl-elt/src/models"
	"aapl-elt/src/utils"
)

// -----------------------------------------------------------------------------

// Extractor stages the stock price snapshot and the static news dataset into
// the raw bucket. Both feeds soft-fail: a fetch or copy failure is logged and
// the run continues against whatever was staged previously.
type Extractor struct {
	Config   *models.MConfig
	Store    interfaces.IObjectStore
	Source   interfaces.IMarketDataSource
	Calendar *utils.TradingCalendar
	Logger   *logger.Logger
}

// -----------------------------------------------------------------------------

func NewExtractor(cfg *models.MConfig, store interfaces.IObjectStore, source interfaces.IMarketDataSource, cal *utils.TradingCalendar) *Extractor {
	return &Extractor{
		Config:   cfg,
		Store:    store,
		Source:   source,
		Calendar: cal,
		Logger:   logger.NewLogger("Extractor"),
	}
}

// -----------------------------------------------------------------------------

func (e *Extractor) Run(ctx context.Context) models.StageOutcome {
	e.Logger.Info("Starting extraction...")

	var degraded []string

	if reason := e.stageStockPrices(ctx); reason != "" {
		degraded = append(degraded, reason)
	}
	if reason := e.stageNewsDataset(ctx); reason != "" {
		degraded = append(degraded, reason)
	}

	if len(degraded) > 0 {
		return models.Degraded("%s", strings.Join(degraded, "; "))
	}
	return models.Success()
}

// -----------------------------------------------------------------------------

// stageStockPrices fetches the price history and overwrites the raw stock
// object. Returns a degradation reason instead of an error: the stage never
// hard-fails this feed.
func (e *Extractor) stageStockPrices(ctx context.Context) string {
	symbol := e.Config.Pipeline.Symbol

	// Config load validates the start date, but the extractor also accepts
	// configs built directly, so the parse failure is handled here too.
	since, err := time.Parse(models.DateLayout, e.Config.Pipeline.StartDate)
	if err != nil {
		e.Logger.Error("Invalid pipeline start date '%s': %v", e.Config.Pipeline.StartDate, err)
		e.warnIfStaged(ctx)
		return "invalid start date, stock fetch skipped"
	}

	e.Logger.Info("Fetching %s history since %s...", symbol, e.Config.Pipeline.StartDate)

	records, err := e.Source.FetchDailyHistory(ctx, symbol, since)
	if err != nil {
		e.Logger.Error("Error fetching stock data: %v", err)
		e.warnIfStaged(ctx)
		return "stock fetch failed, using previously staged snapshot if any"
	}

	payload, err := EncodeStockCSV(records)
	if err != nil {
		e.Logger.Error("Error encoding stock data: %v", err)
		return "stock encoding failed"
	}

	if err := e.Store.PutObject(ctx, e.Config.ObjectStore.RawBucket, RawStockObjectKey, payload, csvContentType); err != nil {
		e.Logger.Error("Error uploading stock data: %v", err)
		return "stock upload failed, using previously staged snapshot if any"
	}

	if len(records) > 0 {
		e.warnIfStale(records[len(records)-1].Date)
	}
	return ""
}

// -----------------------------------------------------------------------------

// stageNewsDataset copies the static news file into the raw bucket
// unmodified. A missing file is a warning, not a failure: the join defaults
// every date to neutral sentiment.
func (e *Extractor) stageNewsDataset(ctx context.Context) string {
	path := e.Config.Pipeline.NewsFilePath

	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			e.Logger.Warning("Local news file %s not found, proceeding without news data", path)
		} else {
			e.Logger.Error("Error reading local news file %s: %v", path, err)
		}
		return "news dataset unavailable"
	}

	if err := e.Store.PutObject(ctx, e.Config.ObjectStore.RawBucket, RawNewsObjectKey, payload, csvContentType); err != nil {
		e.Logger.Error("Error uploading news data: %v", err)
		return "news upload failed"
	}

	return ""
}

// -----------------------------------------------------------------------------

// warnIfStaged inspects the previously staged snapshot after a failed fetch
// so operators can tell a stale warehouse apart from a fresh one.
func (e *Extractor) warnIfStaged(ctx context.Context) {
	payload, err := e.Store.GetObject(ctx, e.Config.ObjectStore.RawBucket, RawStockObjectKey)
	if err != nil {
		e.Logger.Warning("No previously staged stock snapshot available either")
		return
	}

	records, err := DecodeStockCSV(payload)
	if err != nil || len(records) == 0 {
		return
	}
	e.warnIfStale(records[len(records)-1].Date)
}

// -----------------------------------------------------------------------------

// warnIfStale compares the snapshot's newest date against the last completed
// trading day. A gap means the warehouse will be rebuilt from stale prices.
func (e *Extractor) warnIfStale(newest time.Time) {
	if e.Calendar == nil {
		return
	}

	expected := e.Calendar.LastCompletedTradingDay(time.Now())
	if newest.Before(expected) {
		e.Logger.Warning("Staged stock snapshot ends %s but the last completed trading day is %s; downstream stages will run on stale prices",
			newest.Format(models.DateLayout), expected.Format(models.DateLayout))
	}
}

package models

import "time"

// DateLayout is the calendar-date encoding used everywhere in the pipeline.
// Time-of-day and timezone are discarded at the extraction boundary; trading
// days are the unit of granularity.
const DateLayout = "2006-01-02"

// -----------------------------------------------------------------------------

// RawStockRecord is one trading day as staged by the extractor.
type RawStockRecord struct {
	Date       time.Time `json:"date"`
	ClosePrice float64   `json:"close_price"`
	Volume     float64   `json:"volume"`
}

// -----------------------------------------------------------------------------

// RawNewsRecord is one headline from the static news dataset.
type RawNewsRecord struct {
	Date     time.Time `json:"date"`
	Headline string    `json:"headline"`
}

// -----------------------------------------------------------------------------

// SentimentRecord is a headline with its polarity score, one-to-one with the
// input row.
type SentimentRecord struct {
	Date           time.Time `json:"date"`
	Headline       string    `json:"headline"`
	SentimentScore float64   `json:"sentiment_score"`
}

// -----------------------------------------------------------------------------

// DailyAnalysisRecord is the warehouse row: one per trading day present in
// the stock feed. This single definition is shared by the join transformer
// and the validator so the two cannot drift apart.
type DailyAnalysisRecord struct {
	Date           time.Time `json:"date"`
	ClosePrice     float64   `json:"close_price"`
	Volume         float64   `json:"volume"`
	DailySentiment float64   `json:"daily_sentiment"`
}

package pipeline

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"aapl-elt/src/models"
)

// Fixed object keys. Re-running overwrites these snapshots in place.
const (
	RawStockObjectKey  = "aapl_stock_prices.csv"
	RawNewsObjectKey   = "aapl_news_full.csv"
	SentimentObjectKey = "aapl_news_sentiment.csv"
)

const csvContentType = "text/csv"

var (
	stockHeader     = []string{"date", "close", "volume"}
	newsHeader      = []string{"date", "headline"}
	sentimentHeader = []string{"date", "headline", "sentiment_score"}
)

// -----------------------------------------------------------------------------
// Flat tabular encodings for the staged objects.
// -----------------------------------------------------------------------------

func EncodeStockCSV(records []models.RawStockRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(stockHeader); err != nil {
		return nil, err
	}
	for _, r := range records {
		row := []string{
			r.Date.Format(models.DateLayout),
			strconv.FormatFloat(r.ClosePrice, 'f', -1, 64),
			strconv.FormatFloat(r.Volume, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// -----------------------------------------------------------------------------

func DecodeStockCSV(payload []byte) ([]models.RawStockRecord, error) {
	rows, err := readRows(payload, stockHeader, "stock")
	if err != nil {
		return nil, err
	}

	records := make([]models.RawStockRecord, 0, len(rows))
	for i, row := range rows {
		date, err := parseDate(row[0])
		if err != nil {
			return nil, fmt.Errorf("stock row %d: %w", i+1, err)
		}
		closeVal, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("stock row %d: bad close '%s'", i+1, row[1])
		}
		volume, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("stock row %d: bad volume '%s'", i+1, row[2])
		}
		records = append(records, models.RawStockRecord{Date: date, ClosePrice: closeVal, Volume: volume})
	}

	return records, nil
}

// -----------------------------------------------------------------------------

func DecodeNewsCSV(payload []byte) ([]models.RawNewsRecord, error) {
	rows, err := readRows(payload, newsHeader, "news")
	if err != nil {
		return nil, err
	}

	records := make([]models.RawNewsRecord, 0, len(rows))
	for i, row := range rows {
		date, err := parseDate(row[0])
		if err != nil {
			return nil, fmt.Errorf("news row %d: %w", i+1, err)
		}
		records = append(records, models.RawNewsRecord{Date: date, Headline: row[1]})
	}

	return records, nil
}

// -----------------------------------------------------------------------------

func EncodeSentimentCSV(records []models.SentimentRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(sentimentHeader); err != nil {
		return nil, err
	}
	for _, r := range records {
		row := []string{
			r.Date.Format(models.DateLayout),
			r.Headline,
			strconv.FormatFloat(r.SentimentScore, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// -----------------------------------------------------------------------------

func DecodeSentimentCSV(payload []byte) ([]models.SentimentRecord, error) {
	rows, err := readRows(payload, sentimentHeader, "sentiment")
	if err != nil {
		return nil, err
	}

	records := make([]models.SentimentRecord, 0, len(rows))
	for i, row := range rows {
		date, err := parseDate(row[0])
		if err != nil {
			return nil, fmt.Errorf("sentiment row %d: %w", i+1, err)
		}
		score, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("sentiment row %d: bad score '%s'", i+1, row[2])
		}
		records = append(records, models.SentimentRecord{Date: date, Headline: row[1], SentimentScore: score})
	}

	return records, nil
}

// -----------------------------------------------------------------------------

// readRows reads payload, checks the header row against the expected column
// names, and enforces the field count. A reordered or renamed header fails
// here instead of surfacing as a parse error on some later column.
func readRows(payload []byte, header []string, kind string) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(payload))
	r.FieldsPerRecord = len(header)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed %s csv: %w", kind, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty %s csv: missing header", kind)
	}

	for i, name := range header {
		if rows[0][i] != name {
			return nil, fmt.Errorf("unexpected %s csv header '%s', want '%s'",
				kind, strings.Join(rows[0], ","), strings.Join(header, ","))
		}
	}

	return rows[1:], nil
}

// -----------------------------------------------------------------------------

// parseDate accepts a bare calendar date, tolerating a trailing time portion
// as found in some news dataset exports.
func parseDate(s string) (time.Time, error) {
	if len(s) > len(models.DateLayout) {
		s = s[:len(models.DateLayout)]
	}
	date, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date '%s'", s)
	}
	return date, nil
}

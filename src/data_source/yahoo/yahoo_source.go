package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"aapl-elt/src/logger"
	"aapl-elt/src/models"
)

// -----------------------------------------------------------------------------

// YahooFinanceSource fetches daily price history from the Yahoo Finance v8
// chart API.
type YahooFinanceSource struct {
	Config     *models.MConfig
	Logger     *logger.Logger
	HttpClient *http.Client
	BaseURL    string
}

// -----------------------------------------------------------------------------

func NewYahooFinanceSource(cfg *models.MConfig) *YahooFinanceSource {
	return &YahooFinanceSource{
		Config: cfg,
		Logger: logger.NewLogger("YahooFinanceSource"),
		HttpClient: &http.Client{
			Timeout: time.Duration(cfg.Network.RequestTimeout) * time.Second,
		},
		BaseURL: "https://query1.finance.yahoo.com/v8/finance/chart",
	}
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) Name() string {
	return "yahoo"
}

// -----------------------------------------------------------------------------

// FetchDailyHistory fetches one bar per trading day from since through the
// present, keeping only (date, close, volume).
func (s *YahooFinanceSource) FetchDailyHistory(ctx context.Context, symbol string, since time.Time) ([]models.RawStockRecord, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("period1", fmt.Sprintf("%d", since.Unix()))
	params.Set("period2", fmt.Sprintf("%d", time.Now().Unix()))
	params.Set("includePrePost", "false")

	reqUrl := fmt.Sprintf("%s/%s?%s", s.BaseURL, symbol, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqUrl, nil)
	if err != nil {
		return nil, err
	}
	if s.Config.Network.UserAgent != "" {
		req.Header.Set("User-Agent", s.Config.Network.UserAgent)
	}

	resp, err := s.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status %d for %s", resp.StatusCode, symbol)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return s.parseChartResponse(symbol, body)
}

// -----------------------------------------------------------------------------

type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string `json:"currency"`
				Symbol               string `json:"symbol"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
				Gmtoffset            int    `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`  // Use pointers to handle null
					Volume []*float64 `json:"volume"` // Use pointers to handle null
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) parseChartResponse(symbol string, data []byte) ([]models.RawStockRecord, error) {
	var resp YahooChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s - %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}

	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no result in response for %s", symbol)
	}

	result := resp.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		return nil, fmt.Errorf("no timestamps in response for %s", symbol)
	}

	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data in response for %s", symbol)
	}
	quote := result.Indicators.Quote[0]

	// Alignment check
	if len(result.Timestamp) != len(quote.Close) || len(result.Timestamp) != len(quote.Volume) {
		return nil, fmt.Errorf("data alignment error for %s: mismatched array lengths", symbol)
	}

	// Bar timestamps are session opens in the exchange timezone; that
	// timezone decides which calendar date a bar belongs to.
	loc, err := time.LoadLocation(result.Meta.ExchangeTimezoneName)
	if err != nil {
		loc = time.FixedZone("exchange", result.Meta.Gmtoffset)
	}

	byDate := make(map[string]models.RawStockRecord, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if quote.Close[i] == nil || quote.Volume[i] == nil {
			s.Logger.Info("Skipping null bar for %s at index %d", symbol, i)
			continue
		}

		closeVal := *quote.Close[i]
		volume := *quote.Volume[i]
		if closeVal <= 0 || volume < 0 {
			s.Logger.Info("Skipping invalid bar for %s: close=%f, volume=%f", symbol, closeVal, volume)
			continue
		}

		day := time.Unix(ts, 0).In(loc)
		date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

		// The chart API can return a second bar for the current session;
		// the later bar supersedes the earlier one.
		byDate[date.Format(models.DateLayout)] = models.RawStockRecord{
			Date:       date,
			ClosePrice: closeVal,
			Volume:     volume,
		}
	}

	if len(byDate) == 0 {
		return nil, fmt.Errorf("no valid data points for %s", symbol)
	}

	records := make([]models.RawStockRecord, 0, len(byDate))
	for _, rec := range byDate {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	s.Logger.Info("Fetched %s: %d daily bars [%s -> %s]", symbol, len(records),
		records[0].Date.Format(models.DateLayout), records[len(records)-1].Date.Format(models.DateLayout))

	return records, nil
}

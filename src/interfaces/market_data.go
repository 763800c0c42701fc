package interfaces

import (
	"context"
	"time"

	"aapl-elt/src/models"
)

// -----------------------------------------------------------------------------
// IMarketDataSource interface for fetching price history from external sources.
// -----------------------------------------------------------------------------

type IMarketDataSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchDailyHistory retrieves one record per trading day for the symbol,
	// from since through the present, normalized to bare calendar dates and
	// sorted ascending.
	FetchDailyHistory(ctx context.Context, symbol string, since time.Time) ([]models.RawStockRecord, error)
}

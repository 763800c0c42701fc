package interfaces

import "aapl-elt/src/models"

// -----------------------------------------------------------------------------
// IWarehouse defines the contract for the embedded analytical store.
// -----------------------------------------------------------------------------

type IWarehouse interface {

	// Initialize opens the store and prepares the analysis table.
	Initialize() error

	// -----------------------------------------------------------------------------

	// ReplaceDailyAnalysis swaps the analysis table for rows as one logical
	// operation. Readers see either the prior table or the new one, never a
	// half-replaced state.
	ReplaceDailyAnalysis(rows []models.DailyAnalysisRecord) error

	// -----------------------------------------------------------------------------

	// CountRows returns the current analysis table row count.
	CountRows() (int, error)

	// -----------------------------------------------------------------------------

	// SelectAll returns every analysis row ordered ascending by date.
	SelectAll() ([]models.DailyAnalysisRecord, error)

	// -----------------------------------------------------------------------------

	// RecentSummary returns the latest N rows ordered descending by date.
	RecentSummary(days int) ([]models.DailyAnalysisRecord, error)

	// -----------------------------------------------------------------------------

	// Close the store connection
	Close() error
}

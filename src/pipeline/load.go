package pipeline

import (
	"fmt"

	"aapl-elt/src/helpers"
	"aapl-elt/src/interfaces"
	"aapl-elt/src/logger"
	"aapl-elt/src/models"
)

// -----------------------------------------------------------------------------

// WarehouseLoader materializes validated rows as the warehouse table,
// replacing the prior table wholesale.
type WarehouseLoader struct {
	Warehouse interfaces.IWarehouse
	Logger    *logger.Logger
}

// -----------------------------------------------------------------------------

func NewWarehouseLoader(wh interfaces.IWarehouse) *WarehouseLoader {
	return &WarehouseLoader{
		Warehouse: wh,
		Logger:    logger.NewLogger("WarehouseLoader"),
	}
}

// -----------------------------------------------------------------------------

// Load replaces the analysis table and verifies the post-load row count
// matches the input. A mismatch is a loader failure.
func (l *WarehouseLoader) Load(rows []models.DailyAnalysisRecord) error {
	l.Logger.Info("Loading %d rows to warehouse...", len(rows))

	if err := l.Warehouse.ReplaceDailyAnalysis(rows); err != nil {
		return &helpers.WarehouseError{PipelineError: helpers.PipelineError{Message: "warehouse load failed", Cause: err}}
	}

	count, err := l.Warehouse.CountRows()
	if err != nil {
		return &helpers.WarehouseError{PipelineError: helpers.PipelineError{Message: "warehouse row count check failed", Cause: err}}
	}
	if count != len(rows) {
		return &helpers.WarehouseError{PipelineError: helpers.PipelineError{
			Message: fmt.Sprintf("warehouse row count mismatch: loaded %d, found %d", len(rows), count),
		}}
	}

	l.Logger.Info("Total rows in warehouse: %d", count)
	return nil
}

package pipeline

import (
	"math"

	"aapl-elt/src/helpers"
	"aapl-elt/src/logger"
	"aapl-elt/src/models"
)

// -----------------------------------------------------------------------------

// Validator enforces the warehouse schema on the joined result. Validation
// is all-or-nothing per run: one bad row fails the whole batch, and nothing
// reaches the warehouse.
type Validator struct {
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewValidator() *Validator {
	return &Validator{
		Logger: logger.NewLogger("Validator"),
	}
}

// -----------------------------------------------------------------------------

// Validate is a pure gate: on success it returns rows unchanged, on failure
// a SchemaViolationError naming each failed column/constraint and the number
// of rows violating it.
func (v *Validator) Validate(rows []models.DailyAnalysisRecord) ([]models.DailyAnalysisRecord, error) {
	v.Logger.Info("Validating %d rows...", len(rows))

	badDate := 0
	badClose := 0
	badVolume := 0
	badSentiment := 0

	// NaN compares false against every bound, so each range check must
	// reject it explicitly. The warehouse columns are non-nullable floats.
	for _, r := range rows {
		if r.Date.IsZero() {
			badDate++
		}
		if math.IsNaN(r.ClosePrice) || r.ClosePrice < 0 {
			badClose++
		}
		if math.IsNaN(r.Volume) || r.Volume < 0 {
			badVolume++
		}
		if math.IsNaN(r.DailySentiment) || r.DailySentiment < -1.0 || r.DailySentiment > 1.0 {
			badSentiment++
		}
	}

	var violations []helpers.ColumnViolation
	if badDate > 0 {
		violations = append(violations, helpers.ColumnViolation{Column: "date", Constraint: "must be a valid calendar date", Rows: badDate})
	}
	if badClose > 0 {
		violations = append(violations, helpers.ColumnViolation{Column: "close_price", Constraint: "must be >= 0", Rows: badClose})
	}
	if badVolume > 0 {
		violations = append(violations, helpers.ColumnViolation{Column: "volume", Constraint: "must be >= 0", Rows: badVolume})
	}
	if badSentiment > 0 {
		violations = append(violations, helpers.ColumnViolation{Column: "daily_sentiment", Constraint: "must be within [-1.0, 1.0]", Rows: badSentiment})
	}

	if len(violations) > 0 {
		err := &helpers.SchemaViolationError{Violations: violations}
		v.Logger.Error("Data validation failed: %v", err)
		return nil, err
	}

	v.Logger.Info("Data validation passed")
	return rows, nil
}

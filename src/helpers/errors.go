package helpers

import (
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type PipelineError struct {
	Message string
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Distinct error types for the pipeline's failure surfaces
type ExtractionError struct{ PipelineError }
type ObjectStoreError struct{ PipelineError }
type WarehouseError struct{ PipelineError }

// -----------------------------------------------------------------------------

// ColumnViolation describes one failed schema constraint.
type ColumnViolation struct {
	Column     string
	Constraint string
	Rows       int
}

func (v ColumnViolation) String() string {
	return fmt.Sprintf("column %s: %s (%d rows)", v.Column, v.Constraint, v.Rows)
}

// -----------------------------------------------------------------------------

// SchemaViolationError reports which columns/constraints failed validation
// and how many rows violated each.
type SchemaViolationError struct {
	Violations []ColumnViolation
}

func (e *SchemaViolationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}

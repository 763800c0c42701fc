package models

import "fmt"

// -----------------------------------------------------------------------------
// Stage outcomes
// -----------------------------------------------------------------------------

// StageStatus tags the result of a pipeline stage. Soft failures surface as
// StageDegraded and let the run continue; StageFailed stops the run.
type StageStatus int

const (
	StageSuccess StageStatus = iota
	StageDegraded
	StageFailed
)

func (s StageStatus) String() string {
	switch s {
	case StageSuccess:
		return "SUCCESS"
	case StageDegraded:
		return "DEGRADED"
	case StageFailed:
		return "FAILED"
	}
	return "UNKNOWN"
}

// -----------------------------------------------------------------------------

// StageOutcome is the tagged result every stage returns to the orchestrator.
type StageOutcome struct {
	Status StageStatus
	Reason string
}

func Success() StageOutcome {
	return StageOutcome{Status: StageSuccess}
}

func Degraded(format string, args ...interface{}) StageOutcome {
	return StageOutcome{Status: StageDegraded, Reason: fmt.Sprintf(format, args...)}
}

func Failed(format string, args ...interface{}) StageOutcome {
	return StageOutcome{Status: StageFailed, Reason: fmt.Sprintf(format, args...)}
}

// -----------------------------------------------------------------------------

// RunReport is the single user-visible result of a full pipeline run.
// A run with degraded input still reports OK: the daily_sentiment=0.0
// fallback is a defined outcome, not an error.
type RunReport struct {
	OK         bool     `json:"ok"`
	Cause      string   `json:"cause,omitempty"`
	RowsLoaded int      `json:"rows_loaded"`
	Degraded   []string `json:"degraded,omitempty"`
}

package storage

import (
	"path/filepath"
	"testing"
	"time"

	"aapl-elt/src/logger"
	"aapl-elt/src/models"
)

func testWarehouse(t *testing.T) *SQLiteWarehouse {
	t.Helper()

	cfg := &models.MConfig{
		Warehouse: models.MWarehouseConfig{
			DBPath: filepath.Join(t.TempDir(), "warehouse.db"),
		},
	}

	w, err := NewSQLiteWarehouse(cfg, logger.NewLogger("Test"))
	if err != nil {
		t.Fatalf("NewSQLiteWarehouse: %v", err)
	}
	if err := w.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { w.Close() })

	return w
}

func testRows(dates ...string) []models.DailyAnalysisRecord {
	rows := make([]models.DailyAnalysisRecord, 0, len(dates))
	for i, d := range dates {
		date, err := time.Parse(models.DateLayout, d)
		if err != nil {
			panic(err)
		}
		rows = append(rows, models.DailyAnalysisRecord{
			Date:           date,
			ClosePrice:     150.0 + float64(i),
			Volume:         1000,
			DailySentiment: 0.1 * float64(i),
		})
	}
	return rows
}

// -----------------------------------------------------------------------------

func TestInitializeCreatesEmptyTable(t *testing.T) {
	w := testWarehouse(t)

	count, err := w.CountRows()
	if err != nil {
		t.Fatalf("CountRows on fresh warehouse: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty table, got %d rows", count)
	}
}

// -----------------------------------------------------------------------------

func TestReplaceDailyAnalysisCountMatchesInput(t *testing.T) {
	w := testWarehouse(t)

	rows := testRows("2024-01-02", "2024-01-03", "2024-01-04")
	if err := w.ReplaceDailyAnalysis(rows); err != nil {
		t.Fatalf("ReplaceDailyAnalysis: %v", err)
	}

	count, err := w.CountRows()
	if err != nil {
		t.Fatalf("CountRows: %v", err)
	}
	if count != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), count)
	}
}

// -----------------------------------------------------------------------------

func TestReplaceDailyAnalysisIsWholeTableReplace(t *testing.T) {
	w := testWarehouse(t)

	if err := w.ReplaceDailyAnalysis(testRows("2024-01-02", "2024-01-03")); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	second := testRows("2024-02-01")
	if err := w.ReplaceDailyAnalysis(second); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	got, err := w.SelectAll()
	if err != nil {
		t.Fatalf("SelectAll: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected prior rows dropped, got %d rows", len(got))
	}
	if !got[0].Date.Equal(second[0].Date) {
		t.Fatalf("expected only %v, got %v", second[0].Date, got[0].Date)
	}
}

// -----------------------------------------------------------------------------

func TestReplaceDailyAnalysisIdempotent(t *testing.T) {
	w := testWarehouse(t)
	rows := testRows("2024-01-02", "2024-01-03")

	if err := w.ReplaceDailyAnalysis(rows); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := w.ReplaceDailyAnalysis(rows); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	got, err := w.SelectAll()
	if err != nil {
		t.Fatalf("SelectAll: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("expected %d rows after identical replace, got %d", len(rows), len(got))
	}
	for i := range rows {
		if got[i] != rows[i] {
			t.Fatalf("row %d: expected %+v, got %+v", i, rows[i], got[i])
		}
	}
}

// -----------------------------------------------------------------------------

func TestSelectAllOrdersAscending(t *testing.T) {
	w := testWarehouse(t)

	// Inserted out of order.
	rows := []models.DailyAnalysisRecord{
		testRows("2024-01-04")[0],
		testRows("2024-01-02")[0],
		testRows("2024-01-03")[0],
	}
	if err := w.ReplaceDailyAnalysis(rows); err != nil {
		t.Fatalf("ReplaceDailyAnalysis: %v", err)
	}

	got, err := w.SelectAll()
	if err != nil {
		t.Fatalf("SelectAll: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].Date.Before(got[i].Date) {
			t.Fatalf("rows not ascending: %v before %v", got[i-1].Date, got[i].Date)
		}
	}
}

// -----------------------------------------------------------------------------

func TestRecentSummaryReturnsNewestFirst(t *testing.T) {
	w := testWarehouse(t)

	if err := w.ReplaceDailyAnalysis(testRows("2024-01-02", "2024-01-03", "2024-01-04")); err != nil {
		t.Fatalf("ReplaceDailyAnalysis: %v", err)
	}

	got, err := w.RecentSummary(2)
	if err != nil {
		t.Fatalf("RecentSummary: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Date.Format(models.DateLayout) != "2024-01-04" {
		t.Fatalf("expected newest row first, got %v", got[0].Date)
	}
}

// -----------------------------------------------------------------------------

func TestReadOnlyWarehouseSeesCommittedRows(t *testing.T) {
	w := testWarehouse(t)

	rows := testRows("2024-01-02", "2024-01-03")
	if err := w.ReplaceDailyAnalysis(rows); err != nil {
		t.Fatalf("ReplaceDailyAnalysis: %v", err)
	}

	ro, err := NewReadOnlyWarehouse(w.Config, logger.NewLogger("TestRO"))
	if err != nil {
		t.Fatalf("NewReadOnlyWarehouse: %v", err)
	}
	defer ro.Close()

	count, err := ro.CountRows()
	if err != nil {
		t.Fatalf("CountRows over read-only connection: %v", err)
	}
	if count != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), count)
	}
}

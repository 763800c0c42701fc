package storage

import (
	"database/sql"
	"fmt"
	"time"

	"aapl-elt/src/helpers"
	"aapl-elt/src/logger"
	"aapl-elt/src/models"

	_ "modernc.org/sqlite"
)

// AnalysisTable is the single warehouse relation, replaced wholesale per run.
const AnalysisTable = "aapl_analysis"

// Read-only connects retry while a replace transaction holds the file.
const (
	readConnectAttempts = 5
	readConnectDelay    = 500 * time.Millisecond
)

// -----------------------------------------------------------------------------

type SQLiteWarehouse struct {
	Config   *models.MConfig
	DB       *sql.DB
	Logger   *logger.Logger
	readOnly bool
}

// -----------------------------------------------------------------------------

func NewSQLiteWarehouse(cfg *models.MConfig, log *logger.Logger) (*SQLiteWarehouse, error) {
	return &SQLiteWarehouse{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

// NewReadOnlyWarehouse opens the warehouse for querying only. The store may
// be briefly busy while the loader commits, so connecting retries with a
// fixed delay.
func NewReadOnlyWarehouse(cfg *models.MConfig, log *logger.Logger) (*SQLiteWarehouse, error) {
	w := &SQLiteWarehouse{
		Config:   cfg,
		Logger:   log,
		readOnly: true,
	}

	err := helpers.RetryFixedDelay("warehouse read connect", readConnectAttempts, readConnectDelay, log, func() error {
		return w.open()
	})
	if err != nil {
		return nil, &helpers.WarehouseError{PipelineError: helpers.PipelineError{Message: "read-only connect failed", Cause: err}}
	}

	return w, nil
}

// -----------------------------------------------------------------------------

func (w *SQLiteWarehouse) open() error {
	dsn := w.Config.Warehouse.DBPath
	if w.readOnly {
		dsn = fmt.Sprintf("file:%s?mode=ro", dsn)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}

	w.DB = db
	return nil
}

// -----------------------------------------------------------------------------

func (w *SQLiteWarehouse) Initialize() error {
	if err := w.open(); err != nil {
		return err
	}

	// PRAGMA optimizations
	if _, err := w.DB.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		w.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := w.DB.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		w.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	// Keep an empty table around so readers never see a missing relation
	// before the first successful run.
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			date TEXT PRIMARY KEY,
			close_price REAL,
			volume REAL,
			daily_sentiment REAL
		);
	`, AnalysisTable)
	if _, err := w.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create %s: %w", AnalysisTable, err)
	}

	return nil
}

// -----------------------------------------------------------------------------

// ReplaceDailyAnalysis swaps the analysis table for rows inside a single
// transaction. SQLite DDL is transactional, so concurrent read-only
// connections see the prior table until the commit.
func (w *SQLiteWarehouse) ReplaceDailyAnalysis(rows []models.DailyAnalysisRecord) error {
	tx, err := w.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", AnalysisTable)); err != nil {
		return fmt.Errorf("failed to drop %s: %w", AnalysisTable, err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE %s (
			date TEXT PRIMARY KEY,
			close_price REAL,
			volume REAL,
			daily_sentiment REAL
		);
	`, AnalysisTable)
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create %s: %w", AnalysisTable, err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(`
		INSERT INTO %s (date, close_price, volume, daily_sentiment)
		VALUES (?, ?, ?, ?)
	`, AnalysisTable))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.Exec(r.Date.Format(models.DateLayout), r.ClosePrice, r.Volume, r.DailySentiment)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (w *SQLiteWarehouse) CountRows() (int, error) {
	var count int
	err := w.DB.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", AnalysisTable)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s rows: %w", AnalysisTable, err)
	}
	return count, nil
}

// -----------------------------------------------------------------------------

func (w *SQLiteWarehouse) SelectAll() ([]models.DailyAnalysisRecord, error) {
	query := fmt.Sprintf(`
		SELECT date, close_price, volume, daily_sentiment
		FROM %s
		ORDER BY date ASC
	`, AnalysisTable)

	return w.queryRecords(query)
}

// -----------------------------------------------------------------------------

func (w *SQLiteWarehouse) RecentSummary(days int) ([]models.DailyAnalysisRecord, error) {
	query := fmt.Sprintf(`
		SELECT date, close_price, volume, daily_sentiment
		FROM %s
		ORDER BY date DESC
		LIMIT %d
	`, AnalysisTable, days)

	return w.queryRecords(query)
}

// -----------------------------------------------------------------------------

func (w *SQLiteWarehouse) queryRecords(query string) ([]models.DailyAnalysisRecord, error) {
	rows, err := w.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("warehouse query failed: %w", err)
	}
	defer rows.Close()

	var records []models.DailyAnalysisRecord
	for rows.Next() {
		var dateStr string
		var rec models.DailyAnalysisRecord
		if err := rows.Scan(&dateStr, &rec.ClosePrice, &rec.Volume, &rec.DailySentiment); err != nil {
			return nil, err
		}
		rec.Date, err = time.Parse(models.DateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("malformed date '%s' in warehouse: %w", dateStr, err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// -----------------------------------------------------------------------------

func (w *SQLiteWarehouse) Close() error {
	if w.DB != nil {
		return w.DB.Close()
	}
	return nil
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aapl-elt/src/models"
)

// -----------------------------------------------------------------------------
// In-memory doubles for the external capabilities.
// -----------------------------------------------------------------------------

var errObjectNotFound = errors.New("object not found")

type fakeStore struct {
	buckets map[string]bool
	objects map[string][]byte
	getErr  map[string]error
	putErr  map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		buckets: make(map[string]bool),
		objects: make(map[string][]byte),
		getErr:  make(map[string]error),
		putErr:  make(map[string]error),
	}
}

func objKey(bucket, key string) string {
	return bucket + "/" + key
}

func (f *fakeStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return f.buckets[bucket], nil
}

func (f *fakeStore) MakeBucket(ctx context.Context, bucket string) error {
	f.buckets[bucket] = true
	return nil
}

func (f *fakeStore) PutObject(ctx context.Context, bucket, key string, payload []byte, contentType string) error {
	if err := f.putErr[objKey(bucket, key)]; err != nil {
		return err
	}
	f.objects[objKey(bucket, key)] = payload
	return nil
}

func (f *fakeStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := f.getErr[objKey(bucket, key)]; err != nil {
		return nil, err
	}
	payload, ok := f.objects[objKey(bucket, key)]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", bucket, key, errObjectNotFound)
	}
	return payload, nil
}

func (f *fakeStore) IsNotFound(err error) bool {
	return errors.Is(err, errObjectNotFound)
}

// -----------------------------------------------------------------------------

type fakeSource struct {
	records []models.RawStockRecord
	err     error
	calls   int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchDailyHistory(ctx context.Context, symbol string, since time.Time) ([]models.RawStockRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

// -----------------------------------------------------------------------------

// fixedScorer looks up scores from a table; unknown headlines are neutral.
type fixedScorer struct {
	scores map[string]float64
}

func (f *fixedScorer) Score(headline string) float64 {
	return f.scores[headline]
}

// -----------------------------------------------------------------------------

// memWarehouse implements interfaces.IWarehouse in memory.
type memWarehouse struct {
	rows       []models.DailyAnalysisRecord
	replaceErr error
	countSkew  int // offsets CountRows to provoke the loader's sanity check
}

func (m *memWarehouse) Initialize() error { return nil }

func (m *memWarehouse) ReplaceDailyAnalysis(rows []models.DailyAnalysisRecord) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.rows = append([]models.DailyAnalysisRecord(nil), rows...)
	return nil
}

func (m *memWarehouse) CountRows() (int, error) {
	return len(m.rows) + m.countSkew, nil
}

func (m *memWarehouse) SelectAll() ([]models.DailyAnalysisRecord, error) {
	return append([]models.DailyAnalysisRecord(nil), m.rows...), nil
}

func (m *memWarehouse) RecentSummary(days int) ([]models.DailyAnalysisRecord, error) {
	if days > len(m.rows) {
		days = len(m.rows)
	}
	out := make([]models.DailyAnalysisRecord, 0, days)
	for i := len(m.rows) - 1; i >= len(m.rows)-days; i-- {
		out = append(out, m.rows[i])
	}
	return out, nil
}

func (m *memWarehouse) Close() error { return nil }

// -----------------------------------------------------------------------------
// Shared test fixtures.
// -----------------------------------------------------------------------------

func testConfig() *models.MConfig {
	return &models.MConfig{
		Name:     "test",
		Host:     "127.0.0.1",
		Port:     5000,
		LogLevel: "INFO",
		ObjectStore: models.MObjectStoreConfig{
			Endpoint:        "localhost:9000",
			RawBucket:       "raw-data",
			ProcessedBucket: "processed-data",
		},
		Warehouse: models.MWarehouseConfig{DBPath: "test.db"},
		Network:   models.MNetworkConfig{RequestTimeout: 5},
		Pipeline: models.MPipelineConfig{
			Symbol:       "AAPL",
			StartDate:    "2020-01-01",
			NewsFilePath: "does-not-exist.csv",
		},
	}
}

func day(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

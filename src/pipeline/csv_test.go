package pipeline

import (
	"strings"
	"testing"

	"aapl-elt/src/models"
)

func TestStockCSVRoundTrip(t *testing.T) {
	records := []models.RawStockRecord{
		{Date: day("2024-01-02"), ClosePrice: 150.25, Volume: 1000},
		{Date: day("2024-01-03"), ClosePrice: 152.0, Volume: 1200},
	}

	payload, err := EncodeStockCSV(records)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeStockCSV(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(decoded) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(decoded))
	}
	for i, r := range records {
		if decoded[i] != r {
			t.Fatalf("record %d: expected %+v, got %+v", i, r, decoded[i])
		}
	}
}

func TestDecodeStockCSVRejectsBadFieldCount(t *testing.T) {
	payload := []byte("date,close,volume\n2024-01-02,150.0\n")
	if _, err := DecodeStockCSV(payload); err == nil {
		t.Fatalf("expected error for short row")
	}
}

func TestDecodeStockCSVRejectsBadNumbers(t *testing.T) {
	cases := []string{
		"date,close,volume\n2024-01-02,abc,1000\n",
		"date,close,volume\n2024-01-02,150.0,xyz\n",
		"date,close,volume\nnot-a-date,150.0,1000\n",
	}
	for _, payload := range cases {
		if _, err := DecodeStockCSV([]byte(payload)); err == nil {
			t.Fatalf("expected error for payload %q", payload)
		}
	}
}

func TestDecodeCSVRejectsWrongHeader(t *testing.T) {
	cases := []struct {
		name    string
		decode  func([]byte) error
		payload string
	}{
		{
			"reordered news columns",
			func(p []byte) error { _, err := DecodeNewsCSV(p); return err },
			"headline,date\nApple beats earnings,2024-01-02\n",
		},
		{
			"renamed stock column",
			func(p []byte) error { _, err := DecodeStockCSV(p); return err },
			"date,price,volume\n2024-01-02,150.0,1000\n",
		},
		{
			"reordered sentiment columns",
			func(p []byte) error { _, err := DecodeSentimentCSV(p); return err },
			"date,sentiment_score,headline\n2024-01-02,0.5,Apple beats earnings\n",
		},
	}

	for _, tc := range cases {
		err := tc.decode([]byte(tc.payload))
		if err == nil {
			t.Fatalf("%s: expected header mismatch error", tc.name)
		}
		if !strings.Contains(err.Error(), "header") {
			t.Fatalf("%s: error %q does not name the header", tc.name, err)
		}
	}
}

func TestDecodeStockCSVRejectsEmptyPayload(t *testing.T) {
	if _, err := DecodeStockCSV(nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestDecodeNewsCSVTruncatesTimestampedDates(t *testing.T) {
	payload := []byte("date,headline\n2024-01-02 16:00:00,Apple beats earnings\n")
	records, err := DecodeNewsCSV(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if !records[0].Date.Equal(day("2024-01-02")) {
		t.Fatalf("expected date truncated to 2024-01-02, got %v", records[0].Date)
	}
}

func TestDecodeNewsCSVPreservesCommasInHeadlines(t *testing.T) {
	payload := []byte("date,headline\n2024-01-02,\"Apple, again, beats earnings\"\n")
	records, err := DecodeNewsCSV(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if records[0].Headline != "Apple, again, beats earnings" {
		t.Fatalf("headline mangled: %q", records[0].Headline)
	}
}

func TestSentimentCSVRoundTrip(t *testing.T) {
	records := []models.SentimentRecord{
		{Date: day("2024-01-02"), Headline: "Apple beats earnings", SentimentScore: 0.5},
		{Date: day("2024-01-02"), Headline: "iPhone sales slump", SentimentScore: -0.3},
	}

	payload, err := EncodeSentimentCSV(records)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(string(payload), "date,headline,sentiment_score\n") {
		t.Fatalf("unexpected header: %q", strings.SplitN(string(payload), "\n", 2)[0])
	}

	decoded, err := DecodeSentimentCSV(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i, r := range records {
		if decoded[i] != r {
			t.Fatalf("record %d: expected %+v, got %+v", i, r, decoded[i])
		}
	}
}

func TestDecodeSentimentCSVRejectsBadScore(t *testing.T) {
	payload := []byte("date,headline,sentiment_score\n2024-01-02,Apple beats earnings,great\n")
	if _, err := DecodeSentimentCSV(payload); err == nil {
		t.Fatalf("expected error for non-numeric score")
	}
}

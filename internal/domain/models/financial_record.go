package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format for calendar dates (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// FinancialRecord represents one daily price row for a symbol.
//
// Records are produced by the ingestion path and are unique by (Symbol, Date).
// Date is always a UTC midnight value; prices are fixed-point decimals.
type FinancialRecord struct {
	Symbol     string
	Date       time.Time
	OpenPrice  decimal.Decimal
	ClosePrice decimal.Decimal
	Volume     int64
}

// RecordFilter narrows a storage query. Empty Symbol and nil dates mean
// "no constraint" on that column.
type RecordFilter struct {
	Symbol    string
	StartDate *time.Time
	EndDate   *time.Time
}

// SyncResult reports what the ingestion path did for one symbol.
type SyncResult struct {
	Symbol  string
	Rows    int
	Skipped bool
}

// TruncateToDate drops the clock part of t and returns the UTC midnight of its date.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

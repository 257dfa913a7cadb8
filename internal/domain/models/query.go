package models

import (
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultLimit = 5
	DefaultPage  = 1
)

// QueryRequest is a validated listing request.
//
// Fields:
//   - Symbol: upper-cased ticker, empty means every symbol.
//   - StartDate / EndDate: optional inclusive bounds (UTC midnight).
//   - Limit / Page: requested values; they may still be out of range, the
//     pagination step decides the effective ones.
type QueryRequest struct {
	Symbol    string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Page      int
}

// Encode serializes the request back into query parameters.
// Parsing the result again yields an identical request.
func (r QueryRequest) Encode() url.Values {
	v := url.Values{}
	if r.Symbol != "" {
		v.Set("symbol", r.Symbol)
	}
	if r.StartDate != nil {
		v.Set("start_date", r.StartDate.Format(DateLayout))
	}
	if r.EndDate != nil {
		v.Set("end_date", r.EndDate.Format(DateLayout))
	}
	v.Set("limit", strconv.Itoa(r.Limit))
	v.Set("page", strconv.Itoa(r.Page))
	return v
}

// Filter returns the storage filter matching the request.
func (r QueryRequest) Filter() RecordFilter {
	return RecordFilter{Symbol: r.Symbol, StartDate: r.StartDate, EndDate: r.EndDate}
}

// StatisticsRequest is a validated statistics request; every field is required.
type StatisticsRequest struct {
	Symbol    string
	StartDate time.Time
	EndDate   time.Time
}

func (r StatisticsRequest) Filter() RecordFilter {
	start, end := r.StartDate, r.EndDate
	return RecordFilter{Symbol: r.Symbol, StartDate: &start, EndDate: &end}
}

// Pagination describes the effective page of a listing.
type Pagination struct {
	Count int `json:"count" example:"42"`
	Limit int `json:"limit" example:"5"`
	Page  int `json:"page" example:"1"`
	Pages int `json:"pages" example:"9"`
}

// Offset is the index of the first row of the page.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// RecordPage is one page of listing results plus the warnings raised while paginating.
type RecordPage struct {
	Records    []FinancialRecord
	Pagination Pagination
	Warnings   []WarningCode
}

// Totals is the pre-aggregated input of the statistics computation.
type Totals struct {
	Count     int64
	SumOpen   decimal.Decimal
	SumClose  decimal.Decimal
	SumVolume decimal.Decimal
}

// Add accumulates one record.
func (t *Totals) Add(rec FinancialRecord) {
	t.Count++
	t.SumOpen = t.SumOpen.Add(rec.OpenPrice)
	t.SumClose = t.SumClose.Add(rec.ClosePrice)
	t.SumVolume = t.SumVolume.Add(decimal.NewFromInt(rec.Volume))
}

// Statistics holds the averages for a symbol over a closed date range.
type Statistics struct {
	Symbol            string
	StartDate         time.Time
	EndDate           time.Time
	AverageOpenPrice  decimal.Decimal
	AverageClosePrice decimal.Decimal
	AverageVolume     int64
}

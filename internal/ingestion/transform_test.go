package ingestion

import (
	"strings"
	"testing"
	"time"
)

func TestToRecords_FiltersAndSorts(t *testing.T) {
	series := DailySeries{
		"2023-05-05": {"1. open": "123.11", "4. close": "123.65", "5. volume": "4565812"},
		"2023-05-03": {"1. open": "125.00", "4. close": "124.10", "5. volume": "3000000"},
		"2023-05-04": {"1. open": "124.00", "4. close": "122.57", "5. volume": "4468237"},
		"2023-04-28": {"1. open": "bad", "4. close": "bad", "5. volume": "bad"},
	}

	since := time.Date(2023, 5, 3, 18, 0, 0, 0, time.UTC)
	recs, err := ToRecords(" ibm ", series, since)
	if err != nil {
		t.Fatalf("ToRecords: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("want 3 records got %d", len(recs))
	}
	want := []string{"2023-05-03", "2023-05-04", "2023-05-05"}
	for i, r := range recs {
		if r.Date.Format("2006-01-02") != want[i] {
			t.Fatalf("record %d date=%s want %s", i, r.Date.Format("2006-01-02"), want[i])
		}
		if r.Symbol != "IBM" {
			t.Fatalf("symbol=%q want IBM", r.Symbol)
		}
	}
	if recs[1].ClosePrice.String() != "122.57" || recs[1].Volume != 4468237 {
		t.Fatalf("unexpected values %+v", recs[1])
	}
}

func TestToRecords_AdjustedVolume(t *testing.T) {
	series := DailySeries{
		"2023-05-04": {"1. open": "1", "4. close": "2", "5. adjusted close": "2", "6. volume": "42"},
	}
	recs, err := ToRecords("IBM", series, time.Time{})
	if err != nil {
		t.Fatalf("ToRecords: %v", err)
	}
	if recs[0].Volume != 42 {
		t.Fatalf("volume=%d want 42", recs[0].Volume)
	}
}

func TestToRecords_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		series DailySeries
		want   string
	}{
		{name: "bad date", series: DailySeries{"05/04/2023": {}}, want: "invalid date"},
		{name: "missing open", series: DailySeries{"2023-05-04": {"4. close": "1", "5. volume": "1"}}, want: `missing "1. open"`},
		{name: "malformed close", series: DailySeries{"2023-05-04": {"1. open": "1", "4. close": "x", "5. volume": "1"}}, want: `invalid "4. close"`},
		{name: "negative price", series: DailySeries{"2023-05-04": {"1. open": "-1", "4. close": "1", "5. volume": "1"}}, want: "negative"},
		{name: "missing volume", series: DailySeries{"2023-05-04": {"1. open": "1", "4. close": "1"}}, want: "missing volume"},
		{name: "fractional volume", series: DailySeries{"2023-05-04": {"1. open": "1", "4. close": "1", "5. volume": "1.5"}}, want: "invalid volume"},
		{name: "negative volume", series: DailySeries{"2023-05-04": {"1. open": "1", "4. close": "1", "5. volume": "-3"}}, want: "negative volume"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ToRecords("IBM", tc.series, time.Time{})
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestToRecords_EmptySeries(t *testing.T) {
	recs, err := ToRecords("IBM", nil, time.Now())
	if err != nil || len(recs) != 0 {
		t.Fatalf("expected no records and no error, got %v, %v", recs, err)
	}
}

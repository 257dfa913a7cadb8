package ingestion

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/finpulse/internal/domain/models"
)

const (
	fieldOpen           = "1. open"
	fieldClose          = "4. close"
	fieldVolume         = "5. volume"
	fieldAdjustedVolume = "6. volume" // TIME_SERIES_DAILY_ADJUSTED
)

// ToRecords converts a provider series into records for symbol, keeping only
// dates on or after since (compared by calendar date). The result is sorted
// ascending by date.
//
// It is strict: a malformed date, a missing or non-numeric field, or a
// negative value fails the whole symbol.
func ToRecords(symbol string, series DailySeries, since time.Time) ([]models.FinancialRecord, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	since = models.TruncateToDate(since)

	out := make([]models.FinancialRecord, 0, len(series))
	for day, fields := range series {
		d, err := time.Parse(models.DateLayout, strings.TrimSpace(day))
		if err != nil {
			return nil, fmt.Errorf("%s: invalid date %q: %w", symbol, day, err)
		}
		if d.Before(since) {
			continue
		}

		rec, err := fieldsToRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", symbol, day, err)
		}
		rec.Symbol = symbol
		rec.Date = d
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func fieldsToRecord(fields map[string]string) (models.FinancialRecord, error) {
	var r models.FinancialRecord

	open, err := priceField(fields, fieldOpen)
	if err != nil {
		return r, err
	}
	closePrice, err := priceField(fields, fieldClose)
	if err != nil {
		return r, err
	}

	rawVol, ok := fields[fieldAdjustedVolume]
	if !ok {
		rawVol, ok = fields[fieldVolume]
	}
	if !ok {
		return r, fmt.Errorf("missing volume")
	}
	vol, err := strconv.ParseInt(strings.TrimSpace(rawVol), 10, 64)
	if err != nil {
		return r, fmt.Errorf("invalid volume: %v", err)
	}
	if vol < 0 {
		return r, fmt.Errorf("negative volume %d", vol)
	}

	r.OpenPrice = open
	r.ClosePrice = closePrice
	r.Volume = vol
	return r, nil
}

func priceField(fields map[string]string, key string) (decimal.Decimal, error) {
	s, ok := fields[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("missing %q", key)
	}
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %q: %v", key, err)
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative %q %s", key, v)
	}
	return v, nil
}

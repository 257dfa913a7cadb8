package query

import (
	"github.com/shopspring/decimal"

	"github.com/guttosm/finpulse/internal/apperrors"
	"github.com/guttosm/finpulse/internal/domain/models"
)

const pricePlaces = 2

// Averages are the rounded means of a record set.
type Averages struct {
	OpenPrice  decimal.Decimal
	ClosePrice decimal.Decimal
	Volume     int64
}

// TotalsOf accumulates records into Totals.
func TotalsOf(records []models.FinancialRecord) models.Totals {
	var t models.Totals
	for _, rec := range records {
		t.Add(rec)
	}
	return t
}

// Average turns totals into rounded means: prices to 2 decimal places,
// volume to the nearest integer. Ties round half to even, so 0.125 becomes
// 0.12 and a mean volume of 2.5 becomes 2.
//
// An empty set yields apperrors.ErrDataNotFound; nothing is divided by zero.
func Average(t models.Totals) (Averages, error) {
	if t.Count <= 0 {
		return Averages{}, apperrors.ErrDataNotFound
	}
	n := decimal.NewFromInt(t.Count)
	return Averages{
		OpenPrice:  t.SumOpen.Div(n).RoundBank(pricePlaces),
		ClosePrice: t.SumClose.Div(n).RoundBank(pricePlaces),
		Volume:     t.SumVolume.Div(n).RoundBank(0).IntPart(),
	}, nil
}

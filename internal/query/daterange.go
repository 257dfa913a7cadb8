package query

import (
	"time"

	"github.com/guttosm/finpulse/internal/domain/models"
)

// NormalizeRange orders a date range.
//
// A reversed range is swapped and reported with WarnSwapStartEndDate instead
// of being rejected. Missing bounds are left missing: an open range stays open.
func NormalizeRange(start, end *time.Time) (*time.Time, *time.Time, []models.WarningCode) {
	if start == nil || end == nil {
		return start, end, nil
	}
	if start.After(*end) {
		return end, start, []models.WarningCode{models.WarnSwapStartEndDate}
	}
	return start, end, nil
}

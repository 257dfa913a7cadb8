package ingestion

import (
	"strings"
	"time"

	"github.com/scmhub/calendar"

	"github.com/guttosm/finpulse/internal/logger"
)

// TradingCalendar answers which days the market trades.
//
// It is backed by scmhub/calendar for the configured MIC. When the MIC is
// unknown it falls back to weekdays minus the fixed US market holidays and
// Good Friday.
type TradingCalendar struct {
	cal *calendar.Calendar
	loc *time.Location
}

// NewTradingCalendar loads the calendar for mic (ISO 10383, e.g. "xnys").
func NewTradingCalendar(mic string) *TradingCalendar {
	mic = strings.ToLower(strings.TrimSpace(mic))
	if mic == "" {
		mic = "xnys"
	}
	if cal := calendar.GetCalendar(mic); cal != nil {
		return &TradingCalendar{cal: cal, loc: cal.Loc}
	}

	logger.L().Warn().Str("mic", mic).Msg("unknown market calendar, using weekday fallback")
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return &TradingCalendar{loc: loc}
}

// Location is the market's time zone.
func (tc *TradingCalendar) Location() *time.Location { return tc.loc }

// IsTradingDay reports whether the market trades on the calendar date of d,
// read in the market's time zone.
func (tc *TradingCalendar) IsTradingDay(d time.Time) bool {
	if tc.loc != nil {
		d = d.In(tc.loc)
	}
	if tc.cal != nil {
		return tc.cal.IsBusinessDay(d)
	}
	return isFallbackTradingDay(d)
}

// LastNTradingDays returns the last n trading days up to and including
// from's date (most recent first), as UTC midnights.
func (tc *TradingCalendar) LastNTradingDays(n int, from time.Time) []time.Time {
	out := make([]time.Time, 0, n)
	if tc.loc != nil {
		from = from.In(tc.loc)
	}
	y, m, day := from.Date()
	d := time.Date(y, m, day, 12, 0, 0, 0, from.Location())

	for len(out) < n {
		if tc.IsTradingDay(d) {
			out = append(out, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC))
		}
		d = d.AddDate(0, 0, -1)
	}
	return out
}

// isFallbackTradingDay excludes weekends, New Year, Independence Day,
// Christmas and Good Friday.
func isFallbackTradingDay(d time.Time) bool {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}

	fixed := map[string]struct{}{
		"01-01": {}, // New Year
		"07-04": {}, // Independence Day
		"12-25": {}, // Christmas
	}
	if _, ok := fixed[d.Format("01-02")]; ok {
		return false
	}

	goodFriday := easterSunday(d.Year()).AddDate(0, 0, -2)
	return !(d.Month() == goodFriday.Month() && d.Day() == goodFriday.Day())
}

// easterSunday returns the date of Easter Sunday for a given year
// (Meeus/Jones/Butcher algorithm).
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

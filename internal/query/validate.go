package query

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/finpulse/internal/domain/models"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-]{1,15}$`)

// Param is a raw query parameter as received by the transport layer.
type Param struct {
	Value   string
	Present bool
}

// P builds a present parameter.
func P(v string) Param { return Param{Value: v, Present: true} }

// given reports whether the parameter carries a non-empty value.
func (p Param) given() bool { return p.Present && strings.TrimSpace(p.Value) != "" }

// RawParams are the unparsed inputs of both read operations.
type RawParams struct {
	StartDate Param
	EndDate   Param
	Symbol    Param
	Limit     Param
	Page      Param
}

// Options tunes validation.
//
// AllowedSymbols, when non-empty, restricts symbol to a known universe;
// otherwise any well-formed ticker is accepted and unknown ones simply match no rows.
type Options struct {
	AllowedSymbols []string
}

func (o Options) allows(symbol string) bool {
	if len(o.AllowedSymbols) == 0 {
		return true
	}
	for _, s := range o.AllowedSymbols {
		if strings.EqualFold(strings.TrimSpace(s), symbol) {
			return true
		}
	}
	return false
}

// ParseListParams validates listing parameters and normalizes the date range.
//
// Every check runs so that all problems are reported together, in the order
// start_date, end_date, symbol, limit, page. When any error is raised the
// returned request is the zero value and no warning is produced.
func ParseListParams(raw RawParams, opts Options) (models.QueryRequest, models.Info) {
	info := models.NewInfo()

	start, ok := parseOptionalDate(raw.StartDate)
	if !ok {
		info.AddError(models.ErrStartDateBadFormat)
	}
	end, ok := parseOptionalDate(raw.EndDate)
	if !ok {
		info.AddError(models.ErrEndDateBadFormat)
	}

	symbol := NormalizeSymbol(raw.Symbol.Value)
	if symbol != "" && !validSymbol(symbol, opts) {
		info.AddError(models.ErrInvalidSymbol)
	}

	limit, ok := parseOptionalInt(raw.Limit, models.DefaultLimit)
	if !ok {
		info.AddError(models.ErrInvalidLimit)
	}
	page, ok := parseOptionalInt(raw.Page, models.DefaultPage)
	if !ok {
		info.AddError(models.ErrInvalidPage)
	}

	if info.HasErrors() {
		return models.QueryRequest{}, info
	}

	start, end, warnings := NormalizeRange(start, end)
	info.AddWarning(warnings...)

	return models.QueryRequest{
		Symbol:    symbol,
		StartDate: start,
		EndDate:   end,
		Limit:     limit,
		Page:      page,
	}, info
}

// ParseStatisticsParams validates statistics parameters. start_date, end_date
// and symbol are all required; limit and page are ignored.
func ParseStatisticsParams(raw RawParams, opts Options) (models.StatisticsRequest, models.Info) {
	info := models.NewInfo()

	var start, end *time.Time
	if !raw.StartDate.given() {
		info.AddError(models.ErrMissingStartDate)
	} else if d, ok := parseOptionalDate(raw.StartDate); !ok {
		info.AddError(models.ErrStartDateBadFormat)
	} else {
		start = d
	}

	if !raw.EndDate.given() {
		info.AddError(models.ErrMissingEndDate)
	} else if d, ok := parseOptionalDate(raw.EndDate); !ok {
		info.AddError(models.ErrEndDateBadFormat)
	} else {
		end = d
	}

	symbol := NormalizeSymbol(raw.Symbol.Value)
	switch {
	case !raw.Symbol.given():
		info.AddError(models.ErrMissingSymbol)
	case !validSymbol(symbol, opts):
		info.AddError(models.ErrInvalidSymbol)
	}

	if info.HasErrors() {
		return models.StatisticsRequest{}, info
	}

	start, end, warnings := NormalizeRange(start, end)
	info.AddWarning(warnings...)

	return models.StatisticsRequest{Symbol: symbol, StartDate: *start, EndDate: *end}, info
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func validSymbol(symbol string, opts Options) bool {
	return symbolPattern.MatchString(symbol) && opts.allows(symbol)
}

// parseOptionalDate returns (nil, true) for an absent or empty value.
func parseOptionalDate(p Param) (*time.Time, bool) {
	if !p.given() {
		return nil, true
	}
	d, err := time.Parse(models.DateLayout, strings.TrimSpace(p.Value))
	if err != nil {
		return nil, false
	}
	return &d, true
}

// parseOptionalInt returns def for an absent or empty value. Any integer,
// including zero, negatives and values beyond the int range (clamped), is
// accepted here; bounds are a pagination concern.
func parseOptionalInt(p Param, def int) (int, bool) {
	if !p.given() {
		return def, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(p.Value))
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return n, true
}

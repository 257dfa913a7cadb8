package models

import (
	"fmt"
	"strings"
)

// WarningCode identifies a recoverable adjustment made while processing a request.
//
// The set is closed: values serialize to their names and unknown names are
// rejected when decoding.
type WarningCode uint8

const (
	// WarnSwapStartEndDate: start_date was after end_date and the two were swapped.
	WarnSwapStartEndDate WarningCode = iota
	// WarnTruncateLimit: limit was out of bounds and reset to the default.
	WarnTruncateLimit
	// WarnTruncatePage: page was out of bounds and reset to the default.
	WarnTruncatePage
)

var warningNames = [...]string{
	WarnSwapStartEndDate: "SWAP_START_END_DATE",
	WarnTruncateLimit:    "TRUNCATE_LIMIT",
	WarnTruncatePage:     "TRUNCATE_PAGE",
}

func (w WarningCode) String() string {
	if int(w) < len(warningNames) {
		return warningNames[w]
	}
	return fmt.Sprintf("WarningCode(%d)", uint8(w))
}

// MarshalText implements encoding.TextMarshaler.
func (w WarningCode) MarshalText() ([]byte, error) {
	if int(w) >= len(warningNames) {
		return nil, fmt.Errorf("unknown warning code %d", uint8(w))
	}
	return []byte(warningNames[w]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *WarningCode) UnmarshalText(b []byte) error {
	for i, name := range warningNames {
		if name == string(b) {
			*w = WarningCode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown warning code %q", string(b))
}

// ErrorCode identifies why a request was rejected or failed.
type ErrorCode uint8

const (
	ErrStartDateBadFormat ErrorCode = iota
	ErrEndDateBadFormat
	ErrInvalidLimit
	ErrInvalidPage
	ErrInvalidSymbol
	ErrMissingStartDate
	ErrMissingEndDate
	ErrMissingSymbol
	ErrNoDataFound
	ErrDatabaseError
)

var errorNames = [...]string{
	ErrStartDateBadFormat: "START_DATE_BAD_FORMAT",
	ErrEndDateBadFormat:   "END_DATE_BAD_FORMAT",
	ErrInvalidLimit:       "INVALID_LIMIT",
	ErrInvalidPage:        "INVALID_PAGE",
	ErrInvalidSymbol:      "INVALID_SYMBOL",
	ErrMissingStartDate:   "MISSING_START_DATE",
	ErrMissingEndDate:     "MISSING_END_DATE",
	ErrMissingSymbol:      "MISSING_SYMBOL",
	ErrNoDataFound:        "NO_DATA_FOUND",
	ErrDatabaseError:      "DATABASE_ERROR",
}

func (e ErrorCode) String() string {
	if int(e) < len(errorNames) {
		return errorNames[e]
	}
	return fmt.Sprintf("ErrorCode(%d)", uint8(e))
}

// MarshalText implements encoding.TextMarshaler.
func (e ErrorCode) MarshalText() ([]byte, error) {
	if int(e) >= len(errorNames) {
		return nil, fmt.Errorf("unknown error code %d", uint8(e))
	}
	return []byte(errorNames[e]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *ErrorCode) UnmarshalText(b []byte) error {
	for i, name := range errorNames {
		if name == string(b) {
			*e = ErrorCode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown error code %q", string(b))
}

// Info is the diagnostic envelope returned next to the data.
// Both lists keep the order in which the codes were raised.
type Info struct {
	Warning []WarningCode `json:"warning" swaggertype:"array,string" example:"TRUNCATE_LIMIT"`
	Error   []ErrorCode   `json:"error" swaggertype:"array,string" example:"INVALID_SYMBOL"`
}

// NewInfo returns an Info with empty (non-nil) lists so it encodes as [] rather than null.
func NewInfo() Info {
	return Info{Warning: []WarningCode{}, Error: []ErrorCode{}}
}

func (i *Info) AddWarning(codes ...WarningCode) { i.Warning = append(i.Warning, codes...) }

func (i *Info) AddError(codes ...ErrorCode) { i.Error = append(i.Error, codes...) }

// HasErrors reports whether any error code was raised.
func (i Info) HasErrors() bool { return len(i.Error) > 0 }

// ErrorString joins the error codes with commas ("" when there are none).
func (i Info) ErrorString() string {
	names := make([]string, len(i.Error))
	for n, code := range i.Error {
		names[n] = code.String()
	}
	return strings.Join(names, ",")
}

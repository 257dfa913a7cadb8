package apperrors

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrDataNotFound indicates that a query legitimately produced no usable rows
	// where at least one is required (e.g. averages over an empty range).
	ErrDataNotFound = errors.New("data not found")

	// ErrDatabase is matched by every storage-layer failure.
	ErrDatabase = errors.New("database error")

	// ErrMissingAPIKey indicates the market data provider cannot be called without credentials.
	ErrMissingAPIKey = errors.New("missing provider api key")
)

// DatabaseError wraps a storage failure with the operation that produced it.
//
// Code carries the PostgreSQL SQLSTATE when the driver reported one
// (e.g. "23505" unique_violation), empty otherwise.
type DatabaseError struct {
	Op   string
	Code string
	Err  error
}

func (e *DatabaseError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (sqlstate %s): %v", ErrDatabase, e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrDatabase, e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDatabase) true for any DatabaseError.
func (e *DatabaseError) Is(target error) bool { return target == ErrDatabase }

// Database wraps err as a DatabaseError for op. A nil err stays nil and an
// error that already is a DatabaseError is returned unchanged.
func Database(op string, err error) error {
	if err == nil {
		return nil
	}
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		return err
	}
	out := &DatabaseError{Op: op, Err: err}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		out.Code = string(pqErr.Code)
	}
	return out
}

// ProviderError represents a failed call to the market data provider.
type ProviderError struct {
	StatusCode int
	Message    string
	Throttled  bool
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

// IsRetryable returns true if the call may succeed when repeated.
func (e *ProviderError) IsRetryable() bool {
	return e.Throttled || e.StatusCode >= 500 || e.StatusCode == 429
}

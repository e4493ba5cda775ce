package shiftdb

import (
	"errors"
	"fmt"
)

// ErrUnknownEntityType is returned when no descriptor exists for a value
// passed to the registry. This is a programmer error, never retryable.
var ErrUnknownEntityType = errors.New("unknown entity type")

// ErrUnsupportedQueryType is returned for a date-range discriminator the
// builders do not recognise.
var ErrUnsupportedQueryType = errors.New("unsupported query type")

// ErrEmptyDateRange is returned when a date-range query carries neither
// bound.
var ErrEmptyDateRange = errors.New("date query requires at least one bound")

// StorageError wraps any failure surfaced by the underlying store. It keeps
// the failing statement and parameters so a failed write can be diagnosed
// from the log line alone.
type StorageError struct {
	Query  string
	Params []any
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %v (query=%q params=%v)", e.Err, e.Query, e.Params)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NotFoundError reports that a read matched no rows or that a filter was too
// underspecified to build a query from.
type NotFoundError struct {
	Detail string
}

func (e *NotFoundError) Error() string {
	return e.Detail
}

func NewNotFound(format string, args ...any) *NotFoundError {
	return &NotFoundError{Detail: fmt.Sprintf(format, args...)}
}

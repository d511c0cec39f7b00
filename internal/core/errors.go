package core

import (
	"errors"
	"fmt"
)

var (
	// ErrDataFetch is the sentinel wrapped by every DataFetchError.
	ErrDataFetch = errors.New("data fetch failed")

	// ErrMalformedField is the sentinel wrapped by every MalformedFieldError.
	ErrMalformedField = errors.New("malformed numeric field")

	// ErrUnknownColumn is returned when a sort column is not one of the table columns.
	ErrUnknownColumn = errors.New("unknown column")
)

// DataFetchError reports that the raw record source was unreachable or answered
// with a non-success status. It is never retried.
type DataFetchError struct {
	Source string // e.g. "http", "postgres", "file"
	Status int    // HTTP status when the source is an HTTP endpoint, zero otherwise
	Err    error
}

func (e *DataFetchError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s source: status %d: %v", e.Source, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s source: HTTP error! status: %d", e.Source, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s source: %v", e.Source, e.Err)
	}
	return e.Source + " source: fetch failed"
}

// Unwrap lets errors.Is match both ErrDataFetch and the underlying cause.
func (e *DataFetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDataFetch}
	}
	return []error{ErrDataFetch, e.Err}
}

// MalformedFieldError reports a numeric field that could not be parsed.
// The value still normalizes to zero; the error only exists for callers that
// want to count or log bad data.
type MalformedFieldError struct {
	Field string
	Value string
}

func (e *MalformedFieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed numeric value %q", e.Value)
	}
	return fmt.Sprintf("malformed numeric field %s: %q", e.Field, e.Value)
}

func (e *MalformedFieldError) Unwrap() error { return ErrMalformedField }

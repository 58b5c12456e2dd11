package domain

import "fmt"

// FetchError is a fatal board ingestion failure. Payload holds the raw transport error body.
type FetchError struct {
	BoardID string
	Payload string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch data from board %s: %v", e.BoardID, e.Err)
	}
	return fmt.Sprintf("failed to fetch data from board %s: %s", e.BoardID, e.Payload)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// QueryError is a ledger store failure.
type QueryError struct {
	Table string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("ledger query on %s failed: %v", e.Table, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// ValidationError reports bad caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Warning is a non-fatal problem surfaced next to the metric it affects.
type Warning struct {
	Metric  string
	Message string
}

package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for catalog operations.
var (
	ErrEmptyQuery  = errors.New("catalog: empty query")
	ErrRateLimited = errors.New("catalog: rate limited by server")
	ErrServer      = errors.New("catalog: server error")
	ErrSuperseded  = errors.New("catalog: superseded by a newer search")
)

// UpstreamError reports a non-2xx response from the catalog.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("catalog: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("catalog: unexpected status %d: %s", e.Status, e.Body)
}

// Unwrap maps well-known statuses onto sentinel errors.
func (e *UpstreamError) Unwrap() error {
	switch {
	case e.Status == 429:
		return ErrRateLimited
	case e.Status >= 500:
		return ErrServer
	default:
		return nil
	}
}

// Error wraps an underlying error with operation context.
type Error struct {
	Op        string // Operation: "search"
	Query     string
	RequestID string
	Err       error
}

func (e *Error) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("catalog %s %q [%s]: %v", e.Op, e.Query, e.RequestID, e.Err)
	}
	return fmt.Sprintf("catalog %s %q: %v", e.Op, e.Query, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, query, requestID string, err error) error {
	return &Error{Op: op, Query: query, RequestID: requestID, Err: err}
}

package hn

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the upstream resolves an id or username
// to null. Callers match it with errors.Is.
var ErrNotFound = errors.New("not found")

// UpstreamError reports a failed call against the Hacker News API. Op
// names the operation ("item", "user", "list/topstories", ...), Status
// is the HTTP status when one was received, zero otherwise.
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

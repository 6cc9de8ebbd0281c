package higgsfield

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks HTTP-layer failures. They surface immediately and
	// are never retried.
	ErrTransport = errors.New("transport error")
	// ErrJobFailed marks an explicit failure or cancellation status reported
	// by the remote service.
	ErrJobFailed = errors.New("job failed")
	// ErrJobTimeout marks a poll loop that exceeded its wall-clock budget.
	ErrJobTimeout = errors.New("job timed out")
	// ErrExtraction marks a result payload whose shape matched no known
	// pattern.
	ErrExtraction = errors.New("result extraction failed")
)

// StatusError is a transport failure carrying the HTTP status and a truncated
// response body for diagnosis.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrTransport }

func statusError(code int, body []byte) error {
	return &StatusError{StatusCode: code, Body: truncate(string(body), maxErrorBody)}
}

const maxErrorBody = 500

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

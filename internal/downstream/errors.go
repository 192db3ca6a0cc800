// Package downstream classifies failures coming back from backend services
// so callers can decide what is worth retrying.
package downstream

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound marks lookups for entities the backend does not know about.
// It is a distinct outcome, not a sign of service unavailability.
var ErrNotFound = errors.New("not found")

// TransientError wraps failures that may succeed on a later attempt:
// timeouts, refused connections, 5xx-equivalent responses.
type TransientError struct {
	Service string
	Err     error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: transient failure: %v", e.Service, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Transient tags err as retryable against the named service.
func Transient(service string, err error) error {
	return &TransientError{Service: service, Err: err}
}

// StructuralError wraps failures that will not go away by retrying:
// malformed responses and business-rule rejections from the backend.
type StructuralError struct {
	Service string
	Err     error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: rejected: %v", e.Service, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// Structural tags err as non-retryable against the named service.
func Structural(service string, err error) error {
	return &StructuralError{Service: service, Err: err}
}

// IsRetryable reports whether a failed call should be attempted again.
// Only transient failures and call timeouts qualify; structural rejections
// and missing entities are surfaced immediately.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var transient *TransientError
	if errors.As(err, &transient) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}

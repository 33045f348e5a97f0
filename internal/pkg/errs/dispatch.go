package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the dispatch/synchronization failure taxonomy.
var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrTransient        = errors.New("transient failure")
	ErrPartialBroadcast = errors.New("partial broadcast failure")
)

// PermissionError indicates access to a resource was denied. It is terminal
// for the view that encountered it and must never be retried silently.
type PermissionError struct {
	Resource string
	Cause    error
}

// NewPermissionError creates a PermissionError without a cause.
func NewPermissionError(resource string) *PermissionError {
	return &PermissionError{Resource: resource}
}

// NewPermissionErrorWithCause creates a PermissionError wrapping an
// underlying cause.
func NewPermissionErrorWithCause(resource string, cause error) *PermissionError {
	return &PermissionError{Resource: resource, Cause: cause}
}

func (e *PermissionError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrPermissionDenied, e.Resource, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrPermissionDenied, e.Resource))
}

func (e *PermissionError) Unwrap() error {
	return ErrPermissionDenied
}

// TransientError indicates a recoverable failure of a feed or channel. The
// caller retries per its policy and keeps last-known state in the meantime;
// it is never surfaced to the user as a hard failure.
type TransientError struct {
	Op    string
	Cause error
}

// NewTransientError creates a TransientError wrapping an underlying cause.
func NewTransientError(op string, cause error) *TransientError {
	return &TransientError{Op: op, Cause: cause}
}

func (e *TransientError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrTransient, e.Op, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrTransient, e.Op))
}

func (e *TransientError) Unwrap() error {
	return ErrTransient
}

// PartialBroadcastError reports that some of a broadcast's per-target sends
// failed. It is logged by the dispatcher and never escalated to callers.
type PartialBroadcastError struct {
	Failed int
	Total  int
	Causes []error
}

// NewPartialBroadcastError creates a PartialBroadcastError from the per-target
// failures collected during a fan-out of total sends.
func NewPartialBroadcastError(total int, causes []error) *PartialBroadcastError {
	return &PartialBroadcastError{Failed: len(causes), Total: total, Causes: causes}
}

func (e *PartialBroadcastError) Error() string {
	return sanitize(fmt.Sprintf("%s: %d of %d notifications failed", ErrPartialBroadcast, e.Failed, e.Total))
}

func (e *PartialBroadcastError) Unwrap() error {
	return ErrPartialBroadcast
}

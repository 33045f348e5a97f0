package request

import (
	"fmt"

	"homeservice/internal/pkg/errs"
)

// Status represents the lifecycle state of a service request.
// It implements a state machine with defined transitions so requests follow
// the correct dispatch workflow.
//
// State transitions:
//
//	Pending ──> Accepted ──> InProgress ──> Completed
//	   │            │             │
//	   └────────────┴─────────────┴──> Cancelled
//
// Completed and Cancelled are terminal; no further transitions are allowed.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status: the request has been persisted and
	// broadcast, but no provider has accepted it yet.
	Pending

	// Accepted indicates a provider has taken the request.
	Accepted

	// InProgress indicates the provider has started work.
	InProgress

	// Completed indicates the work finished. Terminal.
	Completed

	// Cancelled indicates the customer or provider cancelled. Terminal.
	Cancelled
)

// getStatusStrings returns the wire representation for every Status value.
// The strings match the durable record schema exactly.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Accepted:   "accepted",
		InProgress: "in_progress",
		Completed:  "completed",
		Cancelled:  "cancelled",
	}
}

// getValidStatusStrings returns only valid Status values, to support
// validation of values arriving from persistence or the wire.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "pending",
		Accepted:   "accepted",
		InProgress: "in_progress",
		Completed:  "completed",
		Cancelled:  "cancelled",
	}
}

// StatusFromString parses a wire status string into a Status.
// Returns an error for unrecognized values.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, or "unknown" for invalid
// values. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status allows no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// RequiresProvider reports whether a request in this status must have a
// provider assigned. Exactly {Accepted, InProgress, Completed} carry a
// provider; Pending and Cancelled never do.
func (s Status) RequiresProvider() bool {
	return s == Accepted || s == InProgress || s == Completed
}

// ValidateCanHaveProvider validates the consistency between the request
// status and provider assignment: a provider id is present exactly when the
// status requires one.
func (s Status) ValidateCanHaveProvider(hasProvider bool) error {
	if hasProvider && !s.RequiresProvider() {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have a provider", s))
	}

	if !hasProvider && s.RequiresProvider() {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have no provider", s))
	}

	return nil
}

// Accept transitions the status to Accepted.
// Only Pending requests can be accepted.
func (s Status) Accept() (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to accept", s))
	}

	return Accepted, nil
}

// Start transitions the status to InProgress.
// Only Accepted requests can be started.
func (s Status) Start() (Status, error) {
	if s != Accepted {
		return 0, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to start", s))
	}

	return InProgress, nil
}

// Complete transitions the status to Completed.
// Accepted and InProgress requests can be completed; providers may close a
// job without reporting an explicit start.
func (s Status) Complete() (Status, error) {
	if s != Accepted && s != InProgress {
		return 0, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to complete", s))
	}

	return Completed, nil
}

// Cancel transitions the status to Cancelled.
// Any non-terminal status can be cancelled.
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if s.IsTerminal() {
		return 0, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to cancel", s))
	}

	return Cancelled, nil
}

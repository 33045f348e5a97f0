package jobcard

import (
	"fmt"

	"homeservice/internal/pkg/errs"
)

// Status represents the lifecycle state of a JobCard.
//
// A job card starts in Assigned when the provider is matched, moves through
// InProgress while the provider works, and ends in Completed or Cancelled.
// Its state is tracked independently of the linked service request and the
// two are reconciled by the status synchronizer.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// Assigned means the provider has been matched and the job is waiting
	// to start.
	Assigned

	// InProgress means the provider is actively working the job.
	InProgress

	// Completed means the job finished successfully. Terminal.
	Completed

	// Cancelled means the job was withdrawn before completion. Terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Assigned:   "assigned",
		InProgress: "in_progress",
		Completed:  "completed",
		Cancelled:  "cancelled",
	}
}

// StatusFromString parses a wire or persistence representation of a status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s {
			return status, nil
		}
	}

	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid job card status", s))
}

// Validate checks the Status holds a defined, non-Unknown value.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid job card status", s))
	}

	return nil
}

// String returns the wire representation of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}

	return "unknown"
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// Start transitions the status to InProgress. Only Assigned jobs can start.
func (s Status) Start() (Status, error) {
	if s != Assigned {
		return 0, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to start", s))
	}

	return InProgress, nil
}

// Complete transitions the status to Completed. Assigned and InProgress
// jobs can complete.
func (s Status) Complete() (Status, error) {
	if s != Assigned && s != InProgress {
		return 0, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to complete", s))
	}

	return Completed, nil
}

// Cancel transitions the status to Cancelled. Any non-terminal status can
// cancel.
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

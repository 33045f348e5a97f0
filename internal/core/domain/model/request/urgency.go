package request

import (
	"fmt"

	"homeservice/internal/pkg/errs"
)

// Urgency describes when the customer wants the service performed.
type Urgency int

const (
	// UrgencyUnknown represents an invalid or undefined urgency.
	UrgencyUnknown Urgency = iota

	// Immediate requests are dispatched for service as soon as possible.
	Immediate

	// Scheduled requests carry an explicit scheduled time.
	Scheduled
)

func getUrgencyStrings() map[Urgency]string {
	return map[Urgency]string{
		Immediate: "immediate",
		Scheduled: "scheduled",
	}
}

// UrgencyFromString parses a wire urgency string.
func UrgencyFromString(s string) (Urgency, error) {
	for urgency, str := range getUrgencyStrings() {
		if str == s {
			return urgency, nil
		}
	}
	return UrgencyUnknown, errs.NewValueIsInvalidErrorWithCause("urgency",
		fmt.Errorf("%q is not a valid urgency", s))
}

// Validate checks if the Urgency value is valid.
func (u Urgency) Validate() error {
	if _, ok := getUrgencyStrings()[u]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("urgency",
			fmt.Errorf("%d is not a valid urgency", u))
	}
	return nil
}

// String returns the wire name of the urgency. Implements fmt.Stringer.
func (u Urgency) String() string {
	if str, ok := getUrgencyStrings()[u]; ok {
		return str
	}
	return "unknown"
}

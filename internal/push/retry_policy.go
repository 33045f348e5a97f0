package push

import (
	"time"

	"homeservice/internal/pkg/errs"
	"homeservice/internal/pkg/guard"
)

const (
	// DefaultMaxAttempts bounds how many times a connection is attempted
	// before giving up.
	DefaultMaxAttempts = 10

	// DefaultRetryInterval is the pause between connection attempts.
	DefaultRetryInterval = time.Second
)

// RetryPolicy describes a bounded retry schedule: a fixed number of attempts
// with a fixed pause between them.
type RetryPolicy struct {
	guard guard.ConstructorGuard

	maxAttempts int
	interval    time.Duration
}

// NewRetryPolicy creates a retry policy. Attempts must be positive and the
// interval non-negative.
func NewRetryPolicy(maxAttempts int, interval time.Duration) (RetryPolicy, error) {
	if maxAttempts <= 0 {
		return RetryPolicy{}, errs.NewValueIsOutOfRangeError("maxAttempts", maxAttempts, 1, "unbounded")
	}
	if interval < 0 {
		return RetryPolicy{}, errs.NewValueIsInvalidError("interval")
	}

	return RetryPolicy{
		guard:       guard.NewConstructorGuard(),
		maxAttempts: maxAttempts,
		interval:    interval,
	}, nil
}

// DefaultRetryPolicy returns the standard connection retry schedule.
func DefaultRetryPolicy() RetryPolicy {
	policy, _ := NewRetryPolicy(DefaultMaxAttempts, DefaultRetryInterval)
	return policy
}

// Validate checks that the policy was created through its constructor.
func (p RetryPolicy) Validate() error {
	return p.guard.Validate(ErrRetryPolicyIsNotConstructed)
}

// MaxAttempts returns how many connection attempts are allowed.
func (p RetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}

// Interval returns the pause between attempts.
func (p RetryPolicy) Interval() time.Duration {
	return p.interval
}

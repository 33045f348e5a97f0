package commands

import (
	"errors"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/pkg/guard"
)

var ErrCancelRequestCommandIsNotConstructed = errors.New(
	"CancelRequestCommand must be created via NewCancelRequestCommand constructor",
)

// CancelRequestCommand represents an intent to cancel a service request
// before it completes. Cancellation may come from the customer or the
// provider; either way the request must still be in a non-terminal status.
type CancelRequestCommand struct { //nolint:recvcheck //using for validation
	requestID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCancelRequestCommand creates a command to cancel a service request.
func NewCancelRequestCommand(requestID kernel.UUID) (CancelRequestCommand, error) {
	cmd := CancelRequestCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setRequestID(requestID); err != nil {
		return CancelRequestCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelRequestCommand) Validate() error {
	return c.guard.Validate(ErrCancelRequestCommandIsNotConstructed)
}

// RequestID returns the identifier of the request to cancel.
func (c CancelRequestCommand) RequestID() kernel.UUID {
	return c.requestID
}

func (c *CancelRequestCommand) setRequestID(requestID kernel.UUID) error {
	if err := requestID.Validate(); err != nil {
		return err
	}

	c.requestID = requestID
	return nil
}

package commands

import (
	"errors"

	"homeservice/internal/pkg/guard"
)

// ErrRebroadcastPendingCommandIsNotConstructed is returned when a zero-value
// command bypassed its constructor.
var ErrRebroadcastPendingCommandIsNotConstructed = errors.New(
	"RebroadcastPendingCommand is not constructed, use NewRebroadcastPendingCommand")

// RebroadcastPendingCommand triggers a re-broadcast sweep over requests that
// are still pending. Carries no parameters; the handler works the whole
// pending set.
type RebroadcastPendingCommand struct {
	guard guard.ConstructorGuard
}

// NewRebroadcastPendingCommand creates a command for the pending sweep.
func NewRebroadcastPendingCommand() RebroadcastPendingCommand {
	return RebroadcastPendingCommand{guard: guard.NewConstructorGuard()}
}

// Validate checks that the command was created through its constructor.
func (c RebroadcastPendingCommand) Validate() error {
	return c.guard.Validate(ErrRebroadcastPendingCommandIsNotConstructed)
}

package gol

import (
	"errors"
	"fmt"
)

// User visible errors, reported by the control loop and never retried
var (
	ErrAlreadyRunning   = errors.New("the game has already started")
	ErrNoActiveGame     = errors.New("start the game firstly")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrMalformedSource  = errors.New("malformed source")
	ErrInvalidSize      = errors.New("field must have at least one row and one column")
)

// Internal failures of the coordination protocol
var (
	ErrProtocol   = errors.New("unexpected message")
	ErrLinkClosed = errors.New("link closed")
)

// PartitionError reports a broken ring invariant detected by a worker.
// It is fatal to the simulation.
type PartitionError struct {
	Worker int
	Reason string
}

func (err *PartitionError) Error() string {
	return fmt.Sprintf("partition error on worker %d: %s", err.Worker, err.Reason)
}

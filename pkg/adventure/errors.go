package adventure

import (
	"errors"
	"fmt"
)

// ErrInvalidState is matched by every error returned when an operation is
// not allowed in the current state of the adventure.
var ErrInvalidState = errors.New("invalid state")

// StateError explains why an operation was rejected.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string {
	return ErrInvalidState.Error() + ": " + e.Reason
}

func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}

func errUnresolvedConsequence() error {
	return &StateError{Reason: "unresolved consequence"}
}

func errNoConsequence() error {
	return &StateError{Reason: "no consequence"}
}

func errNoExit() error {
	return &StateError{Reason: "no exit"}
}

func errNoAction(index int) error {
	return &StateError{Reason: fmt.Sprintf("no action at position %d", index)}
}

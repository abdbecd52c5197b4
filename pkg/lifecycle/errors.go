package lifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrNilParticipant is returned when Register receives nil.
	ErrNilParticipant = errors.New("lifecycle: participant is nil")

	// ErrRegistryClosed is returned when Register is called after discovery ran.
	ErrRegistryClosed = errors.New("lifecycle: registry no longer accepts participants")

	// ErrNotStarted is returned when Stop is called before Start.
	ErrNotStarted = errors.New("lifecycle: registry has not been started")
)

// Phase identifies a lifecycle moment.
type Phase string

const (
	PhaseStart Phase = "start"
	PhaseStop  Phase = "stop"
)

// HookError reports a participant hook that failed and aborted its phase.
type HookError struct {
	Phase       Phase
	Participant string
	Priority    int
	Err         error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("lifecycle: %s hook of %s (priority %d) failed: %v", e.Phase, e.Participant, e.Priority, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// InstantiationError reports a scan candidate that could not become a participant.
// It is logged and the candidate is skipped.
type InstantiationError struct {
	Name   string
	Reason string
	Err    error
}

func (e *InstantiationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lifecycle: cannot instantiate %s: %s: %v", e.Name, e.Reason, e.Err)
	}
	return fmt.Sprintf("lifecycle: cannot instantiate %s: %s", e.Name, e.Reason)
}

func (e *InstantiationError) Unwrap() error {
	return e.Err
}

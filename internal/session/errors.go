package session

import (
	"errors"
	"fmt"
)

var (
	// ErrAnalysisInProgress is returned when an analysis is already running for the session.
	ErrAnalysisInProgress = errors.New("analysis already in progress")
	// ErrSessionChanged is returned when a slow operation finishes after the
	// session moved on, for example a chat reply arriving after a restart.
	ErrSessionChanged = errors.New("session changed while the request was running")
	// ErrSharingDisabled is returned when no shared result store is configured.
	ErrSharingDisabled = errors.New("sharing is not configured")
)

// StepError reports an operation attempted on the wrong screen.
type StepError struct {
	Op   string
	Step Step
}

func (e *StepError) Error() string {
	return fmt.Sprintf("cannot %s while on the %s step", e.Op, e.Step)
}

// UnknownCardError reports a card rank that is not part of the result.
type UnknownCardError struct {
	Rank int
}

func (e *UnknownCardError) Error() string {
	return fmt.Sprintf("no recommendation with rank %d", e.Rank)
}

package console

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when the shell is used before Initialize
	ErrNotInitialized = errors.New("shell is not initialized")
	// ErrAlreadyInitialized is returned by a second Initialize
	ErrAlreadyInitialized = errors.New("shell is already initialized")
	// ErrBusy is returned when commands are registered while a line is being dispatched
	ErrBusy = errors.New("shell is dispatching a command")

	// ErrEndOfInput ends the session when the input stream is exhausted
	ErrEndOfInput = errors.New("end of input")
	// ErrInterrupted ends the session when the operator cancels the input line
	ErrInterrupted = errors.New("interrupted by user")
	// ErrExit ends the session when the operator runs exit
	ErrExit = errors.New("user wants to exit")
)

// IsTermination reports whether err is one of the signals that end a session normally
func IsTermination(err error) bool {
	return errors.Is(err, ErrEndOfInput) || errors.Is(err, ErrInterrupted) || errors.Is(err, ErrExit)
}

// ConfigurationError reports an invalid command registration
type ConfigurationError struct {
	Command string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("invalid command registration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid command registration %q: %s", e.Command, e.Reason)
}

// FatalSessionError wraps an unexpected reader or handler failure that ended the session
type FatalSessionError struct {
	Line string // input line being dispatched, empty for reader failures
	Err  error
}

func (e *FatalSessionError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("session aborted: %v", e.Err)
	}
	return fmt.Sprintf("session aborted while running %q: %v", e.Line, e.Err)
}

func (e *FatalSessionError) Unwrap() error {
	return e.Err
}

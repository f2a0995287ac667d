package script

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRunning is returned by Run while a job is still running
	ErrAlreadyRunning = errors.New("a script is already running")
	// ErrNotRunning is returned by Stop when no job is running
	ErrNotRunning = errors.New("no script is running")
	// ErrKilled ends a script whose interpreter was killed
	ErrKilled = errors.New("script terminated")

	errBreak    = errors.New("break")
	errContinue = errors.New("continue")
)

// ScriptError is a parse or runtime failure with its source line and the
// chain of statements that led to it
type ScriptError struct {
	Message string
	Line    int
	Trace   string
	Err     error
}

func (e *ScriptError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

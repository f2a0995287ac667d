package utils

import (
	"fmt"
	"os"

	"github.com/jeeftor/automaton/internal/logging"
)

// ErrorExitCode represents different types of errors with their exit codes
type ErrorExitCode int

const (
	ExitCodeGeneral     ErrorExitCode = 1
	ExitCodeValidation  ErrorExitCode = 1
	ExitCodeNotFound    ErrorExitCode = 1
	ExitCodeDevice      ErrorExitCode = 2
	ExitCodeFileSystem  ErrorExitCode = 3
	ExitCodeScript      ErrorExitCode = 4
	ExitCodeTimeout     ErrorExitCode = 5
	// ExitCodeInterrupted matches the shell convention for SIGINT
	ExitCodeInterrupted ErrorExitCode = 130
)

// exit is swapped out in tests
var exit = os.Exit

// Exit terminates the process with code
func Exit(code ErrorExitCode) {
	exit(int(code))
}

// FatalError handles fatal errors with consistent logging and exit behavior
func FatalError(err error, context string) {
	logging.UserErrorf("%s: %v", context, err)
	exit(int(ExitCodeGeneral))
}

// FatalErrorWithCode handles fatal errors with specific exit codes
func FatalErrorWithCode(err error, context string, exitCode ErrorExitCode) {
	logging.UserErrorf("%s: %v", context, err)
	exit(int(exitCode))
}

// ValidationError handles argument validation errors with usage information
func ValidationError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	exit(int(ExitCodeValidation))
}

// DeviceError handles failures of the host input or screen backends
func DeviceError(operation string, err error) {
	logging.UserErrorf("Device error during %s: %v", operation, err)
	exit(int(ExitCodeDevice))
}

// FileSystemError handles file operation errors
func FileSystemError(operation string, path string, err error) {
	logging.UserErrorf("Failed to %s '%s': %v", operation, path, err)
	exit(int(ExitCodeFileSystem))
}

// WarnOnError logs a warning for non-fatal errors
func WarnOnError(err error, context string) {
	if err != nil {
		logging.UserWarnf("%s: %v", context, err)
	}
}

// CheckErrorWithCode is like CheckError but with a specific exit code
func CheckErrorWithCode(err error, context string, exitCode ErrorExitCode) {
	if err != nil {
		FatalErrorWithCode(err, context, exitCode)
	}
}

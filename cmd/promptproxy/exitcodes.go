package main

import "fmt"

// Exit codes for the promptproxy CLI.
const (
	ExitOK      = 0 // Command succeeded.
	ExitError   = 1 // Request, configuration or AWS error.
	ExitTimeout = 2 // Stack deletion still in progress after the last poll.
)

type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitTimeout:
			msg = "promptproxy: timed out"
		default:
			msg = "promptproxy: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}

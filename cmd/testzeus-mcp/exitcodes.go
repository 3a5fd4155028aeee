package main

import "fmt"

// Exit codes for testzeus-mcp.
const (
	ExitOK          = 0 // Command succeeded.
	ExitInvalidArgs = 1 // Invalid arguments or bad configuration.
	ExitAuthFailure = 2 // TestZeus rejected the configured credentials.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
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
		case ExitAuthFailure:
			msg = "testzeus-mcp: authentication failed"
		default:
			msg = "testzeus-mcp: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}

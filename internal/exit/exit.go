// Package exit carries process termination results for the treediff CLI.
package exit

import (
	"fmt"
	"io"
	"os"
)

// Exit codes: 0 when the inputs are equal under the configured rules, 1 when
// differences were found, 2 for usage or input errors.
const (
	CodeEqual     = 0
	CodeDifferent = 1
	CodeError     = 2
)

// Result holds the output destination and exit code for program termination.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// Print writes the result message to the configured output destination.
func (r *Result) Print() {
	fmt.Fprint(r.Output, r.Message)
}

// Usage creates a usage error result that outputs to stderr with exit code 2.
func Usage(message string) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: CodeError,
		Message:  message,
	}
}

// Errorf creates an input error result with a formatted message, exit code 2.
func Errorf(format string, a ...any) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: CodeError,
		Message:  fmt.Sprintf(format, a...),
	}
}

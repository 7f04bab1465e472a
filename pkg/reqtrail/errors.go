package reqtrail

import (
	"fmt"
	"os"
)

// SinkError describes a swallowed failure at the sink boundary.
type SinkError struct {
	Op          string // The operation that failed
	Destination string // Where the record was headed
	Err         error  // The underlying error
}

// Error implements the error interface.
func (e *SinkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Destination, e.Err)
}

// Unwrap returns the underlying error.
func (e *SinkError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives internal logger failures. The logger never propagates
// errors to its caller; the handler is the only place they surface.
type ErrorHandler func(source, destination, message string, err error)

// StderrErrorHandler writes internal failures to stderr.
var StderrErrorHandler ErrorHandler = func(source, destination, message string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "reqtrail error: %s %s: %s: %v\n", source, destination, message, err)
	}
}

// SilentErrorHandler discards all internal failures.
var SilentErrorHandler ErrorHandler = func(source, destination, message string, err error) {
}

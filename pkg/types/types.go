package types

import (
	"net/http"
)

// Record is one formatted activity record produced for a lifecycle phase of a
// single network request. The Identifier correlates the start record with the
// finish record of the same request and is stable enough to be used as part
// of a file name by per-request sinks.
type Record struct {
	Identifier string
	Body       string
	IsReply    bool
	IsError    bool
}

// Sink is a pluggable destination for activity records.
//
// Send may fail with an I/O error; callers are expected to swallow the error
// and carry on. A sink must never block indefinitely.
type Sink interface {
	// Send writes a formatted record to the destination
	Send(rec Record) error

	// Close releases any resources held by the sink
	Close() error
}

// RequestInfo describes the request half of a lifecycle event: what was sent,
// where, and with which headers and payload.
type RequestInfo struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// ResponseInfo describes a completed HTTP exchange.
type ResponseInfo struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// FilterFunc decides whether a request's lifecycle should be suppressed.
// It returns true to exclude the request from logging entirely, for both the
// start and the finish phase.
type FilterFunc func(req RequestInfo) bool

// Verbosity levels, ordered. LevelOff and LevelFatal suppress all output;
// LevelDebug emits full detail for both phases; LevelInfo emits one-line
// summaries; LevelWarn and LevelError emit failure records only.
const (
	LevelOff = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// LevelName returns the lowercase name for a verbosity level.
func LevelName(level int) string {
	switch level {
	case LevelOff:
		return "off"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ParseLevel converts a level name to its numeric value. Unknown names map
// to LevelOff so a bad configuration value fails quiet rather than loud.
func ParseLevel(name string) int {
	switch name {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelOff
	}
}

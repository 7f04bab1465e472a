package reqtrail

import (
	"github.com/reqtrail/reqtrail/pkg/types"
)

// Re-export shared types so most callers only import this package.
type Record = types.Record
type Sink = types.Sink
type FilterFunc = types.FilterFunc
type RequestInfo = types.RequestInfo
type ResponseInfo = types.ResponseInfo

// Verbosity levels, ordered. Off and Fatal suppress all output; Debug emits
// full detail for both phases; Info emits one-line summaries; Warn and Error
// emit failure records only.
const (
	LevelOff   = types.LevelOff
	LevelDebug = types.LevelDebug
	LevelInfo  = types.LevelInfo
	LevelWarn  = types.LevelWarn
	LevelError = types.LevelError
	LevelFatal = types.LevelFatal
)

// SetLevel sets the verbosity level.
//
// Example:
//
//	logger.SetLevel(reqtrail.LevelDebug) // full headers and bodies
func (l *Logger) SetLevel(level int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current verbosity level. This method is thread-safe.
func (l *Logger) GetLevel() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// SetLevelName sets the verbosity level by name ("debug", "info", "warn",
// "error", "fatal"); unknown names select off.
func (l *Logger) SetLevelName(name string) {
	l.SetLevel(types.ParseLevel(name))
}

package reqtrail

import (
	"sync"
)

var (
	defaultLogger *Logger
	defaultOnce   sync.Once
)

// Default returns a process-wide convenience instance, created on first use
// with the standard settings. Callers that want isolated configuration should
// construct their own Logger with New.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger = New()
	})
	return defaultLogger
}

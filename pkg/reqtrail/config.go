package reqtrail

import (
	"github.com/pkg/errors"

	"github.com/reqtrail/reqtrail/pkg/sinks"
	"github.com/reqtrail/reqtrail/pkg/types"
)

// Destination selects which built-in sink implementation is active.
type Destination int

const (
	// DestinationConsole prints records to standard output.
	DestinationConsole Destination = iota
	// DestinationSingleFile appends all records to one aggregated log file.
	DestinationSingleFile
	// DestinationMultipleFiles writes one file per record.
	DestinationMultipleFiles
	// DestinationCustom marks a caller-supplied sink set via SetSink.
	DestinationCustom
)

// String returns the destination name.
func (d Destination) String() string {
	switch d {
	case DestinationConsole:
		return "console"
	case DestinationSingleFile:
		return "singleFile"
	case DestinationMultipleFiles:
		return "multipleFiles"
	case DestinationCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// SetFilter sets the exclusion predicate. A request the predicate matches is
// never logged, for either phase, at any level. Nil removes the filter.
func (l *Logger) SetFilter(f types.FilterFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filter = f
}

// SetDirectory sets the directory used by file-based destinations. It takes
// effect on the next destination switch.
func (l *Logger) SetDirectory(dir string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dir = dir
}

// Directory returns the directory used by file-based destinations.
func (l *Logger) Directory() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dir
}

// SetDestination switches the active sink. For file-based destinations the
// output directory is cleared and recreated synchronously, before the new
// sink can receive a record; the previous sink is closed after the swap.
func (l *Logger) SetDestination(d Destination) error {
	if l.IsClosed() {
		return errors.New("logger is closed")
	}

	// Holding sinkMu keeps the worker out of the sink while the directory
	// is cleared, so no write through the previous sink can land in the
	// fresh directory.
	l.sinkMu.Lock()
	defer l.sinkMu.Unlock()

	var (
		s   types.Sink
		err error
	)
	switch d {
	case DestinationConsole:
		s = sinks.NewConsole()
	case DestinationSingleFile:
		s, err = sinks.NewSingleFile(l.Directory())
	case DestinationMultipleFiles:
		s, err = sinks.NewMultiFile(l.Directory())
	default:
		return errors.Errorf("unknown destination: %d", d)
	}
	if err != nil {
		return errors.Wrapf(err, "switch destination to %s", d)
	}
	l.swapSink(s, d)
	return nil
}

// GetDestination returns the active destination.
func (l *Logger) GetDestination() Destination {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.destination
}

// SetSink installs a caller-supplied sink, replacing the active one. The
// logger takes ownership and will close it on the next switch or on Close.
func (l *Logger) SetSink(s types.Sink) {
	l.sinkMu.Lock()
	defer l.sinkMu.Unlock()
	l.swapSink(s, DestinationCustom)
}

// SetErrorHandler sets the handler that receives swallowed internal failures.
func (l *Logger) SetErrorHandler(h ErrorHandler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorHandler = h
}

// swapSink atomically replaces the active sink and closes the previous one.
// Callers hold sinkMu.
func (l *Logger) swapSink(s types.Sink, d Destination) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		if s != nil {
			_ = s.Close()
		}
		return
	}
	old := l.sink
	l.sink = s
	l.destination = d
	l.mu.Unlock()

	if old != nil && old != s {
		if err := old.Close(); err != nil {
			l.report("sink", d.String(), "failed to close previous sink", err)
		}
	}
}

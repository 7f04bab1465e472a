package reqtrail

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/reqtrail/reqtrail/internal/metrics"
	"github.com/reqtrail/reqtrail/pkg/format"
	"github.com/reqtrail/reqtrail/pkg/lifecycle"
	"github.com/reqtrail/reqtrail/pkg/sinks"
	"github.com/reqtrail/reqtrail/pkg/types"
)

// defaultChannelSize is the default buffer size for the event channel,
// initialized from environment variable REQTRAIL_CHANNEL_SIZE or defaults to 100
var defaultChannelSize = getDefaultChannelSize()

func getDefaultChannelSize() int {
	if value, exists := os.LookupEnv("REQTRAIL_CHANNEL_SIZE"); exists {
		if size, err := strconv.Atoi(value); err == nil && size > 0 {
			return size
		}
	}
	return 100 // Default to 100 if not specified in environment
}

// event is one unit of work for the background worker. Exactly one of the
// fields is set.
type event struct {
	start    *lifecycle.StartEvent
	finish   *lifecycle.FinishEvent
	syncDone chan struct{} // Used for synchronization in Sync() calls
}

// Logger correlates request lifecycle signals into activity records and fans
// them out to the active sink.
//
// All bookkeeping and sink I/O happen on a single background worker fed by a
// bounded channel: tracker mutations are linearized, sequence numbers follow
// completion order, and sink writes never interleave mid-body. The thread
// delivering a signal only enqueues and returns; when the queue is full the
// oldest queued event is dropped and counted.
//
// The level, filter, and destination are mutable at any time from any
// goroutine. The worker reads them as one consistent snapshot per event.
type Logger struct {
	mu          sync.RWMutex
	level       int
	filter      types.FilterFunc
	destination Destination
	sink        types.Sink
	dir         string
	cancel      func() // active subscription, nil when inactive
	closed      bool

	errorHandler ErrorHandler

	// sinkMu serializes sink writes with destination switches, so a
	// directory clear never interleaves with an in-flight write.
	sinkMu sync.Mutex

	events   chan event
	done     chan struct{}
	workerWg sync.WaitGroup

	tracker   *Tracker
	collector *metrics.Collector
}

// New creates a logger with the default settings: level info, console
// destination, platform-standard log directory. The logger is inactive until
// StartLogging subscribes it to a host client's lifecycle signals.
func New() *Logger {
	l := &Logger{
		level:        LevelInfo,
		destination:  DestinationConsole,
		sink:         sinks.NewConsole(),
		dir:          sinks.DefaultDir(),
		errorHandler: StderrErrorHandler,
		events:       make(chan event, defaultChannelSize),
		done:         make(chan struct{}),
		tracker:      NewTracker(),
		collector:    metrics.NewCollector(),
	}
	l.workerWg.Add(1)
	go l.worker()
	return l
}

// StartLogging subscribes the logger to the notifier's lifecycle signals.
// Any prior subscription is cancelled first, so calling it repeatedly leaves
// exactly one active subscription and never duplicates records.
func (l *Logger) StartLogging(n lifecycle.Notifier) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	if l.closed {
		return
	}
	l.cancel = n.Subscribe(l)
}

// StopLogging removes the active subscription. A no-op when already inactive.
func (l *Logger) StopLogging() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// IsLogging reports whether a subscription is active.
func (l *Logger) IsLogging() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cancel != nil
}

// RequestStarted implements lifecycle.Listener. It stamps and enqueues the
// event without blocking the caller.
func (l *Logger) RequestStarted(ev lifecycle.StartEvent) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	l.enqueue(event{start: &ev})
}

// RequestFinished implements lifecycle.Listener. It stamps and enqueues the
// event without blocking the caller.
func (l *Logger) RequestFinished(ev lifecycle.FinishEvent) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	l.enqueue(event{finish: &ev})
}

// enqueue hands an event to the worker. When the channel is saturated the
// oldest queued event is discarded to make room, and the drop is counted;
// the signal thread never blocks. The read lock is held across the sends so
// Close cannot close the channel underneath a sender.
func (l *Logger) enqueue(ev event) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return
	}

	select {
	case l.events <- ev:
		return
	default:
	}

	// Queue full: drop the oldest queued event to make room. A flush
	// sentinel is never silently lost; its waiter is released instead.
	select {
	case old := <-l.events:
		if old.syncDone != nil {
			close(old.syncDone)
		} else {
			l.collector.TrackDropped()
		}
	default:
	}
	select {
	case l.events <- ev:
	default:
		l.collector.TrackDropped()
	}
}

// worker is the single background goroutine that processes all events. It
// runs until Close, then drains whatever is already queued before exiting.
func (l *Logger) worker() {
	defer l.workerWg.Done()

	for {
		select {
		case ev := <-l.events:
			l.process(ev)
		case <-l.done:
			for {
				select {
				case ev := <-l.events:
					l.process(ev)
				default:
					return
				}
			}
		}
	}
}

func (l *Logger) process(ev event) {
	if ev.syncDone != nil {
		close(ev.syncDone)
		return
	}

	l.sinkMu.Lock()
	defer l.sinkMu.Unlock()

	// One consistent snapshot of the configuration per event.
	l.mu.RLock()
	level, filter, sink, dest := l.level, l.filter, l.sink, l.destination
	l.mu.RUnlock()

	switch {
	case ev.start != nil:
		l.handleStart(*ev.start, level, filter, sink, dest)
	case ev.finish != nil:
		l.handleFinish(*ev.finish, level, filter, sink, dest)
	}
}

func (l *Logger) handleStart(ev lifecycle.StartEvent, level int, filter types.FilterFunc, sink types.Sink, dest Destination) {
	req := ev.Request()
	if req.Method == "" || req.URL == "" {
		l.collector.TrackMalformed()
		return
	}
	if filter != nil && filter(req) {
		return
	}

	l.tracker.OnStart(ev.ID, ev.Time)

	rec, ok := format.StartRecord(level, req)
	if !ok {
		return
	}
	l.emit(rec, level, sink, dest)
}

func (l *Logger) handleFinish(ev lifecycle.FinishEvent, level int, filter types.FilterFunc, sink types.Sink, dest Destination) {
	req := ev.Request()
	if req.Method == "" || req.URL == "" {
		l.collector.TrackMalformed()
		return
	}
	// The filter gates the finish phase too, so a suppressed request never
	// produces a partial log.
	if filter != nil && filter(req) {
		return
	}

	elapsed := l.tracker.OnFinish(ev.ID, ev.Time)

	rec, ok := format.FinishRecord(level, req, ev.Response, ev.Err, elapsed)
	if !ok {
		return
	}
	l.emit(rec, level, sink, dest)
}

// emit hands a record to the sink, swallowing any failure.
func (l *Logger) emit(rec types.Record, level int, sink types.Sink, dest Destination) {
	if sink == nil {
		return
	}
	if err := sink.Send(rec); err != nil {
		l.collector.TrackSinkError()
		l.report("sink", dest.String(), "failed to write record", &SinkError{
			Op:          "send",
			Destination: dest.String(),
			Err:         err,
		})
		return
	}
	l.collector.TrackEmitted(level)
}

// Sync blocks until every event enqueued before the call has been processed.
// Under queue saturation the flush may be released early, once the events
// ahead of it have been discarded to make room.
func (l *Logger) Sync() error {
	l.mu.RLock()
	if l.closed {
		l.mu.RUnlock()
		return errors.New("logger is closed")
	}
	l.mu.RUnlock()

	synced := make(chan struct{})
	select {
	case l.events <- event{syncDone: synced}:
	case <-l.done:
		return errors.New("logger is closed")
	}
	select {
	case <-synced:
	case <-l.done:
	}
	return nil
}

// Close stops logging, drains the worker, and closes the active sink. Safe
// to call more than once.
func (l *Logger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	sink := l.sink
	l.mu.Unlock()

	close(l.done)
	l.workerWg.Wait()

	if sink != nil {
		return errors.Wrap(sink.Close(), "close sink")
	}
	return nil
}

// IsClosed returns true if the logger has been closed.
func (l *Logger) IsClosed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.closed
}

// Metrics is a snapshot of the logger's internal counters.
type Metrics struct {
	EventsDropped   uint64
	MalformedEvents uint64
	RecordsEmitted  uint64
	SinkErrors      uint64
	RecordsByLevel  map[int]uint64
}

// Metrics returns current counter values.
func (l *Logger) Metrics() Metrics {
	s := l.collector.Snapshot()
	return Metrics{
		EventsDropped:   s.EventsDropped,
		MalformedEvents: s.MalformedEvents,
		RecordsEmitted:  s.RecordsEmitted,
		SinkErrors:      s.SinkErrors,
		RecordsByLevel:  s.RecordsByLevel,
	}
}

// InFlight returns the number of requests with a tracked start and no finish.
func (l *Logger) InFlight() int {
	return l.tracker.InFlight()
}

func (l *Logger) report(source, dest, msg string, err error) {
	l.mu.RLock()
	h := l.errorHandler
	l.mu.RUnlock()
	if h != nil {
		h(source, dest, msg, err)
	}
}

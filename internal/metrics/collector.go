// Package metrics tracks the activity logger's own health counters: dropped
// events, malformed events, emitted records, and sink write failures. The
// counters are the only observable trace of the logger's best-effort
// failures, since nothing is ever propagated to the request path.
package metrics

import (
	"sync"
	"sync/atomic"
)

// Collector handles counter collection for the activity logger.
type Collector struct {
	eventsDropped   uint64
	malformedEvents uint64
	recordsEmitted  uint64
	sinkErrors      uint64

	recordsByLevel sync.Map // map[int]*atomic.Uint64
}

// NewCollector creates a new collector.
func NewCollector() *Collector {
	return &Collector{}
}

// TrackDropped counts a lifecycle event discarded because the queue was full.
func (c *Collector) TrackDropped() {
	atomic.AddUint64(&c.eventsDropped, 1)
}

// TrackMalformed counts a lifecycle event dropped for missing required fields.
func (c *Collector) TrackMalformed() {
	atomic.AddUint64(&c.malformedEvents, 1)
}

// TrackEmitted counts a record successfully handed to the active sink.
func (c *Collector) TrackEmitted(level int) {
	atomic.AddUint64(&c.recordsEmitted, 1)

	counter, _ := c.recordsByLevel.LoadOrStore(level, new(atomic.Uint64))
	counter.(*atomic.Uint64).Add(1)
}

// TrackSinkError counts a swallowed sink write failure.
func (c *Collector) TrackSinkError() {
	atomic.AddUint64(&c.sinkErrors, 1)
}

// Metrics is a point-in-time snapshot of the collector.
type Metrics struct {
	EventsDropped   uint64         `json:"events_dropped"`
	MalformedEvents uint64         `json:"malformed_events"`
	RecordsEmitted  uint64         `json:"records_emitted"`
	SinkErrors      uint64         `json:"sink_errors"`
	RecordsByLevel  map[int]uint64 `json:"records_by_level"`
}

// Snapshot returns current counter values.
func (c *Collector) Snapshot() Metrics {
	m := Metrics{
		EventsDropped:   atomic.LoadUint64(&c.eventsDropped),
		MalformedEvents: atomic.LoadUint64(&c.malformedEvents),
		RecordsEmitted:  atomic.LoadUint64(&c.recordsEmitted),
		SinkErrors:      atomic.LoadUint64(&c.sinkErrors),
		RecordsByLevel:  make(map[int]uint64),
	}
	c.recordsByLevel.Range(func(key, value interface{}) bool {
		m.RecordsByLevel[key.(int)] = value.(*atomic.Uint64).Load()
		return true
	})
	return m
}

// Package reqtrail observes the lifecycle of outbound HTTP requests issued by
// a host client and emits human-readable activity records at a configurable
// verbosity level to a pluggable destination. It is an observability side
// channel, not an HTTP client: it never issues, retries, or modifies a
// request. Logging is best-effort and never propagates a failure back to the
// request path.
//
// The logger subscribes to "request started" and "request finished" signals
// through the lifecycle.Notifier interface, correlates the two phases of each
// request, measures elapsed time, renders a leveled record, and hands it to
// the active sink. All bookkeeping and I/O run on one background worker, so
// the thread delivering a signal only enqueues and returns.
//
// Basic Usage:
//
//	events := lifecycle.NewBroadcaster()
//	client := &http.Client{Transport: lifecycle.NewTransport(nil, events)}
//
//	logger := reqtrail.New()
//	logger.SetLevel(reqtrail.LevelInfo)
//	logger.StartLogging(events)
//	defer logger.Close()
//
//	resp, err := client.Get("http://example.com/foo/bar.json")
//
// Destinations:
//
//	logger.SetDestination(reqtrail.DestinationSingleFile)    // one aggregated file
//	logger.SetDestination(reqtrail.DestinationMultipleFiles) // one file per record
//
// Switching to a file-based destination clears the output directory before
// any new record is written, so a run never mixes with stale logs.
//
// Filtering:
//
//	logger.SetFilter(func(req types.RequestInfo) bool {
//		return strings.Contains(req.URL, "/health")
//	})
//
// A filtered request produces no output at any level, for either phase.
package reqtrail

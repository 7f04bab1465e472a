// Package lifecycle defines the contract between a host HTTP client and the
// activity logger: the two asynchronous signals a client emits for every
// outbound request, and the subscription interface a logger registers with.
//
// The package also ships two concrete helpers: Broadcaster, a fan-out
// Notifier a host client can embed, and Transport, an http.RoundTripper
// wrapper that emits lifecycle events around a standard *http.Client.
package lifecycle

import (
	"net/http"
	"time"

	"github.com/reqtrail/reqtrail/pkg/types"
)

// RequestID is an opaque, stable handle for one network task. It is unique
// for the lifetime of that task and is only ever used as a map key.
type RequestID string

// StartEvent is delivered when the host client begins an outbound request.
type StartEvent struct {
	ID     RequestID
	Method string
	URL    string
	Header http.Header
	Body   []byte

	// Time is when the request started. Zero means "stamp on receipt".
	Time time.Time
}

// FinishEvent is delivered when the host client finishes an outbound request,
// either with a transport-level error (Err set, Response nil) or with an HTTP
// response (Response set, Err nil).
type FinishEvent struct {
	ID     RequestID
	Method string
	URL    string
	Header http.Header

	Err      error
	Response *types.ResponseInfo

	// Time is when the request finished. Zero means "stamp on receipt".
	Time time.Time
}

// Request returns the request half of the event.
func (ev StartEvent) Request() types.RequestInfo {
	return types.RequestInfo{Method: ev.Method, URL: ev.URL, Header: ev.Header, Body: ev.Body}
}

// Request returns the request half of the event.
func (ev FinishEvent) Request() types.RequestInfo {
	return types.RequestInfo{Method: ev.Method, URL: ev.URL, Header: ev.Header}
}

// Listener receives lifecycle signals. Implementations must not block: the
// host client may deliver signals from many request goroutines concurrently.
type Listener interface {
	RequestStarted(ev StartEvent)
	RequestFinished(ev FinishEvent)
}

// Notifier is the subscription mechanism a host client exposes. Subscribe
// registers a listener and returns a cancel function that removes it; cancel
// is safe to call more than once.
type Notifier interface {
	Subscribe(l Listener) (cancel func())
}

// Publisher is the sending side of the contract, implemented by Broadcaster.
type Publisher interface {
	Started(ev StartEvent)
	Finished(ev FinishEvent)
}

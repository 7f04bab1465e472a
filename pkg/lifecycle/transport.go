package lifecycle

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/reqtrail/reqtrail/pkg/types"
)

// DefaultBodyMaxRead is the maximum number of body bytes a Transport snapshots
// for logging. Bodies larger than this are passed through untouched beyond the
// snapshot; the request itself is never truncated.
const DefaultBodyMaxRead = 64 * 1024

// Transport is an http.RoundTripper that emits lifecycle events around an
// inner transport. It assigns each request a fresh RequestID, snapshots the
// request and response bodies for the events, and restores them so the
// exchange proceeds unmodified. It never retries or alters a request.
type Transport struct {
	// Base is the wrapped transport. Nil means http.DefaultTransport.
	Base http.RoundTripper

	// Publisher receives the events. Nil disables event emission.
	Publisher Publisher

	// BodyMaxRead caps body snapshot size. Zero means DefaultBodyMaxRead.
	BodyMaxRead int64
}

// NewTransport wraps base so that every request publishes lifecycle events to p.
func NewTransport(base http.RoundTripper, p Publisher) *Transport {
	return &Transport{Base: base, Publisher: p}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.Publisher == nil {
		return base.RoundTrip(req)
	}

	id := RequestID(uuid.NewString())
	reqBody := t.snapshotRequestBody(req)

	t.Publisher.Started(StartEvent{
		ID:     id,
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
		Body:   reqBody,
		Time:   time.Now(),
	})

	resp, err := base.RoundTrip(req)

	finish := FinishEvent{
		ID:     id,
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
		Time:   time.Now(),
	}
	if err != nil {
		finish.Err = err
	} else {
		finish.Response = &types.ResponseInfo{
			StatusCode: resp.StatusCode,
			Header:     resp.Header.Clone(),
			Body:       t.snapshotResponseBody(resp),
		}
	}
	t.Publisher.Finished(finish)

	return resp, err
}

func (t *Transport) maxRead() int64 {
	if t.BodyMaxRead > 0 {
		return t.BodyMaxRead
	}
	return DefaultBodyMaxRead
}

// snapshotRequestBody reads up to maxRead bytes of the request body and
// reassembles req.Body so the wrapped transport sees the original stream.
func (t *Transport) snapshotRequestBody(req *http.Request) []byte {
	if req.Body == nil || req.Body == http.NoBody {
		return nil
	}
	buf := make([]byte, t.maxRead())
	n, _ := io.ReadFull(req.Body, buf)
	if n == 0 {
		return nil
	}
	snapshot := buf[:n]
	req.Body = rejoin(snapshot, req.Body)
	return snapshot
}

func (t *Transport) snapshotResponseBody(resp *http.Response) []byte {
	if resp.Body == nil || resp.Body == http.NoBody {
		return nil
	}
	buf := make([]byte, t.maxRead())
	n, _ := io.ReadFull(resp.Body, buf)
	if n == 0 {
		return nil
	}
	snapshot := buf[:n]
	resp.Body = rejoin(snapshot, resp.Body)
	return snapshot
}

type rejoinedBody struct {
	io.Reader
	io.Closer
}

// rejoin prefixes the already-consumed snapshot back onto the remaining body.
func rejoin(snapshot []byte, rest io.ReadCloser) io.ReadCloser {
	return rejoinedBody{
		Reader: io.MultiReader(bytes.NewReader(snapshot), rest),
		Closer: rest,
	}
}

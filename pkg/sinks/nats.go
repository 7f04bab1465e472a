package sinks

import (
	"encoding/json"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/reqtrail/reqtrail/pkg/types"
)

// DefaultSubject is the NATS subject records are published to when none is given.
const DefaultSubject = "reqtrail.activity"

// NATS publishes records to a NATS subject as JSON, for shipping activity
// logs off-host. Delivery is fire-and-forget: a failed publish surfaces as a
// sink error and the record is not retried.
type NATS struct {
	mu      sync.Mutex
	conn    *nats.Conn
	subject string
	ownConn bool
}

type natsRecord struct {
	Identifier string `json:"identifier"`
	Body       string `json:"body"`
	IsReply    bool   `json:"is_reply"`
	IsError    bool   `json:"is_error"`
}

// NewNATS connects to a NATS server and returns a sink publishing to subject.
// An empty subject selects DefaultSubject.
func NewNATS(url, subject string) (*NATS, error) {
	conn, err := nats.Connect(url, nats.Name("reqtrail"))
	if err != nil {
		return nil, errors.Wrap(err, "connect to nats")
	}
	n := NewNATSConn(conn, subject)
	n.ownConn = true
	return n, nil
}

// NewNATSConn wraps an existing connection. The caller keeps ownership of
// conn; Close does not close it.
func NewNATSConn(conn *nats.Conn, subject string) *NATS {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATS{conn: conn, subject: subject}
}

// Send implements types.Sink.
func (n *NATS) Send(rec types.Record) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	data, err := json.Marshal(natsRecord{
		Identifier: rec.Identifier,
		Body:       rec.Body,
		IsReply:    rec.IsReply,
		IsError:    rec.IsError,
	})
	if err != nil {
		return errors.Wrap(err, "encode record")
	}
	return errors.Wrapf(n.conn.Publish(n.subject, data), "publish to %s", n.subject)
}

// Close implements types.Sink, flushing pending publishes and closing the
// connection when the sink owns it.
func (n *NATS) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn == nil {
		return nil
	}
	err := n.conn.Flush()
	if n.ownConn {
		n.conn.Close()
	}
	n.conn = nil
	return errors.Wrap(err, "flush nats connection")
}

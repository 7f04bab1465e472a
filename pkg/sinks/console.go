package sinks

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/reqtrail/reqtrail/pkg/types"
)

const divider = "=================================================="

// Console writes records to a stream, each framed by a divider line.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a console sink writing to standard output.
func NewConsole() *Console {
	return &Console{w: os.Stdout}
}

// NewConsoleWriter creates a console sink writing to w.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{w: w}
}

// Send implements types.Sink.
func (c *Console) Send(rec types.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := fmt.Fprintf(c.w, "%s\n%s\n%s\n", divider, rec.Body, divider)
	return errors.Wrap(err, "write console record")
}

// Close implements types.Sink. The console sink does not own its stream.
func (c *Console) Close() error {
	return nil
}

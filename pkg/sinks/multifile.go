package sinks

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/reqtrail/reqtrail/pkg/types"
)

// MultiFile writes one file per record, named
// "<sequence> <marker> <identifier>.log". The file name encodes the record's
// order and status, so the body is written bare.
type MultiFile struct {
	mu  sync.Mutex
	dir string
	seq uint64
}

// NewMultiFile creates a per-record file sink rooted at dir. The directory is
// cleared and recreated before the sink can receive records.
func NewMultiFile(dir string) (*MultiFile, error) {
	if err := ResetDir(dir); err != nil {
		return nil, err
	}
	return &MultiFile{dir: dir}, nil
}

// Send implements types.Sink.
func (m *MultiFile) Send(rec types.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	name := fmt.Sprintf("%d %s %s.log", m.seq, Marker(rec), rec.Identifier)
	err := os.WriteFile(filepath.Join(m.dir, name), []byte(rec.Body), 0644) // #nosec G306 - log files need to be readable
	return errors.Wrap(err, "write record file")
}

// Dir returns the sink's output directory.
func (m *MultiFile) Dir() string {
	return m.dir
}

// Close implements types.Sink. Per-record files are closed as they are written.
func (m *MultiFile) Close() error {
	return nil
}

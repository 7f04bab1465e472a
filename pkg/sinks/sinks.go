// Package sinks provides the built-in output destinations for activity
// records: console, a single aggregated log file, one file per record, and a
// NATS subject. File-based sinks write under a directory that is cleared and
// recreated when the sink is constructed, so a destination switch never mixes
// fresh records with stale ones from a previous run.
package sinks

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"

	"github.com/reqtrail/reqtrail/pkg/types"
)

// Three-glyph status markers embedded in file sink banners and file names.
const (
	MarkerStart = "..."
	MarkerOK    = "+++"
	MarkerFail  = "!!!"
)

// DefaultBufferSize for buffered file writes.
const DefaultBufferSize = 32 * 1024 // 32 KB

// Marker returns the status marker for a record: neutral for a start record,
// positive for a successful finish, negative for an error finish.
func Marker(rec types.Record) string {
	switch {
	case !rec.IsReply:
		return MarkerStart
	case rec.IsError:
		return MarkerFail
	default:
		return MarkerOK
	}
}

// DefaultDir returns the platform-standard user-writable directory for
// activity logs.
func DefaultDir() string {
	return filepath.Join(xdg.StateHome, "reqtrail")
}

// ResetDir removes dir and everything under it, then recreates it empty.
// Called synchronously when a file-based sink is constructed.
func ResetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrap(err, "clear log directory")
	}
	// #nosec G301 - log directories need to be accessible by other processes
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "create log directory")
	}
	return nil
}

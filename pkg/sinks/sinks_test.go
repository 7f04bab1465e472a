package sinks

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reqtrail/reqtrail/pkg/types"
)

func TestMarker(t *testing.T) {
	tests := []struct {
		name string
		rec  types.Record
		want string
	}{
		{"start", types.Record{}, MarkerStart},
		{"success", types.Record{IsReply: true}, MarkerOK},
		{"error", types.Record{IsReply: true, IsError: true}, MarkerFail},
	}
	for _, tt := range tests {
		if got := Marker(tt.rec); got != tt.want {
			t.Errorf("%s: Marker = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestConsoleFramesRecord(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf)

	if err := c.Send(types.Record{Body: "GET 'http://example.com/'"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), buf.String())
	}
	if lines[0] != divider || lines[2] != divider {
		t.Errorf("missing divider lines: %q", buf.String())
	}
	if lines[1] != "GET 'http://example.com/'" {
		t.Errorf("body line = %q", lines[1])
	}
}

func TestSingleFileAppendsWithBanner(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	s, err := NewSingleFile(dir)
	if err != nil {
		t.Fatalf("NewSingleFile failed: %v", err)
	}
	defer s.Close()

	records := []types.Record{
		{Identifier: "_a", Body: "GET 'http://example.com/a'"},
		{Identifier: "_a", Body: "200 'http://example.com/a' [0.0010 s]", IsReply: true},
		{Identifier: "_b", Body: "[Error] GET 'http://example.com/b' [1.0000 s]:\ntimeout", IsReply: true, IsError: true},
	}
	for _, rec := range records {
		if err := s.Send(rec); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	content := string(data)

	for _, banner := range []string{"1 " + MarkerStart, "2 " + MarkerOK, "3 " + MarkerFail} {
		if !strings.Contains(content, banner+"\n") {
			t.Errorf("banner %q missing:\n%s", banner, content)
		}
	}
	// All three bodies appended, in order.
	first := strings.Index(content, records[0].Body)
	second := strings.Index(content, records[1].Body)
	third := strings.Index(content, "timeout")
	if first < 0 || second < first || third < second {
		t.Errorf("records out of order:\n%s", content)
	}
}

func TestSingleFileDoesNotTruncateBetweenOpens(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	s, err := NewSingleFile(dir)
	if err != nil {
		t.Fatalf("NewSingleFile failed: %v", err)
	}
	if err := s.Send(types.Record{Body: "first"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopening the same sink instance appends rather than truncating.
	if err := s.Send(types.Record{Body: "second"}); err != nil {
		t.Fatalf("Send after Close failed: %v", err)
	}
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Errorf("append semantics broken:\n%s", data)
	}
}

func TestMultiFileNamesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	m, err := NewMultiFile(dir)
	if err != nil {
		t.Fatalf("NewMultiFile failed: %v", err)
	}
	defer m.Close()

	if err := m.Send(types.Record{Identifier: "_foo_bar.json", Body: "GET 'http://example.com/foo/bar.json'"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if err := m.Send(types.Record{Identifier: "_foo_bar.json", Body: "200", IsReply: true}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	wantFiles := []string{
		"1 " + MarkerStart + " _foo_bar.json.log",
		"2 " + MarkerOK + " _foo_bar.json.log",
	}
	for _, name := range wantFiles {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("expected file %q: %v", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("file %q is empty", name)
		}
	}
}

func TestMultiFileBodyOnly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	m, err := NewMultiFile(dir)
	if err != nil {
		t.Fatalf("NewMultiFile failed: %v", err)
	}
	if err := m.Send(types.Record{Identifier: "_x", Body: "the body"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "1 "+MarkerStart+" _x.log"))
	if err != nil {
		t.Fatalf("read record file: %v", err)
	}
	if string(data) != "the body" {
		t.Errorf("file content = %q, want body only", data)
	}
}

func TestResetDirClearsStaleFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(dir, "stale.log")
	if err := os.WriteFile(stale, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	// Constructing a file sink resets the directory.
	if _, err := NewMultiFile(dir); err != nil {
		t.Fatalf("NewMultiFile failed: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale file survived the destination switch")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("directory not empty after reset: %d entries", len(entries))
	}
}

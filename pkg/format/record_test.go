package format

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/reqtrail/reqtrail/pkg/types"
)

func TestStartRecordInfo(t *testing.T) {
	req := types.RequestInfo{Method: "GET", URL: "http://example.com/foo/bar.json"}

	rec, ok := StartRecord(types.LevelInfo, req)
	if !ok {
		t.Fatal("expected a record at info level")
	}
	if rec.Body != "GET 'http://example.com/foo/bar.json'" {
		t.Errorf("body = %q", rec.Body)
	}
	if rec.IsReply || rec.IsError {
		t.Errorf("start record flags: isReply=%v isError=%v, want both false", rec.IsReply, rec.IsError)
	}
	if rec.Identifier != "_foo_bar.json" {
		t.Errorf("identifier = %q, want %q", rec.Identifier, "_foo_bar.json")
	}
}

func TestStartRecordDebug(t *testing.T) {
	req := types.RequestInfo{
		Method: "POST",
		URL:    "http://example.com/api",
		Header: http.Header{
			"Content-Type": {"application/json"},
			"Accept":       {"application/json"},
		},
		Body: []byte(`{"name":"x"}`),
	}

	rec, ok := StartRecord(types.LevelDebug, req)
	if !ok {
		t.Fatal("expected a record at debug level")
	}
	if !strings.HasPrefix(rec.Body, "POST 'http://example.com/api':\n") {
		t.Errorf("body prefix wrong: %q", rec.Body)
	}
	// Headers render sorted.
	accept := strings.Index(rec.Body, "Accept: application/json")
	ctype := strings.Index(rec.Body, "Content-Type: application/json")
	if accept < 0 || ctype < 0 || accept > ctype {
		t.Errorf("headers missing or unsorted in body: %q", rec.Body)
	}
	if !strings.Contains(rec.Body, `{"name":"x"}`) {
		t.Errorf("request body missing: %q", rec.Body)
	}
}

func TestStartRecordSuppressedLevels(t *testing.T) {
	req := types.RequestInfo{Method: "GET", URL: "http://example.com/"}

	for _, level := range []int{types.LevelOff, types.LevelWarn, types.LevelError, types.LevelFatal} {
		if _, ok := StartRecord(level, req); ok {
			t.Errorf("level %s: start record emitted, want none", types.LevelName(level))
		}
	}
}

func TestFinishRecordInfoSuccess(t *testing.T) {
	req := types.RequestInfo{Method: "GET", URL: "http://example.com/foo/bar.json"}
	resp := &types.ResponseInfo{StatusCode: 200}

	rec, ok := FinishRecord(types.LevelInfo, req, resp, nil, 253500*time.Microsecond)
	if !ok {
		t.Fatal("expected a record at info level")
	}
	want := "200 'http://example.com/foo/bar.json' [0.2535 s]"
	if rec.Body != want {
		t.Errorf("body = %q, want %q", rec.Body, want)
	}
	if !rec.IsReply || rec.IsError {
		t.Errorf("finish record flags: isReply=%v isError=%v", rec.IsReply, rec.IsError)
	}
}

func TestFinishRecordMatchingIdentifier(t *testing.T) {
	req := types.RequestInfo{Method: "GET", URL: "http://example.com/a/b?q=1"}

	start, _ := StartRecord(types.LevelInfo, req)
	finish, _ := FinishRecord(types.LevelInfo, req, &types.ResponseInfo{StatusCode: 200}, nil, time.Millisecond)

	if start.Identifier != finish.Identifier {
		t.Errorf("identifiers differ: start %q finish %q", start.Identifier, finish.Identifier)
	}
}

func TestFinishRecordTransportError(t *testing.T) {
	req := types.RequestInfo{Method: "GET", URL: "http://example.com/x"}
	errConn := errors.New("connection refused")

	for _, level := range []int{types.LevelDebug, types.LevelInfo, types.LevelWarn, types.LevelError} {
		rec, ok := FinishRecord(level, req, nil, errConn, 1500*time.Millisecond)
		if !ok {
			t.Fatalf("level %s: expected an error record", types.LevelName(level))
		}
		if !rec.IsError || !rec.IsReply {
			t.Errorf("level %s: flags isError=%v isReply=%v", types.LevelName(level), rec.IsError, rec.IsReply)
		}
		want := "[Error] GET 'http://example.com/x' [1.5000 s]:\nconnection refused"
		if rec.Body != want {
			t.Errorf("level %s: body = %q, want %q", types.LevelName(level), rec.Body, want)
		}
	}

	for _, level := range []int{types.LevelOff, types.LevelFatal} {
		if _, ok := FinishRecord(level, req, nil, errConn, time.Second); ok {
			t.Errorf("level %s: error record emitted, want none", types.LevelName(level))
		}
	}
}

func TestFinishRecordDebugPrettyPrintsJSON(t *testing.T) {
	req := types.RequestInfo{Method: "GET", URL: "http://example.com/data"}
	resp := &types.ResponseInfo{
		StatusCode: 200,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       []byte(`{"a":1,"b":[2,3]}`),
	}

	rec, ok := FinishRecord(types.LevelDebug, req, resp, nil, 100*time.Millisecond)
	if !ok {
		t.Fatal("expected a record at debug level")
	}
	if !strings.HasPrefix(rec.Body, "200 'http://example.com/data' [0.1000 s]:\n") {
		t.Errorf("body prefix wrong: %q", rec.Body)
	}
	if !strings.Contains(rec.Body, "Content-Type: application/json") {
		t.Errorf("response headers missing: %q", rec.Body)
	}
	// Pretty-printed output spans multiple lines, unlike the compact input.
	if strings.Contains(rec.Body, `{"a":1,"b":[2,3]}`) {
		t.Errorf("response body was not pretty-printed: %q", rec.Body)
	}
	if !strings.Contains(rec.Body, `"a"`) || !strings.Contains(rec.Body, `"b"`) {
		t.Errorf("response body content missing: %q", rec.Body)
	}
}

func TestFinishRecordDebugFallsBackToRawText(t *testing.T) {
	req := types.RequestInfo{Method: "GET", URL: "http://example.com/page"}
	resp := &types.ResponseInfo{StatusCode: 200, Body: []byte("<html>hi</html>")}

	rec, ok := FinishRecord(types.LevelDebug, req, resp, nil, time.Millisecond)
	if !ok {
		t.Fatal("expected a record at debug level")
	}
	if !strings.Contains(rec.Body, "<html>hi</html>") {
		t.Errorf("raw text body missing: %q", rec.Body)
	}
}

func TestFinishRecordSuccessSuppressedAtWarn(t *testing.T) {
	req := types.RequestInfo{Method: "GET", URL: "http://example.com/"}
	resp := &types.ResponseInfo{StatusCode: 200}

	for _, level := range []int{types.LevelWarn, types.LevelError, types.LevelOff, types.LevelFatal} {
		if _, ok := FinishRecord(level, req, resp, nil, time.Millisecond); ok {
			t.Errorf("level %s: success record emitted, want none", types.LevelName(level))
		}
	}
}

func TestElapsedFourDecimals(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0.0000"},
		{253500 * time.Microsecond, "0.2535"},
		{time.Second, "1.0000"},
		{1234567 * time.Microsecond, "1.2346"},
	}
	for _, tt := range tests {
		if got := Elapsed(tt.d); got != tt.want {
			t.Errorf("Elapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://example.com/foo/bar.json", "_foo_bar.json"},
		{"http://example.com/a/b/c?x=1&y=2", "_a_b_c?x=1&y=2"},
		{"http://example.com/", "_"},
		{"http://example.com", "example.com"},
		{"http://example.com?x=1", "?x=1"},
		{"https://example.com/path/with/query?redirect=/home", "_path_with_query?redirect=_home"},
	}
	for _, tt := range tests {
		if got := Identifier(tt.url); got != tt.want {
			t.Errorf("Identifier(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestDecodeText(t *testing.T) {
	if got := DecodeText([]byte("plain text")); got != "plain text" {
		t.Errorf("DecodeText = %q", got)
	}
	if got := DecodeText([]byte{0xff, 0xfe, 0xfd}); got != "" {
		t.Errorf("DecodeText on invalid UTF-8 = %q, want empty", got)
	}
	if got := DecodeText(nil); got != "" {
		t.Errorf("DecodeText(nil) = %q, want empty", got)
	}
}

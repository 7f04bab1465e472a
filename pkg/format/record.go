// Package format renders lifecycle events into activity records. All
// functions are pure: the package holds no state and performs no I/O.
package format

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/reqtrail/reqtrail/pkg/types"
)

// StartRecord renders the start-phase record for a request at the given
// verbosity level. The second return value is false when the level emits
// nothing for the start phase; the caller must skip emission.
func StartRecord(level int, req types.RequestInfo) (types.Record, bool) {
	rec := types.Record{Identifier: Identifier(req.URL)}

	switch level {
	case types.LevelDebug:
		var b strings.Builder
		fmt.Fprintf(&b, "%s '%s':\n", req.Method, req.URL)
		writeHeader(&b, req.Header)
		if body := DecodeText(req.Body); body != "" {
			b.WriteString(body)
		}
		rec.Body = b.String()
	case types.LevelInfo:
		rec.Body = fmt.Sprintf("%s '%s'", req.Method, req.URL)
	default:
		return types.Record{}, false
	}
	return rec, true
}

// FinishRecord renders the finish-phase record for a request at the given
// verbosity level. err is the transport-level failure, if any; resp is the
// HTTP response on success. elapsed is the wall-clock duration since the
// request's start. The second return value is false when the level emits
// nothing for this outcome.
func FinishRecord(level int, req types.RequestInfo, resp *types.ResponseInfo, err error, elapsed time.Duration) (types.Record, bool) {
	rec := types.Record{Identifier: Identifier(req.URL), IsReply: true}

	if err != nil {
		switch level {
		case types.LevelDebug, types.LevelInfo, types.LevelWarn, types.LevelError:
			rec.IsError = true
			rec.Body = fmt.Sprintf("[Error] %s '%s' [%s s]:\n%v", req.Method, req.URL, Elapsed(elapsed), err)
			return rec, true
		default:
			return types.Record{}, false
		}
	}

	if resp == nil {
		return types.Record{}, false
	}

	switch level {
	case types.LevelDebug:
		var b strings.Builder
		fmt.Fprintf(&b, "%d '%s' [%s s]:\n", resp.StatusCode, req.URL, Elapsed(elapsed))
		writeHeader(&b, resp.Header)
		if body := PrettyBody(resp.Body); body != "" {
			b.WriteString(body)
		}
		rec.Body = b.String()
	case types.LevelInfo:
		rec.Body = fmt.Sprintf("%d '%s' [%s s]", resp.StatusCode, req.URL, Elapsed(elapsed))
	default:
		return types.Record{}, false
	}
	return rec, true
}

// Elapsed renders a duration in seconds with exactly four decimal digits.
func Elapsed(d time.Duration) string {
	return fmt.Sprintf("%.4f", d.Seconds())
}

// writeHeader renders each header as a "key: value" line, keys sorted so
// output is deterministic.
func writeHeader(b *strings.Builder, h map[string][]string) {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%s: %s\n", k, strings.Join(h[k], ", "))
	}
}

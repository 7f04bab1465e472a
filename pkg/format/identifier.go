package format

import (
	"net/url"
	"strings"
)

// Identifier derives the correlation identifier for a request from its URL
// path and query. Path separators are replaced so the result can be embedded
// in a file name; the same URL always yields the same identifier, so a start
// record and its finish record share one.
func Identifier(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return sanitize(rawURL)
	}
	id := u.Path
	if u.RawQuery != "" {
		id += "?" + u.RawQuery
	}
	if id == "" {
		// A bare origin URL has no path or query; the host still gives
		// the record a usable name.
		id = u.Host
	}
	return sanitize(id)
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, "/", "_")
}

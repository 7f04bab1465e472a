package format

import (
	"unicode/utf8"

	"github.com/ohler55/ojg/oj"
	"github.com/ohler55/ojg/pretty"
)

// DecodeText decodes raw body bytes as text. Bytes that are not valid UTF-8
// yield the empty string, which callers treat as "omit the body".
func DecodeText(b []byte) string {
	if len(b) == 0 || !utf8.Valid(b) {
		return ""
	}
	return string(b)
}

// PrettyBody renders body bytes for display: structured data (JSON) is
// pretty-printed, anything else falls back to raw text decoding.
func PrettyBody(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if val, err := oj.Parse(b); err == nil {
		return pretty.JSON(val)
	}
	return DecodeText(b)
}

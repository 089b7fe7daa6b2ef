package logging

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/valyala/fastjson"
)

const (
	MaskToken = "****"

	// binaryBodyPlaceholder stands in for bodies that are not valid UTF-8.
	binaryBodyPlaceholder = "file_bytes"
)

// Redactor masks or removes sensitive headers before they are logged.
// Header names are matched case-insensitively.
type Redactor struct {
	mask map[string]struct{}
	drop map[string]struct{}
}

func NewRedactor(mask, drop []string) *Redactor {
	r := &Redactor{
		mask: make(map[string]struct{}, len(mask)),
		drop: make(map[string]struct{}, len(drop)),
	}
	for _, name := range mask {
		r.mask[strings.ToLower(name)] = struct{}{}
	}
	for _, name := range drop {
		r.drop[strings.ToLower(name)] = struct{}{}
	}
	return r
}

// Headers flattens h into lower-cased names with comma-joined values,
// masking and dropping configured entries.
func (r *Redactor) Headers(h http.Header) Headers {
	out := make(Headers, len(h))
	for name, values := range h {
		key := strings.ToLower(name)
		if _, ok := r.drop[key]; ok {
			continue
		}
		if _, ok := r.mask[key]; ok {
			out[key] = MaskToken
			continue
		}
		out[key] = strings.Join(values, ", ")
	}
	return out
}

var bodyParsers fastjson.ParserPool

// FilterBody prepares a body for logging. JSON objects lose their "data"
// member, anything that does not parse is kept as-is.
func FilterBody(body []byte) string {
	if !utf8.Valid(body) {
		return binaryBodyPlaceholder
	}

	p := bodyParsers.Get()
	defer bodyParsers.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil || v.Type() != fastjson.TypeObject || !v.Exists("data") {
		return string(body)
	}
	v.Del("data")
	return string(v.MarshalTo(nil))
}

// bodyText renders a request body for logging.
func bodyText(body []byte) string {
	if !utf8.Valid(body) {
		return binaryBodyPlaceholder
	}
	return string(body)
}

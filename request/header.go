// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"golang.org/x/net/http/httpguts"
)

// A HeaderField names an HTTP header, for example Accept or
// Authorization.
//
// Any string is a usable header field. Header fields are compared in
// canonical MIME header form, so "content-type" and "Content-Type" name
// the same header once merged into a Header.
type HeaderField string

// Well-known header fields.
const (
	Accept        HeaderField = "Accept"
	Authorization HeaderField = "Authorization"
	ContentType   HeaderField = "Content-Type"
)

// Canonical returns the canonical MIME header form of f.
func (f HeaderField) Canonical() HeaderField {
	return HeaderField(http.CanonicalHeaderKey(string(f)))
}

// Valid reports whether f is a valid header field name as defined by
// RFC 7230 (a non-empty token).
func (f HeaderField) Valid() bool {
	return httpguts.ValidHeaderFieldName(string(f))
}

// A MediaType is a value for the Accept or Content-Type headers.
type MediaType string

// JSON is the media type of JSON documents.
const JSON MediaType = "application/json"

// A Header maps header fields to values. Each field has exactly one
// value.
type Header map[HeaderField]string

// Fields returns the canonical form of every field in h, sorted
// lexicographically.
func (h Header) Fields() []HeaderField {
	fields := make([]HeaderField, 0, len(h))
	for f := range canonical(h) {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// HTTPHeader converts h into an http.Header. The result is a new map
// and may be modified freely.
func (h Header) HTTPHeader() http.Header {
	out := make(http.Header, len(h))
	for f, v := range canonical(h) {
		out[string(f)] = []string{v}
	}
	return out
}

// canonical rekeys h by canonical field name. When several spellings
// of one field are present, the canonical spelling wins, and otherwise
// the spelling that sorts last.
func canonical(h Header) Header {
	fields := make([]HeaderField, 0, len(h))
	for f := range h {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool {
		ci, cj := fields[i] == fields[i].Canonical(), fields[j] == fields[j].Canonical()
		if ci != cj {
			return cj
		}
		return fields[i] < fields[j]
	})
	out := make(Header, len(h))
	for _, f := range fields {
		out[f.Canonical()] = h[f]
	}
	return out
}

// MergeHeader returns a new Header containing every field of base and
// overrides. Where both contain the same field (compared canonically),
// the value in overrides wins. Neither input is modified.
//
// The returned header always uses canonical field names.
func MergeHeader(base, overrides Header) Header {
	out := canonical(base)
	for f, v := range canonical(overrides) {
		out[f] = v
	}
	return out
}

// A Query maps query parameter names to values. A value may be of any
// type with a textual representation (for example string, an integer
// type, or a fmt.Stringer). Values are rendered with fmt.Sprint when
// the wire request is built, and not before. A nil value leaves the
// parameter out of the wire request, which lets a request override a
// configured parameter with nothing.
type Query map[string]interface{}

// MergeQuery returns a new Query containing every parameter of base and
// overrides. Where both contain the same name, the value in overrides
// wins. Neither input is modified.
func MergeQuery(base, overrides Query) Query {
	out := make(Query, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Values renders q into url.Values. Parameters with a nil value are
// omitted.
func (q Query) Values() url.Values {
	values := make(url.Values, len(q))
	for k, v := range q {
		if v == nil {
			continue
		}
		values.Set(k, fmt.Sprint(v))
	}
	return values
}

// Encode renders q in URL-encoded form ("bar=baz&foo=quux"), sorted by
// parameter name. An empty query encodes as the empty string.
func (q Query) Encode() string {
	return q.Values().Encode()
}

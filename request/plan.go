// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"sort"
	"strconv"
	"strings"
)

var (
	template, _ = http.NewRequest("GET", "", nil)
)

const (
	nilCtxMsg = "httpapi/request: nil context"
)

// A Plan is a fully resolved wire request: the absolute URL, method,
// final header set, and body that will be sent to the server.
//
// A Plan is derived from a Request, a base URL, and a client
// Configuration by NewPlan. Deriving a Plan is deterministic, so two
// Plans built from the same inputs are Equal regardless of the order in
// which header fields and query parameters were inserted into their
// maps.
//
// Like the http.Request structure, a Plan has a context which controls
// the execution and can be used to cancel the inflight execution of a
// Plan at any time.
type Plan struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.).
	Method string

	// URL specifies the absolute URL to access, including the query
	// string sorted by parameter name.
	URL *urlpkg.URL

	// Header contains the request header fields to be sent. It holds
	// the configuration header fields merged under the request's own
	// header fields.
	Header http.Header

	// Body is the pre-buffered request body to be sent. A nil or
	// empty body indicates no request body should be sent.
	Body []byte

	// Decode, if not nil, is run by the client after the response body
	// has been read successfully. Its return value becomes the
	// execution error. Execute installs a Decode function which
	// classifies the response and decodes it into the typed output.
	Decode func(e *Execution) error

	// ctx allows the entire Plan execution to be cancelled. It should
	// only be modified by copying the whole Plan using WithContext.
	ctx context.Context
}

// NewPlan builds the wire request for r relative to baseURL, applying
// the header fields and query parameters of configuration c beneath
// those of r (r wins on collision).
//
// The URL is baseURL with r.Path joined as a path component. The query
// string of baseURL is replaced by the merged query parameters, sorted
// by name, and omitted if there are none. A nil baseURL is treated as
// the empty URL.
//
// NewPlan never modifies its inputs and never fails.
func NewPlan(ctx context.Context, baseURL *urlpkg.URL, r Request, c Configuration) *Plan {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	u := &urlpkg.URL{}
	if baseURL != nil {
		*u = *baseURL
	}
	u.Path = joinURLPath(u.Path, r.Path)
	u.RawPath = ""
	u.RawQuery = MergeQuery(c.Query, r.Query).Encode()
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	method := string(r.Method)
	if method == "" {
		method = string(GET)
	}
	var body []byte
	if len(r.Body) > 0 {
		body = make([]byte, len(r.Body))
		copy(body, r.Body)
	}
	return &Plan{
		ctx:    ctx,
		Method: method,
		URL:    u,
		Header: MergeHeader(c.Header, r.Header).HTTPHeader(),
		Body:   body,
	}
}

// joinURLPath appends resourcePath to urlPath with exactly one slash at
// the seam.
func joinURLPath(urlPath, resourcePath string) string {
	if resourcePath == "" {
		if urlPath == "" {
			return "/"
		}
		return urlPath
	}
	if !strings.HasSuffix(urlPath, "/") {
		urlPath += "/"
	}
	resourcePath = strings.TrimPrefix(resourcePath, "/")
	return urlPath + resourcePath
}

// Context returns the plan's context. The context controls
// cancellation of the plan execution. To change the context, use
// WithContext.
//
// The returned context is always non-nil; it defaults to the
// background context.
func (p *Plan) Context() context.Context {
	if p.ctx != nil {
		return p.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of p with its context changed to
// ctx, which must be non-nil.
func (p *Plan) WithContext(ctx context.Context) *Plan {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	p2 := new(Plan)
	*p2 = *p
	p2.ctx = ctx
	return p2
}

// AddingHeaders returns a copy of p whose header set is p's header set
// merged with h, the fields in h winning on collision. If h is empty, p
// itself is returned.
func (p *Plan) AddingHeaders(h Header) *Plan {
	if len(h) == 0 {
		return p
	}
	p2 := p.clone()
	for f, v := range canonical(h) {
		p2.Header[string(f)] = []string{v}
	}
	return p2
}

// AddingQuery returns a copy of p whose query string is p's query
// string merged with q, the parameters in q winning on collision. A nil
// value in q removes the parameter. The resulting query string is
// sorted by parameter name; values sharing a name keep their original
// order. If q is empty, p itself is returned.
func (p *Plan) AddingQuery(q Query) *Plan {
	if len(q) == 0 {
		return p
	}
	p2 := p.clone()
	values := p2.URL.Query()
	for k, v := range q {
		if v == nil {
			values.Del(k)
		} else {
			values.Set(k, fmt.Sprint(v))
		}
	}
	p2.URL.RawQuery = values.Encode()
	return p2
}

func (p *Plan) clone() *Plan {
	p2 := new(Plan)
	*p2 = *p
	u := *p.URL
	p2.URL = &u
	p2.Header = p.Header.Clone()
	if p2.Header == nil {
		p2.Header = make(http.Header)
	}
	return p2
}

// ToRequest creates an HTTP request corresponding to the given plan.
// The context of the new request is set to ctx, which may not be nil.
func (p *Plan) ToRequest(ctx context.Context) *http.Request {
	r := template.WithContext(ctx)
	r.Method = p.Method
	r.URL = p.URL
	r.Host = p.URL.Host
	r.Header = p.Header
	if len(p.Body) > 0 {
		r.Body = io.NopCloser(bytes.NewReader(p.Body))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(p.Body)), nil
		}
		r.ContentLength = int64(len(p.Body))
	}
	return r
}

// Key returns the canonical form of the wire request described by p.
// Two plans have the same key if, and only if, their methods, URLs,
// header sets, and bodies are equal.
func (p *Plan) Key() string {
	return key(p.Method, p.URL, p.Header, p.Body)
}

// Equal reports whether p and q describe the same wire request.
func (p *Plan) Equal(q *Plan) bool {
	return p.Key() == q.Key()
}

// KeyOf returns the canonical form of an outgoing HTTP request, which
// is equal to Plan.Key for the plan the request was made from.
//
// KeyOf reads the request body using GetBody if available, and
// otherwise by consuming Body and replacing it with an equivalent
// reader.
func KeyOf(r *http.Request) (string, error) {
	body, err := outgoingBody(r)
	if err != nil {
		return "", err
	}
	return key(r.Method, r.URL, r.Header, body), nil
}

func key(method string, u *urlpkg.URL, h http.Header, body []byte) string {
	var b strings.Builder
	if method == "" {
		method = string(GET)
	}
	b.WriteString(method)
	b.WriteByte(' ')
	if u != nil {
		b.WriteString(u.String())
	}
	b.WriteByte('\n')
	h2 := make(http.Header, len(h))
	for name, vs := range h {
		for _, v := range vs {
			h2.Add(name, v)
		}
	}
	names := make([]string, 0, len(h2))
	for name := range h2 {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, v := range h2[name] {
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(strconv.Quote(v))
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')
	b.Write(body)
	return b.String()
}

// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package stub

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/gogama/httpapi/request"
)

// A Registry is an HTTPDoer which answers requests with registered
// canned responses. The zero value is not usable; use New.
//
// A Registry is safe for concurrent use by multiple goroutines, so
// responses may be registered while requests are being served.
type Registry struct {
	// Codec encodes the values passed to StubJSON and StubEndpoint. If
	// nil, request.StdJSON is used. Set it to the codec the stubbed
	// endpoints were built with (see request.WithCodec) so their decode
	// functions can read the canned bodies.
	Codec request.Codec

	lock    sync.RWMutex
	entries map[string]entry
}

type entry struct {
	statusCode int
	header     http.Header
	body       []byte
}

// A MissError is the panic value raised by Registry.Do when no
// response is registered for a request.
type MissError struct {
	// Method is the method of the unmatched request.
	Method string
	// URL is the URL of the unmatched request.
	URL string
	// Key is the canonical form of the unmatched request, as returned
	// by request.KeyOf.
	Key string
}

func (err *MissError) Error() string {
	return fmt.Sprintf("httpapi/stub: no response registered for %s %s\n%s", err.Method, err.URL, err.Key)
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]entry),
	}
}

// Stub registers a response for the wire request described by p,
// replacing any response previously registered for it.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.BodyBytes, namely: string; []byte;
// io.Reader; and io.ReadCloser. A nil header means the response has no
// header fields.
func (r *Registry) Stub(p *request.Plan, statusCode int, header http.Header, body interface{}) error {
	b, err := request.BodyBytes(body)
	if err != nil {
		return err
	}
	r.put(p.Key(), entry{
		statusCode: statusCode,
		header:     header.Clone(),
		body:       b,
	})
	return nil
}

// StubJSON registers a response for the wire request described by p
// whose body is v encoded with the registry's Codec.
func (r *Registry) StubJSON(p *request.Plan, statusCode int, v interface{}) error {
	b, err := r.codec().Marshal(v)
	if err != nil {
		return &request.EncodingError{Err: err}
	}
	header := http.Header{}
	header.Set(string(request.ContentType), string(request.JSON))
	return r.Stub(p, statusCode, header, b)
}

// StubEndpoint registers a JSON response for the wire request a client
// with base URL base and configuration cfg would send for rq.
//
// If v is nil, the response has an empty body.
func (r *Registry) StubEndpoint(base *url.URL, rq request.Request, cfg request.Configuration, statusCode int, v interface{}) error {
	p := request.NewPlan(context.Background(), base, rq, cfg)
	if v == nil {
		return r.Stub(p, statusCode, nil, nil)
	}
	return r.StubJSON(p, statusCode, v)
}

func (r *Registry) codec() request.Codec {
	if r.Codec == nil {
		return request.StdJSON
	}
	return r.Codec
}

func (r *Registry) put(key string, e entry) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.entries[key] = e
}

// RemoveAll removes every registered response.
func (r *Registry) RemoveAll() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.entries = make(map[string]entry)
}

// Len returns the number of registered responses.
func (r *Registry) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.entries)
}

// Do answers req with the response registered for it. Each call returns
// a fresh response whose body may be read and closed independently.
//
// Do panics with a *MissError if no response is registered for req. If
// the request body cannot be read, Do returns the read error.
func (r *Registry) Do(req *http.Request) (*http.Response, error) {
	key, err := request.KeyOf(req)
	if err != nil {
		return nil, err
	}

	r.lock.RLock()
	e, ok := r.entries[key]
	r.lock.RUnlock()
	if !ok {
		panic(&MissError{
			Method: req.Method,
			URL:    req.URL.String(),
			Key:    key,
		})
	}

	header := e.header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set("Content-Length", strconv.Itoa(len(e.body)))
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.statusCode, http.StatusText(e.statusCode)),
		StatusCode:    e.statusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.body)),
		ContentLength: int64(len(e.body)),
		Request:       req,
	}, nil
}

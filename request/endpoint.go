// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

// A Method is an HTTP request method supported by Endpoint.
type Method string

// Supported HTTP methods.
const (
	GET    Method = "GET"
	POST   Method = "POST"
	PUT    Method = "PUT"
	PATCH  Method = "PATCH"
	DELETE Method = "DELETE"
)

// A Request describes one logical HTTP call to an API, relative to a
// base URL that is not yet known.
//
// Request is the untyped part of an Endpoint. It is all the information
// needed to build the wire request (see NewPlan), and nothing about how
// to interpret the response.
type Request struct {
	// Method specifies the HTTP method. An empty string means GET.
	Method Method

	// Path is appended to the base URL as a path component when the
	// wire request is built. A leading slash is optional.
	Path string

	// Header contains the request header fields specific to this
	// call. On collision they override the header fields of the client
	// configuration.
	Header Header

	// Query contains the query parameters specific to this call. On
	// collision they override the query parameters of the client
	// configuration.
	Query Query

	// Body is the pre-encoded request body. A nil or empty body means
	// no body is sent.
	Body []byte
}

// An Endpoint describes an HTTP API call together with the rules for
// decoding its response: Output decodes the body of a 2XX response and
// Error decodes the body of any other response.
//
// Endpoint values should be treated as immutable once constructed. The
// constructors in this package copy the maps they are given, so
// executing the same Endpoint twice always produces the same wire
// request.
//
// Decode functions must be pure functions of their input. A nil Output
// function means the success body is ignored and the zero O is the
// result. A nil Error function means error bodies are ignored and
// reported as absent.
type Endpoint[O, E any] struct {
	Request

	// Output decodes the body of a successful (2XX) response.
	Output func([]byte) (O, error)

	// Error decodes the non-empty body of an unsuccessful (non-2XX)
	// response.
	Error func([]byte) (E, error)
}

// An Option customizes an Endpoint built by one of the constructors in
// this package.
type Option func(*settings)

type settings struct {
	header Header
	query  Query
	codec  Codec
}

// WithHeader sets a single header field. It overrides the default
// Accept and Content-Type values set by the constructors.
func WithHeader(f HeaderField, value string) Option {
	return func(s *settings) {
		s.header = MergeHeader(s.header, Header{f: value})
	}
}

// WithHeaders sets header fields, overriding the constructor defaults
// and any earlier options for the same fields.
func WithHeaders(h Header) Option {
	return func(s *settings) {
		s.header = MergeHeader(s.header, h)
	}
}

// WithParam sets a single query parameter.
func WithParam(name string, value interface{}) Option {
	return func(s *settings) {
		s.query = MergeQuery(s.query, Query{name: value})
	}
}

// WithQuery sets query parameters, overriding earlier options for the
// same names.
func WithQuery(q Query) Option {
	return func(s *settings) {
		s.query = MergeQuery(s.query, q)
	}
}

// WithCodec sets the codec used to encode the request body and decode
// the response bodies. The default codec is StdJSON. Use a custom codec
// to handle, for example, a different date format.
func WithCodec(c Codec) Option {
	if c == nil {
		panic("httpapi/request: nil codec")
	}
	return func(s *settings) {
		s.codec = c
	}
}

func newSettings(defaults Header, opts []Option) *settings {
	s := &settings{
		header: MergeHeader(nil, defaults),
		query:  Query{},
		codec:  StdJSON,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func jsonDefaults[O any](body bool) Header {
	h := Header{}
	if !isEmpty[O]() {
		h[Accept] = string(JSON)
	}
	if body {
		h[ContentType] = string(JSON)
	}
	return h
}

// New constructs an Endpoint with no request body whose responses are
// decoded as JSON (or with the codec given by WithCodec).
//
// Unless O is Empty, the Accept header defaults to application/json.
func New[O, E any](method Method, path string, opts ...Option) Endpoint[O, E] {
	s := newSettings(jsonDefaults[O](false), opts)
	return Endpoint[O, E]{
		Request: Request{
			Method: method,
			Path:   path,
			Header: s.header,
			Query:  s.query,
		},
		Output: Decoder[O](s.codec),
		Error:  Decoder[E](s.codec),
	}
}

// NewWithBody constructs an Endpoint whose request body is body encoded
// as JSON (or with the codec given by WithCodec). Encoding happens
// once, immediately. If body cannot be encoded, the returned error is
// an *EncodingError.
//
// The Content-Type header defaults to application/json and, unless O
// is Empty, the Accept header defaults to application/json.
func NewWithBody[O, E any](method Method, path string, body interface{}, opts ...Option) (Endpoint[O, E], error) {
	s := newSettings(jsonDefaults[O](true), opts)
	b, err := s.codec.Marshal(body)
	if err != nil {
		return Endpoint[O, E]{}, &EncodingError{Err: err}
	}
	return Endpoint[O, E]{
		Request: Request{
			Method: method,
			Path:   path,
			Header: s.header,
			Query:  s.query,
			Body:   b,
		},
		Output: Decoder[O](s.codec),
		Error:  Decoder[E](s.codec),
	}, nil
}

// Get constructs a GET Endpoint. See New.
func Get[O, E any](path string, opts ...Option) Endpoint[O, E] {
	return New[O, E](GET, path, opts...)
}

// Post constructs a POST Endpoint with no body. See New.
func Post[O, E any](path string, opts ...Option) Endpoint[O, E] {
	return New[O, E](POST, path, opts...)
}

// PostBody constructs a POST Endpoint with an encoded body. See
// NewWithBody.
func PostBody[O, E any](path string, body interface{}, opts ...Option) (Endpoint[O, E], error) {
	return NewWithBody[O, E](POST, path, body, opts...)
}

// Put constructs a PUT Endpoint with no body. See New.
func Put[O, E any](path string, opts ...Option) Endpoint[O, E] {
	return New[O, E](PUT, path, opts...)
}

// PutBody constructs a PUT Endpoint with an encoded body. See
// NewWithBody.
func PutBody[O, E any](path string, body interface{}, opts ...Option) (Endpoint[O, E], error) {
	return NewWithBody[O, E](PUT, path, body, opts...)
}

// Patch constructs a PATCH Endpoint with no body. See New.
func Patch[O, E any](path string, opts ...Option) Endpoint[O, E] {
	return New[O, E](PATCH, path, opts...)
}

// PatchBody constructs a PATCH Endpoint with an encoded body. See
// NewWithBody.
func PatchBody[O, E any](path string, body interface{}, opts ...Option) (Endpoint[O, E], error) {
	return NewWithBody[O, E](PATCH, path, body, opts...)
}

// Delete constructs a DELETE Endpoint with no body. See New.
func Delete[O, E any](path string, opts ...Option) Endpoint[O, E] {
	return New[O, E](DELETE, path, opts...)
}

// DeleteBody constructs a DELETE Endpoint with an encoded body. See
// NewWithBody.
func DeleteBody[O, E any](path string, body interface{}, opts ...Option) (Endpoint[O, E], error) {
	return NewWithBody[O, E](DELETE, path, body, opts...)
}

// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpapi

import (
	"context"
	"errors"

	"github.com/gogama/httpapi/request"
)

// Planner is the interface that wraps the basic Plan method.
//
// Plan builds the wire request for a request description. Client
// implements the Planner interface, and any other Planner
// implementation must behave substantially the same as Client.Plan.
type Planner interface {
	Plan(ctx context.Context, r request.Request) *request.Plan
}

// Doer is the interface that wraps the basic Do method.
//
// Do executes an HTTP request plan and returns the final execution
// state (and error, if any). Client implements the Doer interface,
// and any other Doer implementation must behave substantially the same
// as Client.Do. In particular, Do must run the plan's Decode function,
// if any, once the response body has been read.
type Doer interface {
	Do(p *request.Plan) (*request.Execution, error)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes any idle which were previously connected from previous
// requests but are now sitting idle in a "keep-alive" state. It does
// not interrupt any connections currently in use.
//
// If the underlying implementation does not support this ability,
// CloseIdleConnections does nothing.
type IdleCloser interface {
	CloseIdleConnections()
}

// Executor is the interface that groups the basic Plan and Do methods.
// Executor is all Execute needs to run a typed Endpoint.
type Executor interface {
	Planner
	Doer
}

// Execute runs the endpoint ep through executor x and returns its
// decoded output.
//
// The wire request is built by x.Plan with context ctx, and sent by
// x.Do. Each call to Execute sends exactly one request and has exactly
// one outcome:
//
// • If no HTTP response was obtained (connection failure, timeout,
// cancellation of ctx), the error is an *Error[E] of kind
// TransportError wrapping the underlying cause.
//
// • If the status code is in [200, 300), the body is decoded with
// ep.Output. On success the output and a nil error are returned;
// otherwise the error is an *Error[E] of kind DecodingError.
//
// • Otherwise, if the body is empty, the error is an *Error[E] of kind
// APIError with a nil Body; ep.Error is not called. If the body is not
// empty, it is decoded with ep.Error: on success the error is an
// *Error[E] of kind APIError with Body pointing to the decoded value,
// and on failure it is an *Error[E] of kind DecodingError.
//
// Status codes in the 3XX range are API errors. Redirects, if any, are
// followed by the HTTPDoer before the response reaches Execute.
//
// Whenever the returned error is non-nil, the returned output is the
// zero value of O.
func Execute[O, E any](ctx context.Context, x Executor, ep request.Endpoint[O, E]) (O, error) {
	var out O
	p := x.Plan(ctx, ep.Request)
	p.Decode = func(e *request.Execution) error {
		var err error
		out, err = classify(e, ep)
		return err
	}

	_, err := x.Do(p)
	if err == nil {
		return out, nil
	}

	var zero O
	var apiErr *Error[E]
	if errors.As(err, &apiErr) {
		return zero, apiErr
	}
	return zero, &Error[E]{Kind: TransportError, Err: err}
}

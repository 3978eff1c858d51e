// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/httpapi/transient"
)

// An Execution represents the state of a single Plan execution.
//
// When a Plan is executed, an Execution is created for it. The
// Execution is updated as the execution progresses (for example when
// the HTTP response becomes available, or when the response has been
// decoded) and is ultimately returned as return value of the
// execution.
//
// Timeout policies and event handlers may set values on an Execution
// using its SetValue method and read them back using the Value method.
// However, they should treat the structure's exported field values as
// immutable and leave them unmodified. A limited exception is making
// reasonable changes to the http.Request before it is sent (for
// example, to sign it).
type Execution struct {
	// Plan specifies the wire request being executed. It is never nil.
	Plan *Plan

	// Start is the start time of the execution. It is assigned a
	// non-zero value when the execution starts, and this value remains
	// constant thereafter.
	Start time.Time

	// End is the end time of the execution. It contains the zero value
	// until the execution ends, when it is set to the current time.
	End time.Time

	// Request specifies the HTTP request to be sent, or already sent.
	Request *http.Request

	// Response specifies the HTTP response received. It is nil if the
	// request ended in a transport error, or before the response has
	// been received.
	Response *http.Response

	// Err indicates the error, if any, of the execution.
	//
	// Until the response body has been read, Err is either nil or a
	// transport error of type *url.Error. After the plan's Decode
	// function runs, Err holds its result, so after a successful
	// exchange Err is nil if the response was decoded into the
	// expected output, and otherwise describes why it was not.
	Err error

	// Body is the complete response body. It is nil if the request
	// ended in a transport error.
	//
	// Note that it is possible that both Body and Err are non-nil, if
	// a read of the body was partially successful or the body could
	// not be decoded.
	Body []byte

	// data holds arbitrary user data. Event handlers may interact with
	// it via the Value and SetValue methods.
	data context.Context
}

// StatusCode returns the status code of the HTTP response. If there is
// no HTTP response, 0 is returned.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the HTTP response headers. If there is no HTTP
// response, the nil header is returned.
//
// Note that a nil return value is always safe for read-only operations,
// since http.Header is a map type.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}

	return e.Response.Header
}

// Duration returns the duration of the execution.
//
// If the execution has not yet started, the duration is zero. If the
// execution has Ended, the duration returned is equal to End minus
// Start. Otherwise, it is equal to the current time minus Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the execution has ended. If it has, there
// will be no further changes to the execution.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err currently contains a non-nil value
// which indicates a timeout, either because the client's timeout
// policy expired or because the plan context's deadline was exceeded.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// SetValue allows event handlers to store arbitrary data in the
// execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue, namely it:
//
// • it may not be nil;
//
// • it must be comparable;
//
// • it should not be of type string or any other built-in type to avoid
// collisions between different event handlers putting data into the
// same execution.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}

// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gogama/httpapi/request"
	"github.com/gogama/httpapi/transient"
)

// A Kind classifies the outcome of executing an Endpoint.
type Kind int

const (
	// OK indicates the call succeeded and its output was decoded.
	OK Kind = iota
	// TransportError indicates no HTTP response was obtained: the
	// request could not be sent, the connection failed, the body could
	// not be read, or the call timed out or was cancelled.
	TransportError
	// DecodingError indicates a response was obtained but its body
	// could not be decoded into the expected type.
	DecodingError
	// APIError indicates the server answered with a status code outside
	// the 2XX range.
	APIError
)

var kindNames = []string{
	"OK",
	"TransportError",
	"DecodingError",
	"APIError",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// An Error is returned by Execute when a call does not produce its
// expected output. The type parameter E is the decoded error body type
// of the Endpoint.
//
// Use errors.As to recover an Error from the error returned by Execute:
//
//	var apiErr *httpapi.Error[MyErrorBody]
//	if errors.As(err, &apiErr) && apiErr.Kind == httpapi.APIError {
//		...
//	}
type Error[E any] struct {
	// Kind classifies the failure.
	Kind Kind

	// StatusCode is the HTTP status code of the response. It is zero
	// for transport errors.
	StatusCode int

	// Body is the decoded error body of an API error. It is nil if the
	// response carried no body, if the Endpoint ignores error bodies,
	// and for every other kind of error.
	Body *E

	// Err is the underlying cause. For transport errors it is a
	// *url.Error, for decoding errors it is the error returned by the
	// decode function, and for API errors it is nil.
	Err error
}

func (err *Error[E]) Error() string {
	switch err.Kind {
	case APIError:
		return fmt.Sprintf("httpapi: API error: %d %s", err.StatusCode, http.StatusText(err.StatusCode))
	case DecodingError:
		return fmt.Sprintf("httpapi: decoding error (status %d): %v", err.StatusCode, err.Err)
	default:
		return fmt.Sprintf("httpapi: %s: %v", err.Kind, err.Err)
	}
}

// Unwrap returns the underlying cause.
func (err *Error[E]) Unwrap() error {
	return err.Err
}

// ErrorKind returns the kind of the error. It allows KindOf to classify
// errors without knowing their error body type.
func (err *Error[E]) ErrorKind() Kind {
	return err.Kind
}

// Timeout indicates whether the error is a transport error caused by a
// timeout.
func (err *Error[E]) Timeout() bool {
	return err.Kind == TransportError && transient.Categorize(err.Err) == transient.Timeout
}

type kinded interface {
	ErrorKind() Kind
}

// KindOf classifies an error returned by Execute or Client.Do. A nil
// error is OK. Errors which do not carry a Kind are transport errors.
func KindOf(err error) Kind {
	if err == nil {
		return OK
	}
	var k kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return TransportError
}

func classify[O, E any](e *request.Execution, ep request.Endpoint[O, E]) (O, error) {
	var zero O
	status := e.StatusCode()
	if status >= 200 && status < 300 {
		if ep.Output == nil {
			return zero, nil
		}
		out, err := ep.Output(e.Body)
		if err != nil {
			return zero, &Error[E]{Kind: DecodingError, StatusCode: status, Err: err}
		}
		return out, nil
	}

	if len(e.Body) == 0 || ep.Error == nil {
		return zero, &Error[E]{Kind: APIError, StatusCode: status}
	}
	body, err := ep.Error(e.Body)
	if err != nil {
		return zero, &Error[E]{Kind: DecodingError, StatusCode: status, Err: err}
	}
	return zero, &Error[E]{Kind: APIError, StatusCode: status, Body: &body}
}

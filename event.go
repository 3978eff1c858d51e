// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpapi

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend it with custom
// functionality.
type Event int

const (
	// BeforeExecutionStart identifies the event that occurs before the
	// plan execution starts.
	//
	// When Client fires BeforeExecutionStart, the execution is
	// non-nil but the only field that has been set is the plan.
	BeforeExecutionStart Event = iota
	// BeforeSend identifies the event that occurs before the HTTP
	// request is sent.
	//
	// When Client fires BeforeSend, the execution's request field is
	// set to the HTTP request that WILL BE sent after all BeforeSend
	// handlers have finished.
	//
	// BeforeSend handlers may modify the execution's request, or some
	// of its fields, thus changing the HTTP request that will be sent.
	// However, BeforeSend handlers should clone request fields which
	// have reference types (URL and Header) before changing them to
	// avoid side effects, as these fields initially reference the
	// same-named fields in the plan.
	//
	// BeforeSend does not fire if the plan context was already done
	// when the execution started.
	BeforeSend
	// BeforeReadBody identifies the event that occurs after the HTTP
	// request has resulted in an HTTP response (as opposed to an error)
	// but before the response body is read and buffered.
	//
	// When Client fires BeforeReadBody, the execution's response field
	// is set to the HTTP response whose body WILL BE read after all
	// BeforeReadBody handlers have finished.
	//
	// Note that BeforeReadBody never fires if the HTTP request ended in
	// error, but always fires if an HTTP response is received,
	// regardless of HTTP response status code, and regardless of
	// whether there is a non-empty body in the response.
	BeforeReadBody
	// AfterTimeout identifies the event that occurs after the HTTP
	// request failed because of a timeout error, either because the
	// timeout policy expired or because the plan context's deadline was
	// exceeded.
	//
	// When Client fires AfterTimeout, the execution's error field is
	// set to the timeout error.
	AfterTimeout
	// AfterReceive identifies the event that occurs after the HTTP
	// request is concluded, regardless of whether it concluded
	// successfully or not, and before the response is decoded.
	//
	// When Client fires AfterReceive, either the execution's response
	// field or its error field OR BOTH may be set to non-nil values,
	// but it will never be the case that both are nil. The response
	// will only be non-nil when the error is also non-nil if there was
	// an error reading the response body.
	AfterReceive
	// AfterDecode identifies the event that occurs after the plan's
	// Decode function has run.
	//
	// When Client fires AfterDecode, the execution's error field holds
	// the result of the Decode function. AfterDecode only fires if the
	// plan has a Decode function and the response body was read
	// successfully.
	AfterDecode
	// AfterExecutionEnd identifies the event that occurs after the plan
	// execution ends.
	//
	// When Client fires AfterExecutionEnd, the execution is in its
	// final state and the end time is set to the time the execution
	// ended.
	AfterExecutionEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeSend",
	"BeforeReadBody",
	"AfterTimeout",
	"AfterReceive",
	"AfterDecode",
	"AfterExecutionEnd",
}

// Events returns a slice containing all events which can occur in an
// HTTP request plan execution by Client, in the order in which
// they would occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeSend,
		BeforeReadBody,
		AfterTimeout,
		AfterReceive,
		AfterDecode,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}

// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/httpapi/request"
)

// A Policy defines a timeout policy which may be plugged into the HTTP
// API client (httpapi.Client) to direct how to set the timeout of each
// call.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout to set on the HTTP request about to
	// be sent.
	//
	// Parameter e contains the current state of the execution. Its
	// Plan field describes the wire request.
	Timeout(e *request.Execution) time.Duration
}

// DefaultCallTimeout is the timeout set by DefaultPolicy.
const DefaultCallTimeout = 60 * time.Second

// DefaultPolicy is the default timeout policy. It sets a fixed timeout
// of DefaultCallTimeout on each call.
var DefaultPolicy Policy = Fixed(DefaultCallTimeout)

// Infinite is a built-in timeout policy which never times out. Calls
// made under this policy can still be cancelled, or time out, through
// the plan context.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed constructs a timeout policy that uses the same value to set
// every call timeout.
func Fixed(d time.Duration) Policy {
	return fixed(d)
}

type fixed time.Duration

func (f fixed) Timeout(_ *request.Execution) time.Duration {
	return time.Duration(f)
}

// ByMethod constructs a timeout policy that chooses the timeout based
// on the HTTP method of the wire request. Methods not present in
// byMethod use usual.
//
// Consider the following timeout policy:
//
//	p := ByMethod(5*time.Second, map[request.Method]time.Duration{
//		request.POST: 30 * time.Second,
//	})
//
// The policy p gives POST calls, which may upload a large body, 30
// seconds and every other call 5 seconds.
func ByMethod(usual time.Duration, byMethod map[request.Method]time.Duration) Policy {
	m := make(map[string]time.Duration, len(byMethod))
	for method, d := range byMethod {
		m[string(method)] = d
	}
	return methodPolicy{usual: usual, byMethod: m}
}

type methodPolicy struct {
	usual    time.Duration
	byMethod map[string]time.Duration
}

func (p methodPolicy) Timeout(e *request.Execution) time.Duration {
	if e.Plan != nil {
		if d, ok := p.byMethod[e.Plan.Method]; ok {
			return d
		}
	}
	return p.usual
}

// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpapi

import (
	"fmt"

	"github.com/gogama/httpapi/request"
)

// A HandlerGroup holds one chain of event handlers per Event. Set it as
// a Client's Handlers to observe the client's executions; the logging
// and metrics packages install their handlers this way.
//
// The zero value is an empty group. Add every handler before the group
// is used by a Client: after that, a HandlerGroup may be shared by any
// number of goroutines but must not be modified.
type HandlerGroup struct {
	chains [numEvents][]Handler
}

// PushBack appends h to the chain for evt. Handlers in a chain run in
// the order they were added.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("httpapi: nil handler")
	}
	if evt < 0 || int(evt) >= numEvents {
		panic(fmt.Sprintf("httpapi: invalid event %d", int(evt)))
	}
	g.chains[evt] = append(g.chains[evt], h)
}

// PushBackFunc appends f to the chain of each event in evts.
func (g *HandlerGroup) PushBackFunc(f HandlerFunc, evts ...Event) {
	if f == nil {
		panic("httpapi: nil handler")
	}
	for _, evt := range evts {
		g.PushBack(evt, f)
	}
}

// Len returns the number of handlers in the chain for evt.
func (g *HandlerGroup) Len(evt Event) int {
	if g == nil || evt < 0 || int(evt) >= numEvents {
		return 0
	}
	return len(g.chains[evt])
}

// run calls the chain for evt. A nil group has no handlers.
func (g *HandlerGroup) run(evt Event, e *request.Execution) {
	if g == nil {
		return
	}
	for _, h := range g.chains[evt] {
		h.Handle(evt, e)
	}
}

// A Handler is called when an event occurs during an execution. It may
// inspect the execution and store values on it with SetValue.
type Handler interface {
	Handle(Event, *request.Execution)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(Event, *request.Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Execution) {
	f(evt, e)
}

// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gogama/httpapi/request"
	"github.com/gogama/httpapi/timeout"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

var errNilResponse = errors.New("httpapi: HTTPDoer returned nil response and nil error")

// A Client executes HTTP API calls against a base URL. Its zero value
// is a valid configuration.
//
// The zero value client has an empty base URL (so endpoint paths are
// used as-is), an empty configuration, and uses http.DefaultClient
// (from net/http) as the HTTPDoer, timeout.DefaultPolicy as the timeout
// policy, and an empty handler group (no event handlers/plug-ins).
//
// Client's HTTPDoer typically has an internal state (cached TCP
// connections) so Client instances should be reused instead of created
// as needed. Client is safe for concurrent use by multiple goroutines
// provided its fields are not modified after first use.
//
// A Client is higher-level than an HTTPDoer. The HTTPDoer is responsible
// for all details of sending the HTTP request and receiving the
// response, including redirects, connection pooling, and TLS, while
// Client builds on top of the HTTPDoer's feature set:
//
// • Client builds the wire request for an endpoint by joining its path
// to the base URL and merging its header fields and query parameters
// over the client configuration;
//
// • Client reads and buffers the entire HTTP response body into a
// []byte (returned as the Execution.Body field);
//
// • Client sets the call timeout using a customizable timeout policy;
//
// • Client invokes user-provided handler functions at designated
// plug-in points during execution, allowing new features (such as
// logging and metrics) to be mixed in from outside packages; and
//
// • Client implements the httpapi.Executor interface, so it can
// execute typed endpoints via the Execute function.
//
// Client makes exactly one HTTP request per execution. It never
// retries, caches, or de-duplicates requests.
type Client struct {
	// BaseURL is the URL endpoint paths are joined to. If BaseURL is
	// nil, endpoint paths are used as-is.
	BaseURL *url.URL
	// Configuration holds the header fields and query parameters added
	// to every request. Endpoint header fields and query parameters
	// override it on collision.
	Configuration request.Configuration
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If HTTPDoer is nil, http.DefaultClient from the standard net/http
	// package is used.
	HTTPDoer HTTPDoer
	// TimeoutPolicy specifies how to set the timeout on each call.
	//
	// If TimeoutPolicy is nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during execution of a request plan.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
}

// New returns a Client for the API rooted at baseURL, which must be an
// absolute URL, adding the header fields and query parameters of cfg to
// every request.
func New(baseURL string, cfg request.Configuration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("httpapi: base URL %q is not absolute", baseURL)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		BaseURL:       u,
		Configuration: cfg,
	}, nil
}

// Plan builds the wire request for r against the client's base URL and
// configuration. The returned plan has context ctx, which may not be
// nil.
//
// See request.NewPlan for the details of how the wire request is
// built.
func (c *Client) Plan(ctx context.Context, r request.Request) *request.Plan {
	return request.NewPlan(ctx, c.BaseURL, r, c.Configuration)
}

// Do executes an HTTP request plan and returns the results, following
// the timeout policy set on Client, and low-level policy set on the
// underlying HTTPDoer.
//
// Do sends exactly one HTTP request. If the request results in an HTTP
// response, Do reads the whole response body and, if the plan has a
// Decode function, runs it.
//
// An error is returned if the request could not be completed, for
// example due to a network connectivity problem, a timeout, or
// cancellation of the plan context, or if the plan's Decode function
// returned an error. A non-2XX status code does not by itself result
// in an error; interpreting the status is the job of the plan's Decode
// function (see Execute).
//
// The returned Execution is never nil. If an error was returned, the
// Err field of the Execution always references the same error. Errors
// not returned by the plan's Decode function are of type *url.Error.
// The url.Error's Timeout method, and the Execution's Timeout method,
// will return true if the call timed out.
func (c *Client) Do(p *request.Plan) (*request.Execution, error) {
	if p == nil {
		panic("httpapi: nil plan")
	}

	e := request.Execution{
		Plan: p,
	}

	timeoutPolicy := c.TimeoutPolicy
	if timeoutPolicy == nil {
		timeoutPolicy = timeout.DefaultPolicy
	}

	handlers := c.Handlers
	handlers.run(BeforeExecutionStart, &e)
	e.Start = time.Now()

	if err := p.Context().Err(); err != nil {
		e.Err = urlErrorWrap(p, err)
	} else {
		sendAndReceive(p, &e, c.doer(), handlers, timeoutPolicy)
	}
	if e.Timeout() {
		handlers.run(AfterTimeout, &e)
	}
	handlers.run(AfterReceive, &e)
	if e.Err == nil && p.Decode != nil {
		e.Err = p.Decode(&e)
		handlers.run(AfterDecode, &e)
	}

	e.End = time.Now()
	handlers.run(AfterExecutionEnd, &e)
	return &e, e.Err
}

func sendAndReceive(p *request.Plan, e *request.Execution, doer HTTPDoer, handlers *HandlerGroup, timeoutPolicy timeout.Policy) {
	ctx, cancel := context.WithTimeout(p.Context(), timeoutPolicy.Timeout(e))
	defer cancel()
	e.Request = p.ToRequest(ctx)
	handlers.run(BeforeSend, e)
	var err error
	e.Response, err = doer.Do(e.Request)
	if err != nil {
		e.Response = nil
		e.Err = urlErrorWrap(p, err)
	} else if e.Response == nil {
		e.Err = urlErrorWrap(p, errNilResponse)
	} else {
		readBody(p, e, handlers)
	}
}

func readBody(p *request.Plan, e *request.Execution, handlers *HandlerGroup) {
	handlers.run(BeforeReadBody, e)
	body := e.Response.Body
	if body == nil {
		e.Body = []byte{}
		return
	}
	defer func() {
		_ = body.Close()
	}()
	var err error
	e.Body, err = io.ReadAll(body)
	if err != nil {
		e.Err = urlErrorWrap(p, err)
	}
}

// CloseIdleConnections invokes the same method on the client's
// underlying HTTPDoer.
//
// If the HTTPDoer has no CloseIdleConnections method, this method does
// nothing.
//
// If the HTTPDoer does have a CloseIdleConnections method, then the
// effect of this method depends entirely on its implementation in the
// HTTPDoer. For example, the http.Client type forwards the call to its
// Transport, but only if the Transport itself has a CloseIdleConnections
// method (otherwise it does nothing).
func (c *Client) CloseIdleConnections() {
	doer := c.doer()
	if ic, ok := doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) doer() HTTPDoer {
	if c.HTTPDoer == nil {
		return http.DefaultClient
	}

	return c.HTTPDoer
}

func urlErrorWrap(p *request.Plan, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(p.Method),
		URL: p.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}

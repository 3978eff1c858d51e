// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types for describing HTTP API calls:
Endpoint (describes a call and how to decode its response), Plan (the
wire request derived from an Endpoint), and Execution (describes a Plan
execution).

The first core type is Endpoint, which describes one HTTP API call
independently of the server it is sent to. An Endpoint holds the method,
a path relative to a base URL, header fields, query parameters, an
optional pre-encoded body, and two decode functions: one for the body of
a successful (2XX) response, one for the body of any other response.

Build an Endpoint using one of the generic constructors:

	type User struct{ Name string }
	type APIError struct{ Message string }

	ep := request.Get[User, APIError]("/user",
		request.WithParam("api_key", "test"))

	ep, err := request.PostBody[User, APIError]("/users", User{Name: "gonzalezreal"})
	if err != nil {
		// *request.EncodingError: the body could not be encoded
	}

Use Empty as the output type when the success response has no body:

	ep := request.Delete[request.Empty, APIError]("/users/42")

The second core type is Plan, which represents a fully resolved wire
request. NewPlan derives a Plan from a Request, a base URL, and a client
Configuration. The Configuration's header fields and query parameters
are merged beneath the Request's own (see MergeHeader and MergeQuery),
and the query string is sorted by parameter name, so deriving a Plan is
deterministic.

The third core type is Execution, which represents the state of the
execution of a Plan. Execution is both the output type of
httpapi.Client's Do method and the input type for callbacks invoked
during execution: timeout policies and event handlers. You will
typically not allocate Execution instances yourself, but will instead
work with the ones handed out by the client.
*/
package request

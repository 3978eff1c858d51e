// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package httpapi provides a declarative HTTP API client. Describe each
API call as a request.Endpoint value, then execute it against a base
URL to obtain a strongly-typed result or a classified error.

Create a Client to begin making calls.

	client, err := httpapi.New("https://api.example.com/v1", request.Configuration{
		Header: request.Header{request.Authorization: "Bearer 3xpo"},
		Query:  request.Query{"api_key": "test"},
	})
	...
	ep := request.Get[User, APIError]("/users/42")
	user, err := httpapi.Execute(ctx, client, ep)

Execute returns an *Error[E] whenever the call does not produce its
expected output. Inspect its Kind to tell transport failures, decoding
failures, and API errors apart:

	var apiErr *httpapi.Error[APIError]
	if errors.As(err, &apiErr) && apiErr.Kind == httpapi.APIError {
		log.Printf("status %d: %+v", apiErr.StatusCode, apiErr.Body)
	}

For control over how the client sends HTTP requests and receives HTTP
responses, use a custom HTTPDoer. For example, use a GoLang standard
HTTP client:

	doer := &http.Client{
		..., // See package "net/http" for detailed documentation
	}
	client.HTTPDoer = doer

In tests, use a stub.Registry as the HTTPDoer to answer requests with
canned responses without touching the network.

For control over the client's call timeouts, set a custom timeout policy
using package timeout:

	client.TimeoutPolicy = timeout.Fixed(10*time.Second)

To hook into the fine-grained details of the client's request execution
logic, install a handler into the appropriate handler chain:

	handlers := &httpapi.HandlerGroup{}
	handlers.PushBack(httpapi.BeforeSend, httpapi.HandlerFunc(
		func(_ httpapi.Event, e *request.Execution) {
			log.Printf("Sending %s", e.Request.URL.String())
		})
	)
	client.Handlers = handlers

Packages logging and metrics provide ready-made handlers.
*/
package httpapi

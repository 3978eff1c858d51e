// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package stub provides a deterministic HTTP test double for API clients.

A Registry maps wire requests to canned responses. Install it as the
HTTPDoer of an httpapi.Client and register a response for every
request the code under test is expected to make:

	reg := stub.New()
	base, _ := url.Parse("https://example.com/api")
	err := reg.StubEndpoint(base, ep.Request, cfg, 200, User{Name: "Gonzalo"})
	...
	client := &httpapi.Client{BaseURL: base, Configuration: cfg, HTTPDoer: reg}

Requests are matched on the whole wire request: method, URL (including
the sorted query string), every header field, and the body bytes. A
request for which no response is registered is a fatal test
misconfiguration: the Registry panics with a *MissError instead of
returning an error or falling through to the network.
*/
package stub

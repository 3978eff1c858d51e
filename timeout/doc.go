// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines policies for setting the timeout of an API
// call executed by httpapi.Client. A generic interface for timeout
// policies is provided, Policy, along with several useful policy
// generating functions and built-in policies.
//
// The timeout set by a Policy applies to the whole call, from sending
// the request to reading the last byte of the response body. It is
// independent of any deadline on the plan's context: whichever expires
// first ends the call with a timeout error.
package timeout

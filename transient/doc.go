// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient categorizes transport errors, the errors that occur
// below the HTTP request/response boundary while executing an API call.
// This is handy for deciding whether a caller-level retry makes sense,
// and for other purposes such as bucketing error metrics.
//
// Package transient is extremely lightweight, as it depends only on
// the standard library packages "context", "errors" and "syscall", so it
// doesn't bring any significant dependencies when imported as a
// standalone package.
package transient

// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// BodyBytes returns the bytes of a raw body given as nil, a string, a
// []byte or an io.Reader. It is how canned and pre-encoded bodies enter
// the package.
//
// A reader is read to the end, then closed if it is an io.Closer. If
// reading or closing fails, BodyBytes returns a nil slice and the
// first error. Any other body type is an error.
//
// BodyBytes never encodes. Use a Codec to turn a value into a body.
func BodyBytes(body interface{}) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	case io.Reader:
		return readAll(x)
	default:
		return nil, fmt.Errorf("httpapi/request: invalid body type %T (use nil, string, []byte or io.Reader)", body)
	}
}

func readAll(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(r)
	if c, ok := r.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// outgoingBody returns the body of an outgoing request without using it
// up. GetBody is used when set. Otherwise Body is drained and replaced
// with a reader over the same bytes.
func outgoingBody(r *http.Request) ([]byte, error) {
	if r.GetBody != nil {
		rc, err := r.GetBody()
		if err != nil {
			return nil, err
		}
		return readAll(rc)
	}
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	b, err := readAll(r.Body)
	if err != nil {
		return nil, err
	}
	r.Body = io.NopCloser(bytes.NewReader(b))
	return b, nil
}

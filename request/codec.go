// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
)

// A Codec encodes request bodies and decodes response bodies.
//
// Implementations must be safe for concurrent use by multiple
// goroutines, since decode functions built from a Codec may run on any
// goroutine executing an Endpoint.
type Codec interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// StdJSON is the default Codec. It uses the standard library
// encoding/json package.
var StdJSON Codec = stdJSON{}

// JSONIter is a Codec backed by json-iterator, configured to be 100%
// compatible with encoding/json.
var JSONIter Codec = jsoniter.ConfigCompatibleWithStandardLibrary

type stdJSON struct{}

func (stdJSON) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (stdJSON) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// An EncodingError is returned when a request body cannot be
// serialized while constructing an Endpoint, for example because it
// contains a non-finite float or a channel.
type EncodingError struct {
	Err error
}

func (err *EncodingError) Error() string {
	return "httpapi/request: encode body: " + err.Err.Error()
}

func (err *EncodingError) Unwrap() error {
	return err.Err
}

// Empty is the unit type. Use it as the output or error type parameter
// of an Endpoint whose response body carries no information, for
// example a 204 No Content success.
//
// Decode functions built by this package never parse bytes into an
// Empty; they ignore the body entirely.
type Empty struct{}

func isEmpty[T any]() bool {
	var v T
	_, ok := interface{}(v).(Empty)
	return ok
}

// Decoder returns a decode function which unmarshals bytes into a T
// using codec c. If T is Empty, the returned function ignores its input
// and never fails.
func Decoder[T any](c Codec) func([]byte) (T, error) {
	if isEmpty[T]() {
		return func([]byte) (T, error) {
			var v T
			return v, nil
		}
	}
	return func(data []byte) (T, error) {
		var v T
		err := c.Unmarshal(data, &v)
		return v, err
	}
}

// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/net/http/httpguts"
)

// Configuration contains the header fields and query parameters a
// client adds to every request it makes. The header fields and query
// parameters of an individual Request override the Configuration on
// collision.
//
// The zero value is an empty configuration.
type Configuration struct {
	// Header holds header fields added to every request.
	Header Header

	// Query holds query parameters added to every request.
	Query Query
}

// Validate reports an error if any header field in c has an invalid
// name or value. Fields are checked in sorted order after resolving
// spellings of the same field, as MergeHeader does.
func (c Configuration) Validate() error {
	h := canonical(c.Header)
	for _, f := range h.Fields() {
		if !f.Valid() {
			return fmt.Errorf("httpapi/request: invalid header field name %q", f)
		}
		if !httpguts.ValidHeaderFieldValue(h[f]) {
			return fmt.Errorf("httpapi/request: invalid value for header field %q", f)
		}
	}
	return nil
}

// ParseConfiguration decodes a Configuration from a TOML document
// such as:
//
//	[headers]
//	Authorization = "Bearer 3xpo"
//
//	[query]
//	api_key = "test"
//	page_size = 50
//
// The parsed configuration is validated before being returned.
func ParseConfiguration(data []byte) (Configuration, error) {
	var raw struct {
		Headers map[string]string      `toml:"headers"`
		Query   map[string]interface{} `toml:"query"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Configuration{}, fmt.Errorf("httpapi/request: parse configuration: %w", err)
	}

	c := Configuration{}
	if len(raw.Headers) > 0 {
		c.Header = make(Header, len(raw.Headers))
		for f, v := range raw.Headers {
			c.Header[HeaderField(f)] = v
		}
	}
	if len(raw.Query) > 0 {
		c.Query = Query(raw.Query)
	}
	if err := c.Validate(); err != nil {
		return Configuration{}, err
	}
	return c, nil
}

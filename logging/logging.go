// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package logging logs the requests sent and responses received by an
// httpapi.Client at debug level.
//
// Install the logging event handlers into a handler group:
//
//	handlers := &httpapi.HandlerGroup{}
//	logging.Install(handlers, log.WithField("api", "users"))
//	client.Handlers = handlers
//
// A request is logged as:
//
//	[REQUEST] POST https://example.com/users
//	 ├─ Headers
//	 │ Content-Type: application/json
//	 ├─ Body
//	  {
//	    "name": "gonzalezreal"
//	  }
//
// and a response as:
//
//	[RESPONSE] 201 https://example.com/users
//	 ├─ Headers
//	 │ Content-Type: application/json
//	 ├─ Content
//	  {
//	    "id": 42
//	  }
//
// JSON bodies are pretty-printed with their keys sorted. Other bodies
// are logged verbatim.
package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/gogama/httpapi"
	"github.com/gogama/httpapi/request"
)

// Logger is the logging interface used by this package. Every
// log.Interface from github.com/apex/log, such as *log.Logger and
// *log.Entry, is a Logger.
type Logger interface {
	Debugf(msg string, v ...interface{})
}

// Default is the Logger used when Install is given a nil Logger. It is
// the apex/log package-level logger.
var Default Logger = log.Log

// Install adds handlers to g which log, at debug level, each request
// before it is sent and each response (or transport error) after it is
// received.
func Install(g *httpapi.HandlerGroup, l Logger) {
	if l == nil {
		l = Default
	}
	g.PushBackFunc(func(_ httpapi.Event, e *request.Execution) {
		l.Debugf("%s", DescribeRequest(e.Request, e.Plan.Body))
	}, httpapi.BeforeSend)
	g.PushBackFunc(func(_ httpapi.Event, e *request.Execution) {
		if e.Response != nil {
			l.Debugf("%s", DescribeResponse(e.Response, e.Body))
			return
		}
		if e.Err != nil {
			l.Debugf("[ERROR] %s", e.Err)
		}
	}, httpapi.AfterReceive)
}

// DescribeRequest returns the log description of an HTTP request with
// body b.
func DescribeRequest(r *http.Request, b []byte) string {
	var sb strings.Builder
	sb.WriteString("[REQUEST] ")
	method := r.Method
	if method == "" {
		method = "GET"
	}
	sb.WriteString(method)
	sb.WriteByte(' ')
	sb.WriteString(urlString(r.URL))
	writeSection(&sb, "Headers", DescribeHeader(r.Header))
	writeSection(&sb, "Body", DescribeBody(b))
	return sb.String()
}

// DescribeResponse returns the log description of an HTTP response
// with body b.
func DescribeResponse(resp *http.Response, b []byte) string {
	var sb strings.Builder
	sb.WriteString("[RESPONSE] ")
	sb.WriteString(strconv.Itoa(resp.StatusCode))
	if resp.Request != nil {
		sb.WriteByte(' ')
		sb.WriteString(urlString(resp.Request.URL))
	}
	writeSection(&sb, "Headers", DescribeHeader(resp.Header))
	writeSection(&sb, "Content", DescribeBody(b))
	return sb.String()
}

// DescribeHeader returns one " │ Name: value" line per header value,
// sorted by name.
func DescribeHeader(h http.Header) string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		for _, v := range h[name] {
			lines = append(lines, " │ "+name+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}

// DescribeBody returns b indented by two spaces, with blank lines
// removed. If b is a JSON document it is pretty-printed first.
func DescribeBody(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	text := string(b)
	if pretty, ok := prettyJSON(b); ok {
		text = pretty
	}
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		lines = append(lines, "  "+line)
	}
	return strings.Join(lines, "\n")
}

func prettyJSON(b []byte) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil || dec.More() {
		return "", false
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", false
	}
	return buf.String(), true
}

func writeSection(sb *strings.Builder, title, content string) {
	if content == "" {
		return
	}
	sb.WriteString("\n ├─ ")
	sb.WriteString(title)
	sb.WriteByte('\n')
	sb.WriteString(content)
}

func urlString(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}

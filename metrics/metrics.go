// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics exports Prometheus metrics about the executions of
// an httpapi.Client.
//
// Create a Collector and install it into the client's handler group:
//
//	c := metrics.NewCollector(prometheus.DefaultRegisterer)
//	handlers := &httpapi.HandlerGroup{}
//	c.Install(handlers)
//	client.Handlers = handlers
package metrics

import (
	"strconv"

	"github.com/gogama/httpapi"
	"github.com/gogama/httpapi/request"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// A Collector records Prometheus metrics for plan executions. It is
// safe for concurrent use, and one Collector may be installed into
// several handler groups.
type Collector struct {
	executionsTotal    *prometheus.CounterVec
	executionDuration  *prometheus.HistogramVec
	executionsInFlight *prometheus.GaugeVec
	timeoutsTotal      *prometheus.CounterVec
}

// NewCollector creates a Collector whose metrics are registered with
// reg. Registering two Collectors with the same Registerer panics.
func NewCollector(reg prometheus.Registerer) *Collector {
	return &Collector{
		executionsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "httpapi_executions_total",
				Help: "Total number of API call executions, by outcome",
			},
			[]string{"method", "kind", "status_code"},
		),
		executionDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "httpapi_execution_duration_seconds",
				Help:    "Duration of API call executions in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "kind"},
		),
		executionsInFlight: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "httpapi_executions_in_flight",
				Help: "Number of API call executions currently in flight",
			},
			[]string{"method"},
		),
		timeoutsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "httpapi_timeouts_total",
				Help: "Total number of API call executions that timed out",
			},
			[]string{"method"},
		),
	}
}

// Install adds the collector's event handlers to g.
//
// The outcome kind of an execution is httpapi.KindOf its final error.
// Executions run by httpapi.Execute are therefore split into OK,
// TransportError, DecodingError and APIError. Executions run directly
// by Client.Do without a Decode function only distinguish OK from
// TransportError.
func (c *Collector) Install(g *httpapi.HandlerGroup) {
	g.PushBackFunc(c.start, httpapi.BeforeExecutionStart)
	g.PushBackFunc(c.timeout, httpapi.AfterTimeout)
	g.PushBackFunc(c.end, httpapi.AfterExecutionEnd)
}

func (c *Collector) start(_ httpapi.Event, e *request.Execution) {
	c.executionsInFlight.WithLabelValues(e.Plan.Method).Inc()
}

func (c *Collector) timeout(_ httpapi.Event, e *request.Execution) {
	c.timeoutsTotal.WithLabelValues(e.Plan.Method).Inc()
}

func (c *Collector) end(_ httpapi.Event, e *request.Execution) {
	method := e.Plan.Method
	kind := httpapi.KindOf(e.Err).String()
	c.executionsInFlight.WithLabelValues(method).Dec()
	c.executionsTotal.WithLabelValues(method, kind, strconv.Itoa(e.StatusCode())).Inc()
	c.executionDuration.WithLabelValues(method, kind).Observe(e.Duration().Seconds())
}

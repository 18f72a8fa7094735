// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package jsonrpc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// JSON-RPC client metrics
var (
	mRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "near_client",
		Subsystem: "rpc",
		Name:      "requests_total",
		Help:      "Number of JSON-RPC requests by method and result kind",
	}, []string{"method", "result"})
	mLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "near_client",
		Subsystem: "rpc",
		Name:      "request_seconds",
		Help:      "JSON-RPC request latency in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"method"})
	mBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "near_client",
		Subsystem: "rpc",
		Name:      "breaker_state",
		Help:      "Circuit breaker state per endpoint (0 closed, 1 half-open, 2 open)",
	}, []string{"endpoint"})
)

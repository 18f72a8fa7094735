// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "near_client",
		Subsystem: "account",
		Name:      "transactions_total",
		Help:      "Number of transactions sent by final status",
	}, []string{"status"})
	mNonceRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "near_client",
		Subsystem: "account",
		Name:      "nonce_retries_total",
		Help:      "Number of transactions re-signed after a nonce conflict",
	})
	mBlockQueries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "near_client",
		Subsystem: "account",
		Name:      "block_queries_total",
		Help:      "Number of reference block queries",
	})
)

// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package nonce

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "near_client",
		Subsystem: "nonce",
		Name:      "cache_misses_total",
		Help:      "Number of reservations that loaded the nonce from the network",
	})
	mReservations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "near_client",
		Subsystem: "nonce",
		Name:      "reservations_total",
		Help:      "Number of nonces handed out",
	})
	mInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "near_client",
		Subsystem: "nonce",
		Name:      "invalidations_total",
		Help:      "Number of times a cached nonce was discarded",
	})
)

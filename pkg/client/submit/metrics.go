// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package submit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mBroadcasts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "near_client",
		Subsystem: "submit",
		Name:      "broadcasts_total",
		Help:      "Number of broadcast attempts by result class",
	}, []string{"result"})
	mPolls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "near_client",
		Subsystem: "submit",
		Name:      "polls_total",
		Help:      "Number of transaction status polls by result",
	}, []string{"result"})
	mWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "near_client",
		Subsystem: "submit",
		Name:      "wait_seconds",
		Help:      "Time from broadcast to a final outcome in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
	})
)

// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package outcome

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var mVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "near_client",
	Subsystem: "outcome",
	Name:      "verdicts_total",
	Help:      "Number of resolved transactions by verdict",
}, []string{"verdict"})

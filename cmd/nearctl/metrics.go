// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// startMetrics serves the client metrics while the command runs.
func (a *app) startMetrics() error {
	if !a.cfg.Metrics.Enabled {
		return nil
	}

	l, err := net.Listen("tcp", a.cfg.Metrics.Listen)
	if err != nil {
		return errors.BadRequest.WithFormat("metrics listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer,
		promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}),
	))

	// Slow-loris prevention
	a.metrics = &http.Server{Handler: mux, ReadHeaderTimeout: time.Minute}
	go func() {
		err := a.metrics.Serve(l)
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server stopped", "module", "nearctl", "error", err)
		}
	}()
	slog.Info("Serving metrics", "module", "nearctl", "address", l.Addr())
	return nil
}

func (a *app) stopMetrics() {
	if a.metrics == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = a.metrics.Shutdown(ctx)
	a.metrics = nil
}

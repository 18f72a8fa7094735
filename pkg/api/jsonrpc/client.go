// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package jsonrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/AccumulateNetwork/jsonrpc2/v15"
	"github.com/Olovorr/near-api-js-ext/pkg/api"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Options configures a [Client].
type Options struct {
	// Endpoints are tried in order. Requests fail over to the next endpoint
	// on a transient error.
	Endpoints []string

	// Timeout is the HTTP timeout of a single request. Zero means 15s.
	Timeout time.Duration

	// RateLimit is the maximum number of requests per second. Zero means
	// unlimited.
	RateLimit float64
	Burst     int

	// BreakerFailures is the number of consecutive transient failures that
	// opens an endpoint's circuit breaker. Zero means 5.
	BreakerFailures uint32

	// BreakerCooldown is how long a breaker stays open. Zero means 30s.
	BreakerCooldown time.Duration

	// WaitUntil is passed to the tx method. Empty means EXECUTED_OPTIMISTIC.
	WaitUntil api.TxExecutionStatus

	// Transport is the base HTTP transport. Nil means the default.
	Transport http.RoundTripper
}

// Client is an [api.NetworkClient] that talks JSON-RPC to one or more
// network endpoints.
type Client struct {
	endpoints []*endpoint
	limiter   *rate.Limiter
	waitUntil api.TxExecutionStatus
}

type endpoint struct {
	url     string
	rpc     jsonrpc2.Client
	breaker *gobreaker.CircuitBreaker
}

var _ api.NetworkClient = (*Client)(nil)

// NewClient creates a client with default options for a single endpoint.
func NewClient(server string) *Client {
	c, err := New(Options{Endpoints: []string{server}})
	if err != nil {
		panic(err)
	}
	return c
}

// New creates a client.
func New(opts Options) (*Client, error) {
	if len(opts.Endpoints) == 0 {
		return nil, errors.BadRequest.With("at least one endpoint is required")
	}
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerCooldown == 0 {
		opts.BreakerCooldown = 30 * time.Second
	}
	if opts.WaitUntil == "" {
		opts.WaitUntil = api.TxStatusExecutedOptimistic
	}

	c := new(Client)
	c.waitUntil = opts.WaitUntil
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	for _, url := range opts.Endpoints {
		ep := new(endpoint)
		ep.url = url
		ep.rpc.Client = http.Client{
			Timeout:   opts.Timeout,
			Transport: statusTransport{base: opts.Transport},
		}
		ep.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    url,
			Timeout: opts.BreakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= opts.BreakerFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Info("Endpoint circuit breaker changed state", "module", "jsonrpc", "endpoint", name, "from", from, "to", to)
				mBreakerState.WithLabelValues(name).Set(float64(to))
			},
			IsSuccessful: func(err error) bool {
				if err == nil {
					return true
				}
				var rpcErr *api.RPCError
				return errors.As(err, &rpcErr) && !isTransient(rpcErr.Kind)
			},
		})
		c.endpoints = append(c.endpoints, ep)
	}
	return c, nil
}

// request sends a request to each endpoint in turn until one succeeds or
// fails with an error that is not transient.
func (c *Client) request(ctx context.Context, method string, params, result interface{}) error {
	if c.limiter != nil {
		err := c.limiter.Wait(ctx)
		if err != nil {
			return classifyError(err)
		}
	}

	start := time.Now()
	defer func() { mLatency.WithLabelValues(method).Observe(time.Since(start).Seconds()) }()

	var errs *multierror.Error
	var last *api.RPCError
	for _, ep := range c.endpoints {
		var raw json.RawMessage
		_, err := ep.breaker.Execute(func() (interface{}, error) {
			err := ep.rpc.Request(ctx, ep.url, method, params, &raw)
			if err != nil {
				return nil, classifyError(err)
			}
			return nil, nil
		})

		if err == nil {
			mRequests.WithLabelValues(method, "ok").Inc()
			if result == nil {
				return nil
			}
			err = json.Unmarshal(raw, result)
			if err != nil {
				return errors.EncodingError.WithFormat("unmarshal %s response: %w", method, err)
			}
			return nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			slog.DebugContext(ctx, "Skipping endpoint", "module", "jsonrpc", "endpoint", ep.url, "reason", err)
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", ep.url, err))
			continue
		}

		rpcErr := classifyError(err)
		mRequests.WithLabelValues(method, rpcErr.Kind.String()).Inc()
		if !isTransient(rpcErr.Kind) || ctx.Err() != nil {
			return rpcErr
		}

		slog.DebugContext(ctx, "Request failed", "module", "jsonrpc", "endpoint", ep.url, "method", method, "error", rpcErr)
		last = rpcErr
		errs = multierror.Append(errs, fmt.Errorf("%s: %w", ep.url, rpcErr))
	}

	if last == nil {
		return &api.RPCError{
			Kind:    api.ErrorKindConnection,
			Message: "no endpoint is available",
			Cause:   errs.ErrorOrNil(),
		}
	}
	if len(c.endpoints) == 1 {
		return last
	}
	return &api.RPCError{
		Kind:    last.Kind,
		Code:    last.Code,
		Message: "all endpoints failed",
		Data:    last.Data,
		Cause:   errs.ErrorOrNil(),
	}
}

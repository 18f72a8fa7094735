// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package config

import (
	"io"

	"github.com/Olovorr/near-api-js-ext/internal/logging"
	"github.com/Olovorr/near-api-js-ext/pkg/api/jsonrpc"
	"github.com/Olovorr/near-api-js-ext/pkg/client/submit"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
)

func (c *Config) ClientOptions() jsonrpc.Options {
	return jsonrpc.Options{
		Endpoints:       c.Endpoints,
		Timeout:         c.RPC.Timeout.Get(),
		RateLimit:       c.RPC.RateLimit,
		Burst:           c.RPC.Burst,
		BreakerFailures: c.RPC.BreakerFailures,
		BreakerCooldown: c.RPC.BreakerCooldown.Get(),
	}
}

func (c *Config) SubmitOptions() submit.Options {
	return submit.Options{
		MaxAttempts:     c.Submit.MaxAttempts,
		BaseDelay:       c.Submit.BaseDelay.Get(),
		MaxDelay:        c.Submit.MaxDelay.Get(),
		JitterPercent:   c.Submit.JitterPercent,
		PollInterval:    c.Submit.PollInterval.Get(),
		MaxPollInterval: c.Submit.MaxPollInterval.Get(),
		WaitTimeout:     c.Submit.WaitTimeout.Get(),
	}
}

func (c *Config) LoggingOptions(out io.Writer) (logging.Options, error) {
	rules := c.Logging.Rules
	if rules == "" {
		rules = "info"
	}
	parsed, err := logging.ParseRules(rules)
	if err != nil {
		return logging.Options{}, errors.BadRequest.WithFormat("log rules: %w", err)
	}

	format := c.Logging.Format
	if format == "" {
		format = "text"
	}
	return logging.Options{
		Format:  format,
		Rules:   parsed,
		Out:     out,
		NoColor: c.Logging.NoColor,
	}, nil
}

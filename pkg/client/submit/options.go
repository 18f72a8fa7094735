// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package submit

import (
	"time"

	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/sethvargo/go-retry"
)

// Options configures retry and polling. Zero fields take the defaults
// below.
type Options struct {
	// MaxAttempts is the total number of broadcasts of one signed
	// transaction, including the first.
	MaxAttempts int

	// BaseDelay is the delay before the first re-broadcast. Each following
	// delay doubles, up to MaxDelay.
	BaseDelay time.Duration
	MaxDelay  time.Duration

	// JitterPercent randomizes each delay by up to this percentage.
	JitterPercent uint64

	// PollInterval is the delay between the first status polls. It grows
	// exponentially up to MaxPollInterval.
	PollInterval    time.Duration
	MaxPollInterval time.Duration

	// WaitTimeout bounds how long Wait polls before giving up with
	// PendingTimeout.
	WaitTimeout time.Duration
}

// Defaults
const (
	DefaultMaxAttempts     = 5
	DefaultBaseDelay       = 500 * time.Millisecond
	DefaultMaxDelay        = 8 * time.Second
	DefaultJitterPercent   = 20
	DefaultPollInterval    = 500 * time.Millisecond
	DefaultMaxPollInterval = 4 * time.Second
	DefaultWaitTimeout     = 2 * time.Minute
)

// withDefaults fills in unset fields.
func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = DefaultBaseDelay
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = DefaultMaxDelay
	}
	if o.MaxDelay < o.BaseDelay {
		o.MaxDelay = o.BaseDelay
	}
	if o.JitterPercent == 0 {
		o.JitterPercent = DefaultJitterPercent
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.MaxPollInterval <= 0 {
		o.MaxPollInterval = DefaultMaxPollInterval
	}
	if o.MaxPollInterval < o.PollInterval {
		o.MaxPollInterval = o.PollInterval
	}
	if o.WaitTimeout <= 0 {
		o.WaitTimeout = DefaultWaitTimeout
	}
	return o
}

// broadcastBackoff allows MaxAttempts-1 retries after the first broadcast.
func (o Options) broadcastBackoff() (retry.Backoff, error) {
	b, err := retry.NewExponential(o.BaseDelay)
	if err != nil {
		return nil, errors.BadRequest.WithFormat("create backoff: %w", err)
	}
	b = retry.WithCappedDuration(o.MaxDelay, b)
	b = retry.WithJitterPercent(o.JitterPercent, b)
	b = retry.WithMaxRetries(uint64(o.MaxAttempts-1), b)
	return b, nil
}

// pollBackoff never stops on its own. Polling ends when the wait deadline
// passes.
func (o Options) pollBackoff() (retry.Backoff, error) {
	b, err := retry.NewExponential(o.PollInterval)
	if err != nil {
		return nil, errors.BadRequest.WithFormat("create backoff: %w", err)
	}
	b = retry.WithCappedDuration(o.MaxPollInterval, b)
	b = retry.WithJitterPercent(o.JitterPercent, b)
	return b, nil
}

// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package config

import (
	"io/fs"
	"time"

	"github.com/Olovorr/near-api-js-ext/pkg/api"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
)

// Config is the configuration of a client. Files use kebab-case keys, such
// as network-id and max-attempts.
type Config struct {
	file string
	fs   fs.FS

	// DotEnv enables ${VAR} expansion from a .env file next to the config
	// file.
	DotEnv *bool `json:"dotEnv,omitempty"`

	NetworkID string       `json:"networkId" validate:"required"`
	Endpoints []string     `json:"endpoints" validate:"required,min=1,dive,url"`
	Finality  api.Finality `json:"finality,omitempty" validate:"omitempty,oneof=optimistic near-final final"`

	RPC     RPC     `json:"rpc"`
	Submit  Submit  `json:"submit"`
	Logging Logging `json:"logging"`
	Metrics Metrics `json:"metrics"`
}

type RPC struct {
	Timeout         Duration `json:"timeout,omitempty" validate:"gte=0"`
	RateLimit       float64  `json:"rateLimit,omitempty" validate:"gte=0"`
	Burst           int      `json:"burst,omitempty" validate:"gte=0"`
	BreakerFailures uint32   `json:"breakerFailures,omitempty"`
	BreakerCooldown Duration `json:"breakerCooldown,omitempty" validate:"gte=0"`
}

type Submit struct {
	MaxAttempts     int      `json:"maxAttempts,omitempty" validate:"gte=0,lte=100"`
	BaseDelay       Duration `json:"baseDelay,omitempty" validate:"gte=0"`
	MaxDelay        Duration `json:"maxDelay,omitempty" validate:"gte=0"`
	JitterPercent   uint64   `json:"jitterPercent,omitempty" validate:"lte=100"`
	PollInterval    Duration `json:"pollInterval,omitempty" validate:"gte=0"`
	MaxPollInterval Duration `json:"maxPollInterval,omitempty" validate:"gte=0"`
	WaitTimeout     Duration `json:"waitTimeout,omitempty" validate:"gte=0"`
}

type Logging struct {
	Format  string `json:"format,omitempty" validate:"omitempty,oneof=text plain json"`
	Rules   string `json:"rules,omitempty" validate:"log-rules"`
	NoColor bool   `json:"noColor,omitempty"`
}

type Metrics struct {
	Enabled bool   `json:"enabled,omitempty"`
	Listen  string `json:"listen,omitempty" validate:"required_if=Enabled true,omitempty,hostname_port"`
}

// Duration is a [time.Duration] written as a string such as "500ms".
type Duration time.Duration

func (d Duration) Get() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return errors.BadRequest.WithFormat("invalid duration %q: %w", b, err)
	}
	*d = Duration(v)
	return nil
}

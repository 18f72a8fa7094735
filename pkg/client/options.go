// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package client

import (
	"time"

	"github.com/Olovorr/near-api-js-ext/protocol"
)

// Option modifies a single send.
type Option func(*sendOptions)

type sendOptions struct {
	nonce       *uint64
	blockHash   *protocol.CryptoHash
	waitTimeout time.Duration
}

// WithNonce uses the given nonce instead of reserving one. A nonce conflict
// is then returned to the caller instead of being retried.
func WithNonce(nonce uint64) Option {
	return func(o *sendOptions) { o.nonce = &nonce }
}

// WithBlockHash uses the given reference block instead of loading a recent
// one.
func WithBlockHash(hash protocol.CryptoHash) Option {
	return func(o *sendOptions) { o.blockHash = &hash }
}

// WithWaitTimeout overrides how long to wait for the outcome.
func WithWaitTimeout(d time.Duration) Option {
	return func(o *sendOptions) { o.waitTimeout = d }
}

func applyOptions(opts []Option) sendOptions {
	var o sendOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

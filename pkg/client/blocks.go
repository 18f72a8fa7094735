// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/Olovorr/near-api-js-ext/pkg/api"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const blockLoadTimeout = 30 * time.Second

// blockCache remembers recent reference blocks for a short time, so a burst
// of transactions does not query the block once per transaction.
type blockCache struct {
	querier api.BlockQuerier
	cache   *expirable.LRU[api.Finality, *api.BlockView]
	group   singleflight.Group
}

func newBlockCache(querier api.BlockQuerier, ttl time.Duration) *blockCache {
	return &blockCache{
		querier: querier,
		cache:   expirable.NewLRU[api.Finality, *api.BlockView](4, nil, ttl),
	}
}

// Get returns the cached block for the finality, loading it if needed.
// Concurrent callers share one load, which runs detached from any single
// caller's context so one caller giving up does not fail the others.
func (c *blockCache) Get(ctx context.Context, finality api.Finality) (*api.BlockView, error) {
	if b, ok := c.cache.Get(finality); ok {
		return b, nil
	}

	ch := c.group.DoChan(string(finality), func() (interface{}, error) {
		if b, ok := c.cache.Get(finality); ok {
			return b, nil
		}

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), blockLoadTimeout)
		defer cancel()

		mBlockQueries.Inc()
		b, err := c.querier.Block(ctx, api.BlockReference{Finality: finality})
		if err != nil {
			return nil, errors.UnknownError.WithFormat("load %s block: %w", finality, err)
		}
		if b.Header.Hash.IsZero() {
			return nil, errors.BadRequest.WithFormat("network returned a %s block without a hash", finality)
		}

		slog.DebugContext(ctx, "Loaded reference block", "module", "client", "height", b.Header.Height, "hash", b.Header.Hash)
		c.cache.Add(finality, b)
		return b, nil
	})

	select {
	case <-ctx.Done():
		return nil, errors.UnknownError.WithFormat("load %s block: %w", finality, context.Cause(ctx))
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*api.BlockView), nil
	}
}

// Purge drops every cached block.
func (c *blockCache) Purge() {
	c.cache.Purge()
}

// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package nonce

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Olovorr/near-api-js-ext/pkg/api"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/protocol"
)

// Allocator hands out nonces for access keys. The first reservation for a
// key loads the committed nonce from the network; later reservations count
// up from the cached value without a network round trip.
//
// Each key has its own lock, so reservations for different keys never
// contend. Entries are never evicted: dropping an entry that has handed out
// uncommitted nonces would reissue them.
type Allocator struct {
	querier api.AccessKeyQuerier

	mu      sync.RWMutex
	entries map[cacheKey]*entry
}

type cacheKey struct {
	account string
	key     string
}

type entry struct {
	mu    sync.Mutex
	valid bool
	nonce uint64
}

// New creates an allocator that loads nonces with the given querier.
func New(querier api.AccessKeyQuerier) *Allocator {
	return &Allocator{querier: querier}
}

func (a *Allocator) get(accountID string, key *protocol.PublicKey) *entry {
	k := cacheKey{accountID, key.String()}
	a.mu.RLock()
	e, ok := a.entries[k]
	a.mu.RUnlock()
	if ok {
		return e
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok = a.entries[k]
	if ok {
		return e
	}

	if a.entries == nil {
		a.entries = map[cacheKey]*entry{}
	}

	e = new(entry)
	a.entries[k] = e
	return e
}

// Reserve returns the next nonce for the key. Querier errors are returned
// without retrying and leave the cache untouched.
func (a *Allocator) Reserve(ctx context.Context, accountID string, key *protocol.PublicKey) (uint64, error) {
	if key == nil {
		return 0, errors.BadRequest.With("missing public key")
	}

	e := a.get(accountID, key)
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.valid {
		mCacheMisses.Inc()
		v, err := a.querier.ViewAccessKey(ctx, accountID, key)
		if err != nil {
			return 0, errors.UnknownError.WithFormat("load nonce of %v for %s: %w", key, accountID, err)
		}
		if v == nil {
			return 0, errors.NotFound.WithFormat("access key %v of %s not found", key, accountID)
		}
		e.nonce = v.Nonce
		e.valid = true
		slog.DebugContext(ctx, "Loaded nonce", "module", "nonce", "account", accountID, "key", key, "nonce", v.Nonce)
	}

	e.nonce++
	mReservations.Inc()
	return e.nonce, nil
}

// Invalidate discards the cached nonce for the key. The next reservation
// reloads it from the network.
func (a *Allocator) Invalidate(accountID string, key *protocol.PublicKey) {
	if key == nil {
		return
	}

	e := a.get(accountID, key)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.valid = false
	mInvalidations.Inc()
	slog.Debug("Invalidated nonce", "module", "nonce", "account", accountID, "key", key)
}

// Observe records that nonce has been used with the key, so later
// reservations start above it. It does nothing if the key has no cached
// nonce, since the next reservation loads the committed value anyway.
func (a *Allocator) Observe(accountID string, key *protocol.PublicKey, nonce uint64) {
	if key == nil {
		return
	}

	e := a.get(accountID, key)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.valid && nonce > e.nonce {
		e.nonce = nonce
	}
}

// Cached returns the last nonce handed out or loaded for the key.
func (a *Allocator) Cached(accountID string, key *protocol.PublicKey) (uint64, bool) {
	e := a.get(accountID, key)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nonce, e.valid
}

// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package signing

import (
	"context"
	"sync"

	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/protocol"
)

// KeyProvider holds the keys of one or more accounts. Implementations must
// be safe for concurrent use.
type KeyProvider interface {
	// Sign signs the message with the account's key. It fails if the provider
	// has no key for the account.
	Sign(ctx context.Context, accountID, networkID string, message []byte) (*protocol.Signature, error)

	// PublicKey returns the account's public key, or nil if the provider has
	// no key for the account.
	PublicKey(ctx context.Context, accountID, networkID string) (*protocol.PublicKey, error)
}

// MemoryKeyProvider is a KeyProvider that keeps keys in memory.
type MemoryKeyProvider struct {
	mu   sync.RWMutex
	keys map[memoryKey]KeyPair
}

type memoryKey struct {
	network string
	account string
}

var _ KeyProvider = (*MemoryKeyProvider)(nil)

func NewMemoryKeyProvider() *MemoryKeyProvider {
	return &MemoryKeyProvider{keys: map[memoryKey]KeyPair{}}
}

// SetKey stores the account's key, replacing any existing key.
func (p *MemoryKeyProvider) SetKey(networkID, accountID string, key KeyPair) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.keys == nil {
		p.keys = map[memoryKey]KeyPair{}
	}
	p.keys[memoryKey{networkID, accountID}] = key
}

// RemoveKey removes the account's key.
func (p *MemoryKeyProvider) RemoveKey(networkID, accountID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.keys, memoryKey{networkID, accountID})
}

// Key returns the account's key, if there is one.
func (p *MemoryKeyProvider) Key(networkID, accountID string) (KeyPair, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	k, ok := p.keys[memoryKey{networkID, accountID}]
	return k, ok
}

func (p *MemoryKeyProvider) Sign(_ context.Context, accountID, networkID string, message []byte) (*protocol.Signature, error) {
	k, ok := p.Key(networkID, accountID)
	if !ok {
		return nil, errors.SigningError.WithFormat("no key for %s on %s", accountID, networkID)
	}
	return k.Sign(message)
}

func (p *MemoryKeyProvider) PublicKey(_ context.Context, accountID, networkID string) (*protocol.PublicKey, error) {
	k, ok := p.Key(networkID, accountID)
	if !ok {
		return nil, nil
	}
	return k.PublicKey(), nil
}

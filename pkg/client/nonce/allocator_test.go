// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package nonce_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/Olovorr/near-api-js-ext/pkg/api"
	. "github.com/Olovorr/near-api-js-ext/pkg/client/nonce"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/protocol"
	mocks "github.com/Olovorr/near-api-js-ext/test/mocks/pkg/api"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func key(seed byte) *protocol.PublicKey {
	b := make([]byte, 32)
	b[0] = seed
	return &protocol.PublicKey{Type: protocol.KeyTypeED25519, Data: b}
}

func view(nonce uint64) *api.AccessKeyView {
	return &api.AccessKeyView{AccessKey: protocol.AccessKey{Nonce: nonce}}
}

func TestReserveSequential(t *testing.T) {
	client := mocks.NewNetworkClient(t)
	client.EXPECT().ViewAccessKey(mock.Anything, "alice.near", mock.Anything).Return(view(5), nil).Once()

	a := New(client)
	for want := uint64(6); want <= 8; want++ {
		n, err := a.Reserve(context.Background(), "alice.near", key(1))
		require.NoError(t, err)
		require.Equal(t, want, n)
	}
}

func TestReserveConcurrent(t *testing.T) {
	const N = 50
	const base = 100

	client := mocks.NewNetworkClient(t)
	client.EXPECT().ViewAccessKey(mock.Anything, "alice.near", mock.Anything).Return(view(base), nil).Once()

	a := New(client)
	var mu sync.Mutex
	var got []uint64
	var wg sync.WaitGroup
	for i := 0; i < N; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := a.Reserve(context.Background(), "alice.near", key(1))
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			got = append(got, n)
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Exactly {base+1, ..., base+N}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	require.Len(t, got, N)
	for i, n := range got {
		require.Equal(t, uint64(base+1+i), n)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	client := mocks.NewNetworkClient(t)
	client.EXPECT().ViewAccessKey(mock.Anything, "alice.near", key(1)).Return(view(5), nil).Once()
	client.EXPECT().ViewAccessKey(mock.Anything, "alice.near", key(2)).Return(view(50), nil).Once()
	client.EXPECT().ViewAccessKey(mock.Anything, "bob.near", key(1)).Return(view(500), nil).Once()

	a := New(client)
	n, err := a.Reserve(context.Background(), "alice.near", key(1))
	require.NoError(t, err)
	require.Equal(t, uint64(6), n)
	n, err = a.Reserve(context.Background(), "alice.near", key(2))
	require.NoError(t, err)
	require.Equal(t, uint64(51), n)
	n, err = a.Reserve(context.Background(), "bob.near", key(1))
	require.NoError(t, err)
	require.Equal(t, uint64(501), n)
}

func TestInvalidate(t *testing.T) {
	client := mocks.NewNetworkClient(t)
	client.EXPECT().ViewAccessKey(mock.Anything, "alice.near", mock.Anything).Return(view(5), nil).Once()
	client.EXPECT().ViewAccessKey(mock.Anything, "alice.near", mock.Anything).Return(view(7), nil).Once()

	a := New(client)
	n, err := a.Reserve(context.Background(), "alice.near", key(1))
	require.NoError(t, err)
	require.Equal(t, uint64(6), n)

	a.Invalidate("alice.near", key(1))
	n, err = a.Reserve(context.Background(), "alice.near", key(1))
	require.NoError(t, err)
	require.Equal(t, uint64(8), n)
}

func TestObserve(t *testing.T) {
	client := mocks.NewNetworkClient(t)
	client.EXPECT().ViewAccessKey(mock.Anything, "alice.near", mock.Anything).Return(view(5), nil).Once()

	a := New(client)

	// No cached value, nothing to raise
	a.Observe("alice.near", key(1), 100)
	_, ok := a.Cached("alice.near", key(1))
	require.False(t, ok)

	n, err := a.Reserve(context.Background(), "alice.near", key(1))
	require.NoError(t, err)
	require.Equal(t, uint64(6), n)

	a.Observe("alice.near", key(1), 20)
	a.Observe("alice.near", key(1), 10)
	n, err = a.Reserve(context.Background(), "alice.near", key(1))
	require.NoError(t, err)
	require.Equal(t, uint64(21), n)
}

func TestQueryErrorSurfaces(t *testing.T) {
	cause := &api.RPCError{Kind: api.ErrorKindAccessKeyNotFound, Message: "access key does not exist"}
	client := mocks.NewNetworkClient(t)
	client.EXPECT().ViewAccessKey(mock.Anything, "alice.near", mock.Anything).Return(nil, cause).Once()
	client.EXPECT().ViewAccessKey(mock.Anything, "alice.near", mock.Anything).Return(view(1), nil).Once()

	a := New(client)
	_, err := a.Reserve(context.Background(), "alice.near", key(1))
	require.Error(t, err)
	require.Equal(t, errors.NotFound, errors.Code(err))

	var rpcErr *api.RPCError
	require.ErrorAs(t, err, &rpcErr)
	require.Equal(t, api.ErrorKindAccessKeyNotFound, rpcErr.Kind)

	// The failure is not cached
	n, err := a.Reserve(context.Background(), "alice.near", key(1))
	require.NoError(t, err)
	require.Equal(t, uint64(2), n)
}

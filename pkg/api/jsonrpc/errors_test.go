// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package jsonrpc

import (
	"context"
	"fmt"
	"testing"

	"github.com/AccumulateNetwork/jsonrpc2/v15"
	"github.com/Olovorr/near-api-js-ext/pkg/api"
	"github.com/stretchr/testify/require"
)

func TestClassifyData(t *testing.T) {
	cases := []struct {
		Data string
		Kind api.ErrorKind
	}{
		{`"Timeout"`, api.ErrorKindTimeout},
		{`"NOT_SYNCED_YET"`, api.ErrorKindSyncing},
		{`"Transaction 9Vg2 doesn't exist"`, api.ErrorKindUnknownTransaction},
		{`"access key ed25519:abc does not exist while viewing"`, api.ErrorKindAccessKeyNotFound},
		{`"account foo.near does not exist while viewing"`, api.ErrorKindAccountNotFound},
		{`{"TxExecutionError":{"InvalidTxError":{"InvalidNonce":{"tx_nonce":5,"ak_nonce":6}}}}`, api.ErrorKindInvalidNonce},
		{`{"TxExecutionError":{"InvalidTxError":"InvalidSignature"}}`, api.ErrorKindInvalidSignature},
		{`{"TxExecutionError":{"InvalidTxError":{"NotEnoughBalance":{}}}}`, api.ErrorKindNotEnoughBalance},
		{`{"TxExecutionError":{"InvalidTxError":{"InvalidAccessKeyError":{"AccessKeyNotFound":{}}}}}`, api.ErrorKindAccessKeyNotFound},
		{`{"TxExecutionError":{"InvalidTxError":"Expired"}}`, api.ErrorKindExpired},
		{`{"TxExecutionError":{"InvalidTxError":"Deserialization"}}`, api.ErrorKindInvalidTransaction},
		{`{"TxExecutionError":{"ActionError":{"index":0}}}`, api.ErrorKindActionError},
		{`"something odd"`, api.ErrorKindUnknown},
	}
	for _, c := range cases {
		t.Run(c.Data, func(t *testing.T) {
			require.Equal(t, c.Kind, classifyData([]byte(c.Data), "Server error"))
		})
	}
}

func TestClassifyError(t *testing.T) {
	t.Run("JSON-RPC", func(t *testing.T) {
		e := classifyError(fmt.Errorf("request: %w", jsonrpc2.NewError(-32000, "Server error", "Timeout")))
		require.Equal(t, api.ErrorKindTimeout, e.Kind)
		require.Equal(t, int64(-32000), e.Code)
		require.JSONEq(t, `"Timeout"`, string(e.Data))
	})

	t.Run("Deadline", func(t *testing.T) {
		require.Equal(t, api.ErrorKindTimeout, classifyError(context.DeadlineExceeded).Kind)
	})

	t.Run("Canceled", func(t *testing.T) {
		require.Equal(t, api.ErrorKindUnknown, classifyError(context.Canceled).Kind)
	})

	t.Run("HTTP", func(t *testing.T) {
		e := classifyError(&HTTPStatusError{StatusCode: 408, Status: "408 Request Timeout"})
		require.Equal(t, api.ErrorKindTimeout, e.Kind)
	})

	t.Run("Connection", func(t *testing.T) {
		e := classifyError(fmt.Errorf("dial tcp: connection refused"))
		require.Equal(t, api.ErrorKindConnection, e.Kind)
		require.True(t, isTransient(e.Kind))
	})
}

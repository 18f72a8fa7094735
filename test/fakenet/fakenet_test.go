// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package fakenet

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/AccumulateNetwork/jsonrpc2/v15"
	"github.com/Olovorr/near-api-js-ext/pkg/api"
	"github.com/Olovorr/near-api-js-ext/pkg/client/outcome"
	"github.com/Olovorr/near-api-js-ext/pkg/client/signing"
	"github.com/Olovorr/near-api-js-ext/protocol"
	"github.com/stretchr/testify/require"
)

func near(t *testing.T, s string) protocol.U128 {
	t.Helper()
	v, err := protocol.ParseNearAmount(s)
	require.NoError(t, err)
	return v
}

func setup(t *testing.T) (*Network, signing.KeyPair) {
	t.Helper()
	key, err := signing.GenerateKeyPair(protocol.KeyTypeED25519)
	require.NoError(t, err)

	n := New()
	n.AddAccount("alice.test", near(t, "10"))
	n.AddAccount("bob.test", near(t, "1"))
	n.AddKey("alice.test", key.PublicKey(), 5)
	return n, key
}

func sign(t *testing.T, n *Network, key signing.KeyPair, nonce uint64, receiver string, actions ...protocol.Action) (protocol.CryptoHash, *protocol.SignedTransaction) {
	t.Helper()
	blockHash, _ := n.LatestBlock()
	tx := &protocol.Transaction{
		SignerID:   "alice.test",
		PublicKey:  key.PublicKey(),
		Nonce:      nonce,
		ReceiverID: receiver,
		BlockHash:  blockHash,
		Actions:    actions,
	}
	hash, err := tx.Hash()
	require.NoError(t, err)
	sig, err := key.Sign(hash[:])
	require.NoError(t, err)
	return hash, &protocol.SignedTransaction{Transaction: tx, Signature: sig}
}

func variant(t *testing.T, err *jsonrpc2.Error, name string) json.RawMessage {
	t.Helper()
	require.NotNil(t, err)
	b, e := json.Marshal(err.Data)
	require.NoError(t, e)
	return api.FindVariant(b, name)
}

func TestValidate(t *testing.T) {
	t.Run("Nonce", func(t *testing.T) {
		n, key := setup(t)
		hash, stx := sign(t, n, key, 5, "bob.test", &protocol.Transfer{Deposit: near(t, "1")})
		v := variant(t, n.validate(hash, stx), "InvalidNonce")
		require.JSONEq(t, `{"tx_nonce":5,"ak_nonce":5}`, string(v))

		hash, stx = sign(t, n, key, 6, "bob.test", &protocol.Transfer{Deposit: near(t, "1")})
		require.Nil(t, n.validate(hash, stx))
		require.Equal(t, uint64(6), n.Nonce("alice.test", key.PublicKey()))
	})

	t.Run("Out of order", func(t *testing.T) {
		n, key := setup(t)
		for _, nonce := range []uint64{8, 6, 7} {
			hash, stx := sign(t, n, key, nonce, "bob.test", &protocol.Transfer{Deposit: near(t, "1")})
			require.Nil(t, n.validate(hash, stx), "nonce %d", nonce)
		}
		require.Equal(t, uint64(8), n.Nonce("alice.test", key.PublicKey()))

		hash, stx := sign(t, n, key, 7, "bob.test", &protocol.Transfer{Deposit: protocol.NewU128(1)})
		v := variant(t, n.validate(hash, stx), "InvalidNonce")
		require.JSONEq(t, `{"tx_nonce":7,"ak_nonce":8}`, string(v))
	})

	t.Run("Signature", func(t *testing.T) {
		n, key := setup(t)
		other, err := signing.GenerateKeyPair(protocol.KeyTypeED25519)
		require.NoError(t, err)

		hash, stx := sign(t, n, key, 6, "bob.test", &protocol.Transfer{Deposit: near(t, "1")})
		stx.Signature, err = other.Sign(hash[:])
		require.NoError(t, err)

		verr := n.validate(hash, stx)
		require.NotNil(t, verr)
		b, _ := json.Marshal(verr.Data)
		require.Equal(t, []string{"TxExecutionError", "InvalidTxError", "InvalidSignature"}, protocol.VariantPath(b))
	})

	t.Run("Access key", func(t *testing.T) {
		n, _ := setup(t)
		other, err := signing.GenerateKeyPair(protocol.KeyTypeED25519)
		require.NoError(t, err)
		hash, stx := sign(t, n, other, 6, "bob.test", &protocol.Transfer{Deposit: near(t, "1")})
		require.NotNil(t, variant(t, n.validate(hash, stx), "AccessKeyNotFound"))
	})

	t.Run("Balance", func(t *testing.T) {
		n, key := setup(t)
		hash, stx := sign(t, n, key, 6, "bob.test", &protocol.Transfer{Deposit: near(t, "11")})
		require.NotNil(t, variant(t, n.validate(hash, stx), "NotEnoughBalance"))
		require.Equal(t, uint64(5), n.Nonce("alice.test", key.PublicKey()))
	})

	t.Run("Expired", func(t *testing.T) {
		n, key := setup(t)
		hash, stx := sign(t, n, key, 6, "bob.test", &protocol.Transfer{Deposit: near(t, "1")})
		stx.Transaction.BlockHash = protocol.HashBytes([]byte("nowhere"))
		hash, err := stx.Transaction.Hash()
		require.NoError(t, err)
		stx.Signature, err = key.Sign(hash[:])
		require.NoError(t, err)

		verr := n.validate(hash, stx)
		b, _ := json.Marshal(verr.Data)
		require.Equal(t, []string{"TxExecutionError", "InvalidTxError", "Expired"}, protocol.VariantPath(b))
	})
}

func TestExecuteTransfer(t *testing.T) {
	n, key := setup(t)
	hash, stx := sign(t, n, key, 6, "bob.test", &protocol.Transfer{Deposit: near(t, "2")})
	require.Nil(t, n.validate(hash, stx))
	o := n.execute(hash, stx.Transaction)

	require.Equal(t, protocol.ExecutionStatusSuccessValue, o.Status.Kind)
	require.Equal(t, hash, o.TransactionHash())
	require.Len(t, o.ReceiptsOutcome, 1)
	require.Equal(t, "bob.test", o.ReceiptsOutcome[0].Outcome.ExecutorID)
	require.Equal(t, near(t, "8").String(), n.Balance("alice.test").String())
	require.Equal(t, near(t, "3").String(), n.Balance("bob.test").String())
}

func TestExecuteAccounts(t *testing.T) {
	n, key := setup(t)
	newKey, err := signing.GenerateKeyPair(protocol.KeyTypeED25519)
	require.NoError(t, err)

	hash, stx := sign(t, n, key, 6, "carol.test",
		&protocol.CreateAccount{},
		&protocol.Transfer{Deposit: near(t, "1")},
		&protocol.AddKey{PublicKey: newKey.PublicKey(), AccessKey: protocol.FullAccess()})
	require.Nil(t, n.validate(hash, stx))
	o := n.execute(hash, stx.Transaction)
	require.Equal(t, protocol.ExecutionStatusSuccessValue, o.Status.Kind)
	require.True(t, n.HasAccount("carol.test"))
	require.Equal(t, uint64(0), n.Nonce("carol.test", newKey.PublicKey()))

	hash, stx = sign(t, n, key, 7, "dave.test", &protocol.Transfer{Deposit: near(t, "1")})
	require.Nil(t, n.validate(hash, stx))
	o = n.execute(hash, stx.Transaction)
	require.Equal(t, protocol.ExecutionStatusFailure, o.Status.Kind)
	require.Equal(t, "AccountDoesNotExist", o.Status.Failure.KindName())
}

func TestExecuteFunctionCall(t *testing.T) {
	n, key := setup(t)
	n.AddAccount("token.test", near(t, "1"))
	n.SetContract("token.test", func(call *protocol.FunctionCall) *Execution {
		require.Equal(t, "ft_transfer_call", call.MethodName)
		return &Execution{
			Logs:   []string{"transfer started"},
			Return: []byte(`"ok"`),
			Spawn: []*Execution{{
				Executor: "receiver.test",
				Logs:     []string{"callback"},
				Spawn:    []*Execution{{Executor: "receiver.test", Fail: "Smart contract panicked: no"}},
			}},
		}
	})

	hash, stx := sign(t, n, key, 6, "token.test", &protocol.FunctionCall{
		MethodName: "ft_transfer_call",
		Args:       []byte(`{}`),
		Gas:        30_000_000_000_000,
		Deposit:    protocol.NewU128(1),
	})
	require.Nil(t, n.validate(hash, stx))
	o := n.execute(hash, stx.Transaction)
	require.Equal(t, protocol.ExecutionStatusFailure, o.Status.Kind)

	v, err := outcome.Resolve(context.Background(), o)
	require.NoError(t, err)
	require.False(t, v.Success())
	require.Equal(t, 3, v.Failure.Depth)
	require.Equal(t, "receiver.test", v.Failure.ExecutorID)
	require.Equal(t, []string{"transfer started", "callback"}, v.LogMessages())

	// The call receipt, two spawned receipts, and the refund
	require.Len(t, o.ReceiptsOutcome, 4)
}

func TestExecuteMissingContract(t *testing.T) {
	n, key := setup(t)
	hash, stx := sign(t, n, key, 6, "bob.test", &protocol.FunctionCall{MethodName: "get", Gas: 1})
	require.Nil(t, n.validate(hash, stx))
	o := n.execute(hash, stx.Transaction)
	require.Equal(t, protocol.ExecutionStatusFailure, o.Status.Kind)
	require.Equal(t, "FunctionCallError", o.Status.Failure.KindName())
}

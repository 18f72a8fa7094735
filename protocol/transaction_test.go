// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	. "github.com/Olovorr/near-api-js-ext/protocol"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func testKey(seed byte) *PublicKey {
	return &PublicKey{Type: KeyTypeED25519, Data: bytes.Repeat([]byte{seed}, 32)}
}

func testTransfer(nonce uint64, amount uint64) *Transaction {
	return &Transaction{
		SignerID:   "alice.near",
		PublicKey:  testKey(1),
		Nonce:      nonce,
		ReceiverID: "bob.near",
		BlockHash:  CryptoHash{2},
		Actions:    []Action{&Transfer{Deposit: NewU128(amount)}},
	}
}

func TestTransactionLayout(t *testing.T) {
	tx := testTransfer(6, 1)
	b, err := tx.MarshalBinary()
	require.NoError(t, err)

	var want []byte
	u32 := func(v uint32) { want = binary.LittleEndian.AppendUint32(want, v) }
	str := func(s string) { u32(uint32(len(s))); want = append(want, s...) }

	str("alice.near")
	want = append(want, 0)
	want = append(want, bytes.Repeat([]byte{1}, 32)...)
	want = binary.LittleEndian.AppendUint64(want, 6)
	str("bob.near")
	want = append(want, 2)
	want = append(want, make([]byte, 31)...)
	u32(1)
	want = append(want, 3, 1)
	want = append(want, make([]byte, 15)...)

	require.Equal(t, want, b)

	hash, err := tx.Hash()
	require.NoError(t, err)
	require.Equal(t, CryptoHash(sha256.Sum256(want)), hash)
}

func TestTransactionRoundTrip(t *testing.T) {
	allowance := NewU128(1000)
	tx := &Transaction{
		SignerID:   "alice.near",
		PublicKey:  testKey(1),
		Nonce:      42,
		ReceiverID: "contract.near",
		BlockHash:  CryptoHash{9, 8, 7},
		Actions: []Action{
			&CreateAccount{},
			&DeployContract{Code: []byte{0, 97, 115, 109}},
			&FunctionCall{MethodName: "set", Args: []byte(`{"x":1}`), Gas: 30_000_000_000_000, Deposit: NewU128(1)},
			&Transfer{Deposit: NewU128(5)},
			&Stake{Stake: NewU128(7), PublicKey: testKey(3)},
			&AddKey{PublicKey: testKey(4), AccessKey: AccessKey{Permission: AccessPermission{
				FunctionCall: &FunctionCallPermission{Allowance: &allowance, ReceiverID: "contract.near", MethodNames: []string{"a", "b"}},
			}}},
			&AddKey{PublicKey: testKey(5), AccessKey: FullAccess()},
			&DeleteKey{PublicKey: testKey(4)},
			&DeleteAccount{BeneficiaryID: "bob.near"},
			&Delegate{SignedDelegate{
				DelegateAction: DelegateAction{
					SenderID:       "carol.near",
					ReceiverID:     "dave.near",
					Actions:        []Action{&Transfer{Deposit: NewU128(1)}},
					Nonce:          3,
					MaxBlockHeight: 100,
					PublicKey:      testKey(6),
				},
				Signature: &Signature{Type: KeyTypeED25519, Data: make([]byte, 64)},
			}},
		},
	}

	b, err := tx.MarshalBinary()
	require.NoError(t, err)

	tx2 := new(Transaction)
	require.NoError(t, tx2.UnmarshalBinary(b))
	b2, err := tx2.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, b, b2)
	require.Len(t, tx2.Actions, len(tx.Actions))
	for i := range tx.Actions {
		require.Equal(t, tx.Actions[i].Type(), tx2.Actions[i].Type())
	}
}

func TestSignedTransactionRoundTrip(t *testing.T) {
	stx := &SignedTransaction{
		Transaction: testTransfer(1, 2),
		Signature:   &Signature{Type: KeyTypeSECP256K1, Data: bytes.Repeat([]byte{7}, 65)},
	}
	b, err := stx.MarshalBinary()
	require.NoError(t, err)

	stx2 := new(SignedTransaction)
	require.NoError(t, stx2.UnmarshalBinary(b))
	require.Equal(t, stx.Signature.Data, stx2.Signature.Data)

	h1, err := stx.Hash()
	require.NoError(t, err)
	h2, err := stx2.Hash()
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

func TestEncodingConstraints(t *testing.T) {
	cases := map[string]*Transaction{
		"Long method name": {
			SignerID: "alice.near", ReceiverID: "bob.near", PublicKey: testKey(1),
			Actions: []Action{&FunctionCall{MethodName: strings.Repeat("x", MaxMethodNameLength+1)}},
		},
		"Invalid signer": {
			SignerID: "Alice", ReceiverID: "bob.near", PublicKey: testKey(1),
		},
		"Short key": {
			SignerID: "alice.near", ReceiverID: "bob.near", PublicKey: &PublicKey{Type: KeyTypeED25519, Data: []byte{1}},
		},
		"Missing key": {
			SignerID: "alice.near", ReceiverID: "bob.near",
		},
		"Nested delegate": {
			SignerID: "alice.near", ReceiverID: "bob.near", PublicKey: testKey(1),
			Actions: []Action{&Delegate{SignedDelegate{
				DelegateAction: DelegateAction{
					SenderID: "carol.near", ReceiverID: "dave.near", PublicKey: testKey(2),
					Actions: []Action{&Delegate{}},
				},
				Signature: &Signature{Type: KeyTypeED25519, Data: make([]byte, 64)},
			}}},
		},
	}

	for name, tx := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tx.MarshalBinary()
			require.Error(t, err)
			require.Equal(t, errors.EncodingError, errors.Code(err))
		})
	}
}

func TestUnmarshalTrailingBytes(t *testing.T) {
	b, err := testTransfer(1, 1).MarshalBinary()
	require.NoError(t, err)
	require.Error(t, new(Transaction).UnmarshalBinary(append(b, 0)))
	require.Error(t, new(Transaction).UnmarshalBinary(b[:len(b)-1]))
}

func TestDelegateSigningHash(t *testing.T) {
	d := &DelegateAction{
		SenderID: "carol.near", ReceiverID: "dave.near", PublicKey: testKey(2),
		Actions: []Action{&Transfer{Deposit: NewU128(1)}}, Nonce: 1, MaxBlockHeight: 10,
	}
	sd := &SignedDelegate{DelegateAction: *d, Signature: &Signature{Type: KeyTypeED25519, Data: make([]byte, 64)}}
	b, err := sd.MarshalBinary()
	require.NoError(t, err)

	// The signed payload is the prefix followed by the delegate action,
	// which is the head of the signed delegate encoding
	payload := binary.LittleEndian.AppendUint32(nil, DelegateActionPrefix)
	payload = append(payload, b[:len(b)-65]...)

	h, err := d.SigningHash()
	require.NoError(t, err)
	require.Equal(t, CryptoHash(sha256.Sum256(payload)), h)
}

func genTransaction(t *rapid.T) *Transaction {
	id := rapid.StringMatching(`[a-z][a-z0-9]{1,10}\.near`)
	return &Transaction{
		SignerID:   id.Draw(t, "signer"),
		PublicKey:  &PublicKey{Type: KeyTypeED25519, Data: rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "key")},
		Nonce:      rapid.Uint64().Draw(t, "nonce"),
		ReceiverID: id.Draw(t, "receiver"),
		BlockHash:  CryptoHash(rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "block")),
		Actions: []Action{
			&Transfer{Deposit: NewU128(rapid.Uint64().Draw(t, "deposit"))},
			&FunctionCall{
				MethodName: rapid.StringMatching(`[a-z_]{1,20}`).Draw(t, "method"),
				Args:       rapid.SliceOf(rapid.Byte()).Draw(t, "args"),
				Gas:        rapid.Uint64().Draw(t, "gas"),
			},
		},
	}
}

func TestEncodeDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tx := genTransaction(t)
		b1, err := tx.MarshalBinary()
		require.NoError(t, err)
		b2, err := tx.MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, b1, b2)

		tx2 := new(Transaction)
		require.NoError(t, tx2.UnmarshalBinary(b1))
		b3, err := tx2.MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, b1, b3)
	})
}

func TestEncodeFieldSensitivity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tx := genTransaction(t)
		h1, err := tx.Hash()
		require.NoError(t, err)

		switch rapid.IntRange(0, 4).Draw(t, "field") {
		case 0:
			tx.Nonce++
		case 1:
			tx.BlockHash[rapid.IntRange(0, 31).Draw(t, "byte")] ^= 1
		case 2:
			tx.PublicKey.Data[rapid.IntRange(0, 31).Draw(t, "byte")] ^= 1
		case 3:
			tx.ReceiverID = "x" + tx.ReceiverID
		case 4:
			tx.Actions[1].(*FunctionCall).Gas ^= 1
		}

		h2, err := tx.Hash()
		require.NoError(t, err)
		require.NotEqual(t, h1, h2)
	})
}

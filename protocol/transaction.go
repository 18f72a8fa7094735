// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"github.com/Olovorr/near-api-js-ext/pkg/types/encoding"
)

// Transaction is an unsigned transaction. Its canonical encoding is the
// signing payload and the source of its hash.
type Transaction struct {
	SignerID   string
	PublicKey  *PublicKey
	Nonce      uint64
	ReceiverID string
	BlockHash  CryptoHash
	Actions    []Action
}

// SignedTransaction is a transaction plus the signature over its hash.
type SignedTransaction struct {
	Transaction *Transaction
	Signature   *Signature
}

func (tx *Transaction) WriteBinary(w *encoding.Writer) {
	if err := ValidateAccountID(tx.SignerID); err != nil {
		w.Fail("signer: %v", err)
		return
	}
	if err := ValidateAccountID(tx.ReceiverID); err != nil {
		w.Fail("receiver: %v", err)
		return
	}

	w.WriteString(tx.SignerID)
	w.WriteValue(tx.PublicKey)
	w.WriteU64(tx.Nonce)
	w.WriteString(tx.ReceiverID)
	w.WriteValue(tx.BlockHash)
	writeActions(w, tx.Actions, true)
}

func (tx *Transaction) ReadBinary(r *encoding.Reader) {
	tx.SignerID = r.ReadString()
	tx.PublicKey = new(PublicKey)
	r.ReadValue(tx.PublicKey)
	tx.Nonce = r.ReadU64()
	tx.ReceiverID = r.ReadString()
	r.ReadValue(&tx.BlockHash)
	tx.Actions = readActions(r, true)
}

// MarshalBinary returns the canonical encoding of the transaction. It fails
// with EncodingError if a field violates a size or range constraint.
func (tx *Transaction) MarshalBinary() ([]byte, error) {
	return encoding.Marshal(tx)
}

// UnmarshalBinary decodes a transaction.
func (tx *Transaction) UnmarshalBinary(b []byte) error {
	return encoding.Unmarshal(b, tx)
}

// Hash returns the SHA-256 digest of the canonical encoding.
func (tx *Transaction) Hash() (CryptoHash, error) {
	b, err := tx.MarshalBinary()
	if err != nil {
		return CryptoHash{}, err
	}
	return HashBytes(b), nil
}

func (tx *SignedTransaction) WriteBinary(w *encoding.Writer) {
	if tx.Transaction == nil {
		w.Fail("missing transaction")
		return
	}
	w.WriteValue(tx.Transaction)
	w.WriteValue(tx.Signature)
}

func (tx *SignedTransaction) ReadBinary(r *encoding.Reader) {
	tx.Transaction = new(Transaction)
	r.ReadValue(tx.Transaction)
	tx.Signature = new(Signature)
	r.ReadValue(tx.Signature)
}

func (tx *SignedTransaction) MarshalBinary() ([]byte, error) {
	return encoding.Marshal(tx)
}

func (tx *SignedTransaction) UnmarshalBinary(b []byte) error {
	return encoding.Unmarshal(b, tx)
}

// Hash returns the hash of the inner transaction. The signature does not
// contribute to the hash.
func (tx *SignedTransaction) Hash() (CryptoHash, error) {
	return tx.Transaction.Hash()
}

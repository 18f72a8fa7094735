// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"bytes"
	"crypto/sha256"

	"github.com/Olovorr/near-api-js-ext/pkg/types/encoding"
)

// DelegateAction is a set of actions a sender authorizes a relayer to
// submit on its behalf.
type DelegateAction struct {
	SenderID       string
	ReceiverID     string
	Actions        []Action
	Nonce          uint64
	MaxBlockHeight uint64
	PublicKey      *PublicKey
}

// SignedDelegate is a delegate action and the sender's signature over its
// signing hash.
type SignedDelegate struct {
	DelegateAction DelegateAction
	Signature      *Signature
}

func (d *DelegateAction) WriteBinary(w *encoding.Writer) {
	if err := ValidateAccountID(d.SenderID); err != nil {
		w.Fail("sender: %v", err)
		return
	}
	if err := ValidateAccountID(d.ReceiverID); err != nil {
		w.Fail("receiver: %v", err)
		return
	}

	w.WriteString(d.SenderID)
	w.WriteString(d.ReceiverID)
	writeActions(w, d.Actions, false)
	w.WriteU64(d.Nonce)
	w.WriteU64(d.MaxBlockHeight)
	w.WriteValue(d.PublicKey)
}

func (d *DelegateAction) ReadBinary(r *encoding.Reader) {
	d.SenderID = r.ReadString()
	d.ReceiverID = r.ReadString()
	d.Actions = readActions(r, false)
	d.Nonce = r.ReadU64()
	d.MaxBlockHeight = r.ReadU64()
	d.PublicKey = new(PublicKey)
	r.ReadValue(d.PublicKey)
}

// SigningHash returns SHA-256(u32(DelegateActionPrefix) || encode(d)), the
// message the sender signs.
func (d *DelegateAction) SigningHash() (CryptoHash, error) {
	buf := new(bytes.Buffer)
	w := encoding.NewWriter(buf)
	w.WriteU32(DelegateActionPrefix)
	w.WriteValue(d)
	if _, err := w.Done(); err != nil {
		return CryptoHash{}, err
	}
	return sha256.Sum256(buf.Bytes()), nil
}

func (d *SignedDelegate) WriteBinary(w *encoding.Writer) {
	w.WriteValue(&d.DelegateAction)
	w.WriteValue(d.Signature)
}

func (d *SignedDelegate) ReadBinary(r *encoding.Reader) {
	r.ReadValue(&d.DelegateAction)
	d.Signature = new(Signature)
	r.ReadValue(d.Signature)
}

func (d *SignedDelegate) MarshalBinary() ([]byte, error) {
	return encoding.Marshal(d)
}

func (d *SignedDelegate) UnmarshalBinary(b []byte) error {
	return encoding.Unmarshal(b, d)
}

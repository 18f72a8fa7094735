// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package build

import (
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/protocol"
)

type TransactionBuilder struct {
	parser
	t protocol.Transaction
}

func Transaction() TransactionBuilder {
	return TransactionBuilder{}
}

func (b TransactionBuilder) From(signerID string) TransactionBuilder {
	b.t.SignerID = b.parseAccountID(signerID)
	return b
}

func (b TransactionBuilder) To(receiverID string) TransactionBuilder {
	b.t.ReceiverID = b.parseAccountID(receiverID)
	return b
}

func (b TransactionBuilder) WithKey(key any) TransactionBuilder {
	b.t.PublicKey = b.parsePublicKey(key)
	return b
}

func (b TransactionBuilder) WithNonce(nonce uint64) TransactionBuilder {
	b.t.Nonce = nonce
	return b
}

func (b TransactionBuilder) WithBlockHash(hash any) TransactionBuilder {
	b.t.BlockHash = b.parseHash(hash)
	return b
}

func (b TransactionBuilder) WithActions(actions ...protocol.Action) TransactionBuilder {
	b.t.Actions = append(b.t.Actions[:len(b.t.Actions):len(b.t.Actions)], actions...)
	return b
}

// Do appends the actions of an actions builder, including its errors.
func (b TransactionBuilder) Do(actions ActionsBuilder) TransactionBuilder {
	b.record(actions.errs...)
	return b.WithActions(actions.actions...)
}

func (b TransactionBuilder) Build() (*protocol.Transaction, error) {
	if b.t.SignerID == "" {
		b.errorf(errors.BadRequest, "missing signer")
	}
	if b.t.ReceiverID == "" {
		b.errorf(errors.BadRequest, "missing receiver")
	}
	if b.t.PublicKey == nil {
		b.errorf(errors.BadRequest, "missing public key")
	}
	if b.t.BlockHash.IsZero() {
		b.errorf(errors.BadRequest, "missing block hash")
	}
	if !b.ok() {
		return nil, b.err()
	}
	t := b.t
	return &t, nil
}

// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package signing

import (
	"context"

	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/protocol"
)

// Signer signs transactions and delegate actions with keys from a
// KeyProvider.
type Signer struct {
	Keys      KeyProvider
	NetworkID string
}

// Sign signs the hash of the transaction with the signer account's key.
// Encoding failures are returned as is; every key provider failure is a
// SigningError.
func (s *Signer) Sign(ctx context.Context, tx *protocol.Transaction) (*protocol.SignedTransaction, error) {
	hash, err := tx.Hash()
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}

	sig, err := s.sign(ctx, tx.SignerID, hash[:])
	if err != nil {
		return nil, err
	}
	return &protocol.SignedTransaction{Transaction: tx, Signature: sig}, nil
}

// SignDelegate signs a delegate action with the sender account's key.
func (s *Signer) SignDelegate(ctx context.Context, action *protocol.DelegateAction) (*protocol.SignedDelegate, error) {
	hash, err := action.SigningHash()
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}

	sig, err := s.sign(ctx, action.SenderID, hash[:])
	if err != nil {
		return nil, err
	}
	return &protocol.SignedDelegate{DelegateAction: *action, Signature: sig}, nil
}

func (s *Signer) sign(ctx context.Context, accountID string, message []byte) (*protocol.Signature, error) {
	if s.Keys == nil {
		return nil, errors.SigningError.With("no key provider")
	}

	sig, err := s.Keys.Sign(ctx, accountID, s.NetworkID, message)
	switch {
	case err != nil:
		return nil, errors.SigningError.WithCauseAndFormat(err, "sign for %s: %v", accountID, err)
	case sig == nil:
		return nil, errors.SigningError.WithFormat("key provider returned no signature for %s", accountID)
	}
	if err := sig.Validate(); err != nil {
		return nil, errors.SigningError.WithCauseAndFormat(err, "key provider returned an invalid signature")
	}
	return sig, nil
}

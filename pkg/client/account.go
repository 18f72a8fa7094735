// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/Olovorr/near-api-js-ext/internal/logging"
	"github.com/Olovorr/near-api-js-ext/pkg/api"
	"github.com/Olovorr/near-api-js-ext/pkg/build"
	"github.com/Olovorr/near-api-js-ext/pkg/client/nonce"
	"github.com/Olovorr/near-api-js-ext/pkg/client/outcome"
	"github.com/Olovorr/near-api-js-ext/pkg/client/signing"
	"github.com/Olovorr/near-api-js-ext/pkg/client/submit"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/protocol"
)

// NonceAllocator hands out nonces for access keys.
type NonceAllocator interface {
	Reserve(ctx context.Context, accountID string, key *protocol.PublicKey) (uint64, error)
	Invalidate(accountID string, key *protocol.PublicKey)
	Observe(accountID string, key *protocol.PublicKey, nonce uint64)
}

const (
	DefaultBlockCacheTTL = 10 * time.Second

	// DefaultDelegateTTL is how many blocks a signed delegate action stays
	// valid.
	DefaultDelegateTTL = 120
)

// Config configures an [Account].
type Config struct {
	AccountID string
	NetworkID string
	Client    api.NetworkClient
	Keys      signing.KeyProvider

	// Nonces defaults to a [nonce.Allocator] backed by Client.
	Nonces NonceAllocator

	Submit        submit.Options
	Finality      api.Finality
	BlockCacheTTL time.Duration
	DelegateTTL   uint64
}

// Account sends transactions signed by one account.
type Account struct {
	id          string
	client      api.NetworkClient
	keys        signing.KeyProvider
	signer      *signing.Signer
	nonces      NonceAllocator
	submitter   *submit.Submitter
	blocks      *blockCache
	finality    api.Finality
	delegateTTL uint64
}

func New(cfg Config) (*Account, error) {
	if err := protocol.ValidateAccountID(cfg.AccountID); err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	if cfg.Client == nil {
		return nil, errors.BadRequest.With("missing network client")
	}
	if cfg.Keys == nil {
		return nil, errors.BadRequest.With("missing key provider")
	}

	a := new(Account)
	a.id = cfg.AccountID
	a.client = cfg.Client
	a.keys = cfg.Keys
	a.signer = &signing.Signer{Keys: cfg.Keys, NetworkID: cfg.NetworkID}
	a.nonces = cfg.Nonces
	if a.nonces == nil {
		a.nonces = nonce.New(cfg.Client)
	}
	a.submitter = submit.New(cfg.Client, cfg.Submit)

	a.finality = cfg.Finality
	if a.finality == "" {
		a.finality = api.FinalityFinal
	}
	ttl := cfg.BlockCacheTTL
	if ttl <= 0 {
		ttl = DefaultBlockCacheTTL
	}
	a.blocks = newBlockCache(cfg.Client, ttl)
	a.delegateTTL = cfg.DelegateTTL
	if a.delegateTTL == 0 {
		a.delegateTTL = DefaultDelegateTTL
	}
	return a, nil
}

func (a *Account) ID() string { return a.id }

// PublicKey returns the key the account signs with.
func (a *Account) PublicKey(ctx context.Context) (*protocol.PublicKey, error) {
	key, err := a.keys.PublicKey(ctx, a.id, a.signer.NetworkID)
	switch {
	case err != nil:
		return nil, errors.SigningError.WithCauseAndFormat(err, "load key of %s: %v", a.id, err)
	case key == nil:
		return nil, errors.SigningError.WithFormat("no key for %s on %s", a.id, a.signer.NetworkID)
	}
	return key, nil
}

// AccessKey returns the on-chain access key the account signs with.
func (a *Account) AccessKey(ctx context.Context) (*api.AccessKeyView, error) {
	key, err := a.PublicKey(ctx)
	if err != nil {
		return nil, err
	}
	return a.client.ViewAccessKey(ctx, a.id, key)
}

// SendTransaction signs, submits, and resolves a transaction. If the
// transaction executed but a receipt failed, the outcome is returned along
// with a ReceiptFailure error.
//
// If the network rejects the nonce, the allocator skips past the nonce the
// network reports as committed (or reloads it when none is reported) and the
// transaction is signed and submitted once more. A second conflict is a
// NonceConflict error.
func (a *Account) SendTransaction(ctx context.Context, receiverID string, actions []protocol.Action, opts ...Option) (*protocol.FinalExecutionOutcome, error) {
	o := applyOptions(opts)
	ctx = logging.With(ctx, "signer", a.id, "receiver", receiverID)

	key, err := a.PublicKey(ctx)
	if err != nil {
		return nil, a.done(err)
	}

	blockHash, err := a.referenceBlock(ctx, o)
	if err != nil {
		return nil, a.done(err)
	}

	for attempt := 1; ; attempt++ {
		n, err := a.nonce(ctx, key, o)
		if err != nil {
			return nil, a.done(err)
		}

		result, err := a.send(ctx, key, n, blockHash, receiverID, actions, o)
		if err == nil {
			if o.nonce != nil {
				a.nonces.Observe(a.id, key, n)
			}
			return result, a.done(nil)
		}

		rpcErr, ok := nonceConflict(err)
		if !ok {
			return result, a.done(err)
		}

		switch {
		case o.nonce != nil:
			return nil, a.done(errors.NonceConflict.WithCauseAndFormat(rpcErr, "nonce %d was rejected: %v", n, rpcErr))
		case attempt > 1:
			a.nonces.Invalidate(a.id, key)
			return nil, a.done(errors.NonceConflict.WithCauseAndFormat(rpcErr, "nonce %d was rejected after a refresh: %v", n, rpcErr))
		}

		mNonceRetries.Inc()
		if _, committed, ok := rpcErr.InvalidNonce(); ok && committed >= n {
			slog.InfoContext(ctx, "Nonce was rejected, skipping ahead", "module", "client", "nonce", n, "committed", committed)
			a.nonces.Observe(a.id, key, committed)
			continue
		}

		slog.InfoContext(ctx, "Nonce was rejected, reloading", "module", "client", "nonce", n, "error", rpcErr)
		a.nonces.Invalidate(a.id, key)
	}
}

func (a *Account) send(ctx context.Context, key *protocol.PublicKey, n uint64, blockHash protocol.CryptoHash, receiverID string, actions []protocol.Action, o sendOptions) (*protocol.FinalExecutionOutcome, error) {
	tx, err := build.Transaction().
		From(a.id).
		To(receiverID).
		WithKey(key).
		WithNonce(n).
		WithBlockHash(blockHash).
		WithActions(actions...).
		Build()
	if err != nil {
		return nil, err
	}

	stx, err := a.signer.Sign(ctx, tx)
	if err != nil {
		return nil, err
	}

	hash, err := a.submitter.Broadcast(ctx, stx)
	if err != nil {
		return nil, err
	}

	ctx = logging.With(ctx, "hash", hash)
	slog.DebugContext(ctx, "Broadcast transaction", "module", "client", "nonce", n)
	return a.wait(ctx, hash, o.waitTimeout)
}

// WaitForTransaction waits for a transaction the account already sent, for
// example after SendTransaction returned PendingTimeout.
func (a *Account) WaitForTransaction(ctx context.Context, hash protocol.CryptoHash, timeout time.Duration) (*protocol.FinalExecutionOutcome, error) {
	ctx = logging.With(ctx, "signer", a.id, "hash", hash)
	result, err := a.wait(ctx, hash, timeout)
	return result, a.done(err)
}

func (a *Account) wait(ctx context.Context, hash protocol.CryptoHash, timeout time.Duration) (*protocol.FinalExecutionOutcome, error) {
	result, err := a.submitter.Wait(ctx, hash, a.id, timeout)
	if err != nil {
		return nil, err
	}

	verdict, err := outcome.Resolve(ctx, result)
	if err != nil {
		return result, err
	}
	return result, verdict.Err()
}

// SignDelegate creates a signed delegate action that a relayer can submit
// on behalf of the account.
func (a *Account) SignDelegate(ctx context.Context, receiverID string, actions []protocol.Action, opts ...Option) (*protocol.SignedDelegate, error) {
	o := applyOptions(opts)

	key, err := a.PublicKey(ctx)
	if err != nil {
		return nil, err
	}

	block, err := a.blocks.Get(ctx, a.finality)
	if err != nil {
		return nil, err
	}

	n, err := a.nonce(ctx, key, o)
	if err != nil {
		return nil, err
	}

	if err := protocol.ValidateAccountID(receiverID); err != nil {
		return nil, err
	}
	return a.signer.SignDelegate(ctx, &protocol.DelegateAction{
		SenderID:       a.id,
		ReceiverID:     receiverID,
		Actions:        actions,
		Nonce:          n,
		MaxBlockHeight: block.Header.Height + a.delegateTTL,
		PublicKey:      key,
	})
}

// SendMoney transfers an amount of yoctoNEAR.
func (a *Account) SendMoney(ctx context.Context, receiverID string, amount protocol.U128, opts ...Option) (*protocol.FinalExecutionOutcome, error) {
	actions, err := build.Actions().Transfer(amount).Build()
	if err != nil {
		return nil, err
	}
	return a.SendTransaction(ctx, receiverID, actions, opts...)
}

// FunctionCall calls a contract method. Args are passed through if they are
// bytes and JSON encoded otherwise. Zero gas means the default.
func (a *Account) FunctionCall(ctx context.Context, contractID, method string, args any, gas uint64, deposit protocol.U128, opts ...Option) (*protocol.FinalExecutionOutcome, error) {
	var g any
	if gas != 0 {
		g = gas
	}
	actions, err := build.Actions().FunctionCall(method, args, g, deposit).Build()
	if err != nil {
		return nil, err
	}
	return a.SendTransaction(ctx, contractID, actions, opts...)
}

func (a *Account) nonce(ctx context.Context, key *protocol.PublicKey, o sendOptions) (uint64, error) {
	if o.nonce != nil {
		return *o.nonce, nil
	}
	n, err := a.nonces.Reserve(ctx, a.id, key)
	if err != nil {
		return 0, errors.UnknownError.WithFormat("reserve nonce: %w", err)
	}
	return n, nil
}

func (a *Account) referenceBlock(ctx context.Context, o sendOptions) (protocol.CryptoHash, error) {
	if o.blockHash != nil {
		return *o.blockHash, nil
	}
	b, err := a.blocks.Get(ctx, a.finality)
	if err != nil {
		return protocol.CryptoHash{}, err
	}
	return b.Header.Hash, nil
}

func (a *Account) done(err error) error {
	if err == nil {
		mSent.WithLabelValues("ok").Inc()
	} else {
		mSent.WithLabelValues(errors.Code(err).String()).Inc()
	}
	return err
}

func nonceConflict(err error) (*api.RPCError, bool) {
	var rpcErr *api.RPCError
	if !errors.As(err, &rpcErr) {
		return nil, false
	}
	return rpcErr, rpcErr.Kind == api.ErrorKindInvalidNonce
}

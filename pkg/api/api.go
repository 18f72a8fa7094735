// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package api

import (
	"context"

	"github.com/Olovorr/near-api-js-ext/protocol"
)

type AccessKeyQuerier interface {
	// ViewAccessKey returns the on-chain record of an access key. It fails
	// with NotFound if the account or key does not exist.
	ViewAccessKey(ctx context.Context, accountID string, key *protocol.PublicKey) (*AccessKeyView, error)
}

type BlockQuerier interface {
	// Block returns the header of the referenced block.
	Block(ctx context.Context, ref BlockReference) (*BlockView, error)
}

type Broadcaster interface {
	// BroadcastTransaction submits an encoded signed transaction and returns
	// its hash without waiting for it to execute.
	BroadcastTransaction(ctx context.Context, signed []byte) (protocol.CryptoHash, error)
}

type TransactionQuerier interface {
	// TransactionStatus returns the outcome of a transaction. It fails with
	// [ErrPending] if the transaction has not reached a final state.
	TransactionStatus(ctx context.Context, hash protocol.CryptoHash, senderID string) (*protocol.FinalExecutionOutcome, error)
}

// NetworkClient is everything the submission pipeline needs from the
// network.
type NetworkClient interface {
	AccessKeyQuerier
	BlockQuerier
	Broadcaster
	TransactionQuerier
}

// Finality is how final a block must be to be used as a reference.
type Finality string

const (
	FinalityOptimistic Finality = "optimistic"
	FinalityNearFinal  Finality = "near-final"
	FinalityFinal      Finality = "final"
)

// BlockReference selects a block by finality, height, or hash. Exactly one
// should be set; a zero reference means final.
type BlockReference struct {
	Finality Finality
	Height   *uint64
	Hash     *protocol.CryptoHash
}

// AccessKeyView is an access key as of a block.
type AccessKeyView struct {
	protocol.AccessKey
	BlockHeight uint64              `json:"block_height"`
	BlockHash   protocol.CryptoHash `json:"block_hash"`
}

// BlockView is the part of a block the client uses.
type BlockView struct {
	Author string      `json:"author"`
	Header BlockHeader `json:"header"`
}

type BlockHeader struct {
	Height    uint64              `json:"height"`
	Hash      protocol.CryptoHash `json:"hash"`
	PrevHash  protocol.CryptoHash `json:"prev_hash"`
	Timestamp uint64              `json:"timestamp"`
	ChainID   string              `json:"chain_id,omitempty"`
}

// TxExecutionStatus is how far a transaction must progress before the
// transaction status call returns.
type TxExecutionStatus string

const (
	TxStatusNone               TxExecutionStatus = "NONE"
	TxStatusIncluded           TxExecutionStatus = "INCLUDED"
	TxStatusExecutedOptimistic TxExecutionStatus = "EXECUTED_OPTIMISTIC"
	TxStatusIncludedFinal      TxExecutionStatus = "INCLUDED_FINAL"
	TxStatusExecuted           TxExecutionStatus = "EXECUTED"
	TxStatusFinal              TxExecutionStatus = "FINAL"
)

// HasOutcome returns true if a transaction at this status has an execution
// outcome.
func (s TxExecutionStatus) HasOutcome() bool {
	switch s {
	case TxStatusExecutedOptimistic, TxStatusExecuted, TxStatusFinal:
		return true
	default:
		return false
	}
}

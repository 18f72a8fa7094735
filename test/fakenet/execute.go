// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package fakenet

import (
	"encoding/binary"
	"encoding/json"
	"math/big"

	"github.com/AccumulateNetwork/jsonrpc2/v15"
	"github.com/Olovorr/near-api-js-ext/pkg/client/signing"
	"github.com/Olovorr/near-api-js-ext/protocol"
)

type obj = map[string]interface{}

func invalidTx(v interface{}) *jsonrpc2.Error {
	err := Error(obj{"TxExecutionError": obj{"InvalidTxError": v}})
	return &err
}

// validate checks the signature, access key, nonce, reference block, and
// balance. On success it commits the nonce. The caller must hold the lock.
func (n *Network) validate(hash protocol.CryptoHash, stx *protocol.SignedTransaction) *jsonrpc2.Error {
	tx := stx.Transaction
	if !signing.Verify(tx.PublicKey, hash[:], stx.Signature) {
		return invalidTx("InvalidSignature")
	}

	signer, ok := n.accounts[tx.SignerID]
	if !ok {
		return invalidTx(obj{"SignerDoesNotExist": obj{"signer_id": tx.SignerID}})
	}
	ak, ok := signer.keys[keyID(tx.PublicKey)]
	if !ok {
		return invalidTx(obj{"InvalidAccessKeyError": obj{"AccessKeyNotFound": obj{
			"account_id": tx.SignerID,
			"public_key": tx.PublicKey.String(),
		}}})
	}
	if tx.Nonce <= ak.floor || ak.used[tx.Nonce] {
		return invalidTx(obj{"InvalidNonce": obj{"tx_nonce": tx.Nonce, "ak_nonce": ak.Nonce}})
	}

	var known bool
	for _, b := range n.blocks {
		if b.hash == tx.BlockHash {
			known = true
			break
		}
	}
	if !known {
		return invalidTx("Expired")
	}

	cost := new(big.Int)
	for _, a := range tx.Actions {
		switch a := a.(type) {
		case *protocol.Transfer:
			cost.Add(cost, a.Deposit.Big())
		case *protocol.FunctionCall:
			cost.Add(cost, a.Deposit.Big())
		}
	}
	if signer.balance.Big().Cmp(cost) < 0 {
		return invalidTx(obj{"NotEnoughBalance": obj{
			"signer_id": tx.SignerID,
			"balance":   signer.balance.String(),
			"cost":      cost.String(),
		}})
	}

	ak.used[tx.Nonce] = true
	if tx.Nonce > ak.Nonce {
		ak.Nonce = tx.Nonce
	}
	return nil
}

// execute runs a valid transaction. The transaction converts into a receipt
// on the receiver, which runs the actions. The caller must hold the lock.
func (n *Network) execute(hash protocol.CryptoHash, tx *protocol.Transaction) *protocol.FinalExecutionOutcome {
	b := n.blocks[len(n.blocks)-1]
	x := &executor{net: n, block: b.hash, value: []byte{}}

	receipt := receiptID(hash, 0)
	root := protocol.ExecutionOutcomeWithID{
		ID:        hash,
		BlockHash: b.hash,
		Outcome: protocol.ExecutionOutcome{
			ReceiptIDs: []protocol.CryptoHash{receipt},
			GasBurnt:   2_428_000_000_000,
			ExecutorID: tx.SignerID,
			Status:     protocol.ExecutionStatus{Kind: protocol.ExecutionStatusSuccessReceiptID, SuccessReceiptID: receipt},
		},
	}

	x.runActions(receipt, tx.SignerID, tx.ReceiverID, tx.Actions)

	out := &protocol.FinalExecutionOutcome{
		TransactionOutcome: root,
		ReceiptsOutcome:    x.receipts,
	}
	if x.failure != nil {
		out.Status = protocol.ExecutionStatus{Kind: protocol.ExecutionStatusFailure, Failure: x.failure}
	} else {
		out.Status = protocol.ExecutionStatus{Kind: protocol.ExecutionStatusSuccessValue, SuccessValue: x.value}
	}
	return out
}

func receiptID(parent protocol.CryptoHash, index uint32) protocol.CryptoHash {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], index)
	return protocol.HashBytes(append(parent[:], b[:]...))
}

type executor struct {
	net      *Network
	block    protocol.CryptoHash
	receipts []protocol.ExecutionOutcomeWithID
	failure  *protocol.TxExecutionError
	value    []byte
}

func (x *executor) add(id protocol.CryptoHash, out protocol.ExecutionOutcome) {
	x.receipts = append(x.receipts, protocol.ExecutionOutcomeWithID{ID: id, BlockHash: x.block, Outcome: out})
}

func actionFailure(index int, kind interface{}) *protocol.TxExecutionError {
	i := uint64(index)
	b, _ := json.Marshal(kind)
	return &protocol.TxExecutionError{ActionError: &protocol.ActionError{Index: &i, Kind: b}}
}

// runActions runs the actions of a receipt. Function calls may spawn further
// receipts, and a receipt that attached a deposit to a call gets a refund
// receipt back to the signer.
func (x *executor) runActions(id protocol.CryptoHash, signerID, receiverID string, actions []protocol.Action) {
	out := protocol.ExecutionOutcome{
		ExecutorID: receiverID,
		GasBurnt:   2_428_000_000_000,
		Status:     protocol.ExecutionStatus{Kind: protocol.ExecutionStatusSuccessValue},
	}

	// Reserve the receipt's position so it precedes its children
	pos := len(x.receipts)
	x.add(id, out)

	var children []func()
	var refund bool
	n := x.net
	for i, action := range actions {
		if out.Status.Kind == protocol.ExecutionStatusFailure {
			break
		}

		receiver, exists := n.accounts[receiverID]
		if _, create := action.(*protocol.CreateAccount); !exists && !create {
			out.Status = x.fail(actionFailure(i, obj{"AccountDoesNotExist": obj{"account_id": receiverID}}))
			break
		}

		switch a := action.(type) {
		case *protocol.CreateAccount:
			if exists {
				out.Status = x.fail(actionFailure(i, obj{"AccountAlreadyExists": obj{"account_id": receiverID}}))
				break
			}
			n.accounts[receiverID] = &account{keys: map[string]*accessKey{}}

		case *protocol.DeployContract:
			receiver.code = a.Code

		case *protocol.Transfer:
			n.move(signerID, receiverID, a.Deposit)

		case *protocol.Stake:
			// Staking has no effect on the fake network

		case *protocol.AddKey:
			receiver.keys[keyID(a.PublicKey)] = newAccessKey(a.AccessKey)

		case *protocol.DeleteKey:
			delete(receiver.keys, keyID(a.PublicKey))

		case *protocol.DeleteAccount:
			if _, ok := n.accounts[a.BeneficiaryID]; ok {
				n.move(receiverID, a.BeneficiaryID, receiver.balance)
			}
			delete(n.accounts, receiverID)

		case *protocol.Delegate:
			inner := a.DelegateAction
			childID := receiptID(id, uint32(len(children)+1))
			out.ReceiptIDs = append(out.ReceiptIDs, childID)
			children = append(children, func() {
				x.runActions(childID, inner.SenderID, inner.ReceiverID, inner.Actions)
			})

		case *protocol.FunctionCall:
			n.move(signerID, receiverID, a.Deposit)
			if !a.Deposit.IsZero() {
				refund = true
			}
			if receiver.contract == nil {
				out.Status = x.fail(actionFailure(i, obj{"FunctionCallError": obj{"CompilationError": obj{"CodeDoesNotExist": obj{"account_id": receiverID}}}}))
				break
			}

			exec := receiver.contract(a)
			if exec == nil {
				exec = new(Execution)
			}
			out.Logs = append(out.Logs, exec.Logs...)
			if exec.Fail != "" {
				out.Status = x.fail(actionFailure(i, obj{"FunctionCallError": obj{"ExecutionError": exec.Fail}}))
				// The deposit goes back to the signer
				n.move(receiverID, signerID, a.Deposit)
				break
			}
			out.Status = protocol.ExecutionStatus{Kind: protocol.ExecutionStatusSuccessValue, SuccessValue: exec.Return}
			x.value = exec.Return

			for _, spawn := range exec.Spawn {
				spawn := spawn
				childID := receiptID(id, uint32(len(children)+1))
				out.ReceiptIDs = append(out.ReceiptIDs, childID)
				children = append(children, func() { x.spawn(childID, receiverID, spawn) })
			}
		}
	}

	if refund || out.Status.Kind == protocol.ExecutionStatusFailure {
		childID := receiptID(id, uint32(len(children)+1))
		out.ReceiptIDs = append(out.ReceiptIDs, childID)
		children = append(children, func() {
			x.add(childID, protocol.ExecutionOutcome{
				ExecutorID: signerID,
				GasBurnt:   223_182_562_500,
				Status:     protocol.ExecutionStatus{Kind: protocol.ExecutionStatusSuccessValue, SuccessValue: []byte{}},
			})
		})
	}

	x.receipts[pos].Outcome = out
	for _, child := range children {
		child()
	}
}

func (x *executor) spawn(id protocol.CryptoHash, parent string, e *Execution) {
	executor := e.Executor
	if executor == "" {
		executor = parent
	}
	out := protocol.ExecutionOutcome{
		ExecutorID: executor,
		Logs:       e.Logs,
		GasBurnt:   2_428_000_000_000,
		Status:     protocol.ExecutionStatus{Kind: protocol.ExecutionStatusSuccessValue, SuccessValue: e.Return},
	}
	if e.Fail != "" {
		out.Status = x.fail(actionFailure(0, obj{"FunctionCallError": obj{"ExecutionError": e.Fail}}))
	}

	pos := len(x.receipts)
	x.add(id, out)
	for i, child := range e.Spawn {
		childID := receiptID(id, uint32(i+1))
		x.receipts[pos].Outcome.ReceiptIDs = append(x.receipts[pos].Outcome.ReceiptIDs, childID)
		x.spawn(childID, executor, child)
	}
}

// fail records the first failure of the transaction and returns the status
// of the failed receipt.
func (x *executor) fail(err *protocol.TxExecutionError) protocol.ExecutionStatus {
	if x.failure == nil {
		x.failure = err
	}
	return protocol.ExecutionStatus{Kind: protocol.ExecutionStatusFailure, Failure: err}
}

func (n *Network) move(from, to string, amount protocol.U128) {
	if amount.IsZero() {
		return
	}
	src, ok1 := n.accounts[from]
	dst, ok2 := n.accounts[to]
	if !ok1 || !ok2 {
		return
	}
	s := src.balance.Big()
	if s.Cmp(amount.Big()) < 0 {
		return
	}
	src.balance, _ = protocol.U128FromBig(s.Sub(s, amount.Big()))
	d := dst.balance.Big()
	dst.balance, _ = protocol.U128FromBig(d.Add(d, amount.Big()))
}

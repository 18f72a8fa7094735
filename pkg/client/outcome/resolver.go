// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package outcome

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/protocol"
)

// Log is a log line emitted while executing a transaction or receipt.
type Log struct {
	ID         protocol.CryptoHash
	ExecutorID string
	Message    string
}

// Failure is the first failed node of a receipt graph.
type Failure struct {
	Err        *protocol.TxExecutionError
	ID         protocol.CryptoHash
	ExecutorID string

	// Depth is the distance from the root transaction. The root is 0.
	Depth int
}

func (f *Failure) Error() string {
	return fmt.Sprintf("receipt %v (depth %d, executor %s) failed: %v", f.ID, f.Depth, f.ExecutorID, f.Err)
}

// ErrorStatus implements [errors.StatusCoder].
func (f *Failure) ErrorStatus() errors.Status { return errors.ReceiptFailure }

// Verdict is the resolved result of a transaction.
type Verdict struct {
	// Failure is the first failure in traversal order, or nil.
	Failure *Failure

	// Value is the return value of the transaction, if it succeeded.
	Value []byte

	// Logs are the logs of every visited node in traversal order.
	Logs []Log

	// Visited lists the IDs of the visited nodes in traversal order.
	Visited []protocol.CryptoHash
}

// Success returns true if no node failed.
func (v *Verdict) Success() bool { return v.Failure == nil }

// Err returns a ReceiptFailure error if the verdict is a failure.
func (v *Verdict) Err() error {
	if v.Failure == nil {
		return nil
	}
	return errors.ReceiptFailure.WithCauseAndFormat(v.Failure, "%v", v.Failure)
}

// LogMessages returns the log lines without their origin.
func (v *Verdict) LogMessages() []string {
	s := make([]string, len(v.Logs))
	for i, l := range v.Logs {
		s[i] = l.Message
	}
	return s
}

type frame struct {
	node  *protocol.ExecutionOutcomeWithID
	depth int
}

// Resolve walks the transaction outcome and every receipt it spawned,
// depth first, in the order the network lists receipt IDs. The first failure
// in that order decides the verdict. An outcome that is not complete, with a
// node that has not executed or a receipt that is not included, fails with
// Pending.
func Resolve(ctx context.Context, o *protocol.FinalExecutionOutcome) (*Verdict, error) {
	if o == nil {
		return nil, errors.BadRequest.With("missing outcome")
	}
	if !o.Status.IsFinal() {
		return nil, errors.Pending.WithFormat("transaction %v is %v", o.TransactionHash(), o.Status.Kind)
	}
	if !o.IsComplete() {
		return nil, errors.Pending.WithFormat("transaction %v has receipts that have not executed", o.TransactionHash())
	}

	receipts := make(map[protocol.CryptoHash]*protocol.ExecutionOutcomeWithID, len(o.ReceiptsOutcome))
	for i := range o.ReceiptsOutcome {
		r := &o.ReceiptsOutcome[i]
		receipts[r.ID] = r
	}

	v := new(Verdict)
	visited := map[protocol.CryptoHash]bool{}
	stack := []frame{{&o.TransactionOutcome, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[f.node.ID] {
			continue
		}
		visited[f.node.ID] = true
		v.Visited = append(v.Visited, f.node.ID)

		out := &f.node.Outcome
		for _, line := range out.Logs {
			v.Logs = append(v.Logs, Log{ID: f.node.ID, ExecutorID: out.ExecutorID, Message: line})
		}

		if out.Status.Kind == protocol.ExecutionStatusFailure && v.Failure == nil {
			v.Failure = &Failure{
				Err:        out.Status.Failure,
				ID:         f.node.ID,
				ExecutorID: out.ExecutorID,
				Depth:      f.depth,
			}
		}

		// Push in reverse so the first listed receipt is visited first
		for i := len(out.ReceiptIDs) - 1; i >= 0; i-- {
			id := out.ReceiptIDs[i]
			if visited[id] {
				continue
			}
			stack = append(stack, frame{receipts[id], f.depth + 1})
		}
	}

	// The network reports the overall status separately. Trust it if the
	// graph did not explain a failure.
	if v.Failure == nil && o.Status.Kind == protocol.ExecutionStatusFailure {
		v.Failure = &Failure{
			Err:        o.Status.Failure,
			ID:         o.TransactionOutcome.ID,
			ExecutorID: o.TransactionOutcome.Outcome.ExecutorID,
		}
	}

	if v.Failure == nil {
		v.Value = returnValue(o, receipts)
	}

	mVerdicts.WithLabelValues(verdictLabel(v)).Inc()
	if v.Failure != nil {
		slog.DebugContext(ctx, "Transaction failed", "module", "outcome", "hash", o.TransactionHash(), "receipt", v.Failure.ID, "depth", v.Failure.Depth, "error", v.Failure.Err.KindName())
	}
	return v, nil
}

// returnValue follows SuccessReceiptId links from the root to the value the
// transaction returned.
func returnValue(o *protocol.FinalExecutionOutcome, receipts map[protocol.CryptoHash]*protocol.ExecutionOutcomeWithID) []byte {
	if o.Status.Kind == protocol.ExecutionStatusSuccessValue {
		return o.Status.SuccessValue
	}

	status := o.TransactionOutcome.Outcome.Status
	seen := map[protocol.CryptoHash]bool{}
	for status.Kind == protocol.ExecutionStatusSuccessReceiptID {
		id := status.SuccessReceiptID
		r, ok := receipts[id]
		if !ok || seen[id] {
			return nil
		}
		seen[id] = true
		status = r.Outcome.Status
	}
	if status.Kind == protocol.ExecutionStatusSuccessValue {
		return status.SuccessValue
	}
	return nil
}

func verdictLabel(v *Verdict) string {
	switch {
	case v.Failure != nil:
		return "failure"
	default:
		return "success"
	}
}

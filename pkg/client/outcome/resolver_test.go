// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package outcome_test

import (
	"context"
	"encoding/json"
	"testing"

	. "github.com/Olovorr/near-api-js-ext/pkg/client/outcome"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/protocol"
	"github.com/stretchr/testify/require"
)

func id(n byte) protocol.CryptoHash { return protocol.CryptoHash{n} }

func node(n byte, executor string, status protocol.ExecutionStatus, logs []string, children ...byte) protocol.ExecutionOutcomeWithID {
	o := protocol.ExecutionOutcomeWithID{
		ID: id(n),
		Outcome: protocol.ExecutionOutcome{
			Logs:       logs,
			ExecutorID: executor,
			Status:     status,
		},
	}
	for _, c := range children {
		o.Outcome.ReceiptIDs = append(o.Outcome.ReceiptIDs, id(c))
	}
	return o
}

func value(s string) protocol.ExecutionStatus {
	return protocol.ExecutionStatus{Kind: protocol.ExecutionStatusSuccessValue, SuccessValue: []byte(s)}
}

func receiptID(n byte) protocol.ExecutionStatus {
	return protocol.ExecutionStatus{Kind: protocol.ExecutionStatusSuccessReceiptID, SuccessReceiptID: id(n)}
}

func failure(kind string) protocol.ExecutionStatus {
	index := uint64(0)
	return protocol.ExecutionStatus{
		Kind: protocol.ExecutionStatusFailure,
		Failure: &protocol.TxExecutionError{ActionError: &protocol.ActionError{
			Index: &index,
			Kind:  json.RawMessage(kind),
		}},
	}
}

func TestResolveSuccess(t *testing.T) {
	o := &protocol.FinalExecutionOutcome{
		Status:             value("ok"),
		TransactionOutcome: node(1, "alice.near", receiptID(2), []string{"tx"}, 2),
		ReceiptsOutcome: []protocol.ExecutionOutcomeWithID{
			node(2, "bob.near", value("ok"), []string{"call"}, 3),
			node(3, "alice.near", value(""), nil),
		},
	}

	v, err := Resolve(context.Background(), o)
	require.NoError(t, err)
	require.True(t, v.Success())
	require.NoError(t, v.Err())
	require.Equal(t, []byte("ok"), v.Value)
	require.Equal(t, []string{"tx", "call"}, v.LogMessages())
	require.Equal(t, []protocol.CryptoHash{id(1), id(2), id(3)}, v.Visited)
}

func TestResolveNestedFailure(t *testing.T) {
	// The root and its direct receipt succeed; a receipt two levels down
	// fails. The overall status still reports success.
	o := &protocol.FinalExecutionOutcome{
		Status:             value(""),
		TransactionOutcome: node(1, "alice.near", receiptID(2), nil, 2),
		ReceiptsOutcome: []protocol.ExecutionOutcomeWithID{
			node(2, "bob.near", value(""), nil, 3, 4),
			node(3, "carol.near", failure(`{"FunctionCallError":{"ExecutionError":"panicked"}}`), []string{"about to fail"}),
			node(4, "dave.near", failure(`"AccountDoesNotExist"`), nil),
		},
	}

	v, err := Resolve(context.Background(), o)
	require.NoError(t, err)
	require.False(t, v.Success())
	require.Equal(t, id(3), v.Failure.ID)
	require.Equal(t, 2, v.Failure.Depth)
	require.Equal(t, "carol.near", v.Failure.ExecutorID)
	require.Equal(t, "FunctionCallError", v.Failure.Err.KindName())
	require.Nil(t, v.Value)

	err = v.Err()
	require.Equal(t, errors.ReceiptFailure, errors.Code(err))
	var f *Failure
	require.True(t, errors.As(err, &f))
	require.Equal(t, id(3), f.ID)
}

func TestResolveLogOrder(t *testing.T) {
	// Logs from the root and the failed receipt appear in traversal order
	o := &protocol.FinalExecutionOutcome{
		Status:             failure(`{"FunctionCallError":{"ExecutionError":"Smart contract panicked"}}`),
		TransactionOutcome: node(1, "alice.near", receiptID(2), []string{"signed"}, 2),
		ReceiptsOutcome: []protocol.ExecutionOutcomeWithID{
			node(2, "contract.near", failure(`{"FunctionCallError":{"ExecutionError":"Smart contract panicked"}}`), []string{"log 1", "log 2"}, 5),
			node(5, "alice.near", value(""), []string{"refund"}),
		},
	}

	v, err := Resolve(context.Background(), o)
	require.NoError(t, err)
	require.Equal(t, id(2), v.Failure.ID)
	require.Equal(t, 1, v.Failure.Depth)
	require.Equal(t, []string{"signed", "log 1", "log 2", "refund"}, v.LogMessages())
	require.Equal(t, "contract.near", v.Logs[1].ExecutorID)
}

func TestResolveTraversalOrder(t *testing.T) {
	// Depth first: 2's subtree is finished before 3 is visited
	o := &protocol.FinalExecutionOutcome{
		Status:             value(""),
		TransactionOutcome: node(1, "a", receiptID(2), nil, 2, 3),
		ReceiptsOutcome: []protocol.ExecutionOutcomeWithID{
			node(3, "a", value(""), nil),
			node(2, "a", value(""), nil, 4),
			node(4, "a", value(""), nil),
		},
	}

	v, err := Resolve(context.Background(), o)
	require.NoError(t, err)
	require.Equal(t, []protocol.CryptoHash{id(1), id(2), id(4), id(3)}, v.Visited)
}

func TestResolveCycle(t *testing.T) {
	o := &protocol.FinalExecutionOutcome{
		Status:             value(""),
		TransactionOutcome: node(1, "a", receiptID(2), nil, 2),
		ReceiptsOutcome: []protocol.ExecutionOutcomeWithID{
			node(2, "a", receiptID(3), nil, 3),
			node(3, "a", receiptID(2), nil, 2, 1),
		},
	}

	v, err := Resolve(context.Background(), o)
	require.NoError(t, err)
	require.Equal(t, []protocol.CryptoHash{id(1), id(2), id(3)}, v.Visited)
	require.Empty(t, v.Value)
}

func TestResolveIncomplete(t *testing.T) {
	unknown := protocol.ExecutionStatus{Kind: protocol.ExecutionStatusUnknown}
	cases := map[string]*protocol.FinalExecutionOutcome{
		"Missing receipt": {
			Status:             value(""),
			TransactionOutcome: node(1, "a", receiptID(2), nil, 2, 9),
			ReceiptsOutcome: []protocol.ExecutionOutcomeWithID{
				node(2, "a", value(""), nil),
			},
		},
		"Unknown receipt": {
			Status:             value(""),
			TransactionOutcome: node(1, "a", receiptID(2), nil, 2),
			ReceiptsOutcome: []protocol.ExecutionOutcomeWithID{
				node(2, "a", value(""), nil, 3),
				node(3, "b", unknown, nil),
			},
		},
		"Unknown overall": {
			Status:             unknown,
			TransactionOutcome: node(1, "a", value(""), nil),
		},
		"No overall status": {
			TransactionOutcome: node(1, "a", value(""), nil),
		},
	}

	for name, o := range cases {
		t.Run(name, func(t *testing.T) {
			require.False(t, o.IsComplete())
			_, err := Resolve(context.Background(), o)
			require.Equal(t, errors.Pending, errors.Code(err))
		})
	}
}

func TestResolveDecodedUnknown(t *testing.T) {
	raw := `{
		"status": "Unknown",
		"transaction_outcome": {"id": "11111111111111111111111111111112", "outcome": {
			"executor_id": "alice.near", "receipt_ids": ["11111111111111111111111111111113"],
			"status": {"SuccessReceiptId": "11111111111111111111111111111113"}}},
		"receipts_outcome": [{"id": "11111111111111111111111111111113", "outcome": {
			"executor_id": "bob.near", "receipt_ids": [], "status": "Unknown"}}]
	}`

	o := new(protocol.FinalExecutionOutcome)
	require.NoError(t, json.Unmarshal([]byte(raw), o))
	_, err := Resolve(context.Background(), o)
	require.Equal(t, errors.Pending, errors.Code(err))

	// The overall status is final but the receipt has not executed
	o.Status = value("")
	_, err = Resolve(context.Background(), o)
	require.Equal(t, errors.Pending, errors.Code(err))

	// A missing status field decodes as absent, never as final
	o = new(protocol.FinalExecutionOutcome)
	require.NoError(t, json.Unmarshal([]byte(`{"transaction_outcome": {"id": "11111111111111111111111111111112", "outcome": {}}}`), o))
	require.Equal(t, protocol.ExecutionStatusNone, o.Status.Kind)
	require.False(t, o.Status.IsFinal())
	_, err = Resolve(context.Background(), o)
	require.Equal(t, errors.Pending, errors.Code(err))
}

func TestResolveStatusOnly(t *testing.T) {
	// The graph has no failed node but the overall status is a failure
	o := &protocol.FinalExecutionOutcome{
		Status:             failure(`"InsufficientStake"`),
		TransactionOutcome: node(1, "alice.near", value(""), nil),
	}

	v, err := Resolve(context.Background(), o)
	require.NoError(t, err)
	require.False(t, v.Success())
	require.Equal(t, id(1), v.Failure.ID)
	require.Equal(t, 0, v.Failure.Depth)
}

func TestResolveNotFinal(t *testing.T) {
	o := &protocol.FinalExecutionOutcome{
		Status: protocol.ExecutionStatus{Kind: protocol.ExecutionStatusStarted},
	}
	_, err := Resolve(context.Background(), o)
	require.Equal(t, errors.Pending, errors.Code(err))

	_, err = Resolve(context.Background(), nil)
	require.Equal(t, errors.BadRequest, errors.Code(err))
}

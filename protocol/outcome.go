// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Olovorr/near-api-js-ext/pkg/types/encoding"
)

// ExecutionStatusKind is the state of a transaction or receipt.
type ExecutionStatusKind int

// The zero value, ExecutionStatusNone, means the status was absent. It is
// never final.
const (
	ExecutionStatusNone ExecutionStatusKind = iota
	ExecutionStatusUnknown
	ExecutionStatusNotStarted
	ExecutionStatusStarted
	ExecutionStatusFailure
	ExecutionStatusSuccessValue
	ExecutionStatusSuccessReceiptID
)

func (k ExecutionStatusKind) String() string {
	switch k {
	case ExecutionStatusNone:
		return "None"
	case ExecutionStatusUnknown:
		return "Unknown"
	case ExecutionStatusNotStarted:
		return "NotStarted"
	case ExecutionStatusStarted:
		return "Started"
	case ExecutionStatusFailure:
		return "Failure"
	case ExecutionStatusSuccessValue:
		return "SuccessValue"
	case ExecutionStatusSuccessReceiptID:
		return "SuccessReceiptId"
	default:
		return fmt.Sprintf("ExecutionStatusKind:%d", int(k))
	}
}

// ExecutionStatus is the status of an execution outcome or of a whole
// transaction.
type ExecutionStatus struct {
	Kind             ExecutionStatusKind
	Failure          *TxExecutionError
	SuccessValue     []byte
	SuccessReceiptID CryptoHash
}

// IsFinal returns true if the status is a failure or a success.
func (s ExecutionStatus) IsFinal() bool {
	switch s.Kind {
	case ExecutionStatusFailure, ExecutionStatusSuccessValue, ExecutionStatusSuccessReceiptID:
		return true
	default:
		return false
	}
}

func (s ExecutionStatus) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case ExecutionStatusNone:
		return []byte("null"), nil
	case ExecutionStatusUnknown, ExecutionStatusNotStarted, ExecutionStatusStarted:
		return json.Marshal(s.Kind.String())
	case ExecutionStatusFailure:
		return json.Marshal(map[string]*TxExecutionError{"Failure": s.Failure})
	case ExecutionStatusSuccessValue:
		return json.Marshal(map[string][]byte{"SuccessValue": s.SuccessValue})
	case ExecutionStatusSuccessReceiptID:
		return json.Marshal(map[string]CryptoHash{"SuccessReceiptId": s.SuccessReceiptID})
	default:
		return nil, encoding.Error{E: fmt.Errorf("invalid execution status %v", s.Kind)}
	}
}

func (s *ExecutionStatus) UnmarshalJSON(b []byte) error {
	if string(bytes.TrimSpace(b)) == "null" {
		*s = ExecutionStatus{}
		return nil
	}

	name, body, err := variant(b)
	if err != nil {
		return err
	}

	*s = ExecutionStatus{}
	switch name {
	case "Unknown":
		s.Kind = ExecutionStatusUnknown
	case "NotStarted":
		s.Kind = ExecutionStatusNotStarted
	case "Started":
		s.Kind = ExecutionStatusStarted
	case "Failure":
		s.Kind = ExecutionStatusFailure
		s.Failure = new(TxExecutionError)
		err = json.Unmarshal(body, s.Failure)
	case "SuccessValue":
		s.Kind = ExecutionStatusSuccessValue
		err = json.Unmarshal(body, &s.SuccessValue)
	case "SuccessReceiptId":
		s.Kind = ExecutionStatusSuccessReceiptID
		err = json.Unmarshal(body, &s.SuccessReceiptID)
	default:
		return encoding.Error{E: errUnknownVariant("execution status", name)}
	}
	if err != nil {
		return encoding.Error{E: fmt.Errorf("%s: %w", name, err)}
	}
	return nil
}

// TxExecutionError is the failure reported by the network for a
// transaction or receipt. Exactly one of the fields is set.
type TxExecutionError struct {
	ActionError    *ActionError    `json:"ActionError,omitempty"`
	InvalidTxError json.RawMessage `json:"InvalidTxError,omitempty"`
}

// ActionError is the failure of one action of a receipt.
type ActionError struct {
	// Index is the index of the failed action, if known.
	Index *uint64         `json:"index,omitempty"`
	Kind  json.RawMessage `json:"kind"`
}

// KindName returns the name of the failure, such as "FunctionCallError" or
// "InvalidNonce".
func (e *TxExecutionError) KindName() string {
	switch {
	case e == nil:
		return ""
	case e.ActionError != nil:
		return e.ActionError.KindName()
	case len(e.InvalidTxError) > 0:
		name, _, _ := variant(e.InvalidTxError)
		return name
	default:
		return ""
	}
}

func (e *TxExecutionError) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.ActionError != nil:
		if e.ActionError.Index != nil {
			return fmt.Sprintf("action %d failed: %s", *e.ActionError.Index, compact(e.ActionError.Kind))
		}
		return fmt.Sprintf("action failed: %s", compact(e.ActionError.Kind))
	case len(e.InvalidTxError) > 0:
		return fmt.Sprintf("invalid transaction: %s", compact(e.InvalidTxError))
	default:
		return "unknown execution error"
	}
}

// KindName returns the name of the action error variant.
func (e *ActionError) KindName() string {
	name, _, _ := variant(e.Kind)
	return name
}

// ExecutionOutcome is the result of executing a transaction or receipt.
type ExecutionOutcome struct {
	Logs        []string        `json:"logs"`
	ReceiptIDs  []CryptoHash    `json:"receipt_ids"`
	GasBurnt    uint64          `json:"gas_burnt"`
	TokensBurnt U128            `json:"tokens_burnt"`
	ExecutorID  string          `json:"executor_id"`
	Status      ExecutionStatus `json:"status"`
}

// ExecutionOutcomeWithID is an outcome and the ID of the transaction or
// receipt it belongs to.
type ExecutionOutcomeWithID struct {
	ID        CryptoHash       `json:"id"`
	BlockHash CryptoHash       `json:"block_hash"`
	Outcome   ExecutionOutcome `json:"outcome"`
}

// FinalExecutionOutcome is the root transaction outcome plus every receipt
// outcome the network returned for it.
type FinalExecutionOutcome struct {
	Status             ExecutionStatus          `json:"status"`
	Transaction        json.RawMessage          `json:"transaction,omitempty"`
	TransactionOutcome ExecutionOutcomeWithID   `json:"transaction_outcome"`
	ReceiptsOutcome    []ExecutionOutcomeWithID `json:"receipts_outcome"`
}

// IsComplete returns true if the overall status is final and so is every
// node reachable from the transaction outcome. A receipt that is referenced
// but not included makes the outcome incomplete.
func (o *FinalExecutionOutcome) IsComplete() bool {
	if !o.Status.IsFinal() || o.TransactionOutcome.ID.IsZero() {
		return false
	}

	receipts := make(map[CryptoHash]*ExecutionOutcomeWithID, len(o.ReceiptsOutcome))
	for i := range o.ReceiptsOutcome {
		receipts[o.ReceiptsOutcome[i].ID] = &o.ReceiptsOutcome[i]
	}

	seen := map[CryptoHash]bool{}
	stack := []*ExecutionOutcomeWithID{&o.TransactionOutcome}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		if !n.Outcome.Status.IsFinal() {
			return false
		}
		for _, id := range n.Outcome.ReceiptIDs {
			r, ok := receipts[id]
			if !ok {
				return false
			}
			stack = append(stack, r)
		}
	}
	return true
}

// TransactionHash returns the ID of the root transaction outcome.
func (o *FinalExecutionOutcome) TransactionHash() CryptoHash {
	return o.TransactionOutcome.ID
}

// variant returns the name and body of an externally tagged enum value,
// either "Name" or {"Name": body}.
func variant(b []byte) (string, json.RawMessage, error) {
	b = bytes.TrimSpace(b)
	var s string
	if json.Unmarshal(b, &s) == nil {
		return s, nil, nil
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return "", nil, encoding.Error{E: fmt.Errorf("invalid enum value: %w", err)}
	}
	if len(m) != 1 {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", nil, encoding.Error{E: fmt.Errorf("enum value must have exactly one variant, got %v", keys)}
	}
	for k, v := range m {
		return k, v, nil
	}
	panic("unreachable")
}

// VariantPath returns the chain of nested variant names, outermost first.
// For {"InvalidTxError":{"InvalidNonce":{...}}} it returns
// ["InvalidTxError", "InvalidNonce"].
func VariantPath(b []byte) []string {
	var path []string
	for len(b) > 0 {
		name, body, err := variant(b)
		if err != nil || name == "" {
			break
		}
		path = append(path, name)
		b = body
	}
	return path
}

func compact(b []byte) string {
	buf := new(bytes.Buffer)
	if json.Compact(buf, b) != nil {
		return string(b)
	}
	return buf.String()
}

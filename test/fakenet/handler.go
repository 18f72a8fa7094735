// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package fakenet

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/AccumulateNetwork/jsonrpc2/v15"
	"github.com/Olovorr/near-api-js-ext/pkg/api"
	"github.com/Olovorr/near-api-js-ext/protocol"
)

// ErrCodeHandler is the code of every error the network returns from a
// method. Clients classify errors by their data.
const ErrCodeHandler jsonrpc2.ErrorCode = -31000

// Error returns a handler error with the given data, as the network would
// send it.
func Error(data interface{}) jsonrpc2.Error {
	return jsonrpc2.NewError(ErrCodeHandler, "Server error", data)
}

// TimeoutError is the error the network returns when a request times out.
func TimeoutError() jsonrpc2.Error { return Error("Timeout") }

// Handler returns the HTTP handler of the network.
func (n *Network) Handler() http.Handler {
	rpc := jsonrpc2.HTTPRequestHandler(jsonrpc2.MethodMap{
		"query":              n.query,
		"block":              n.block,
		"broadcast_tx_async": n.broadcastTxAsync,
		"tx":                 n.tx,
	}, slogger{})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status := n.nextHTTPFault(); status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		rpc(w, r)
	})
}

type slogger struct{}

func (slogger) Println(values ...interface{}) {
	slog.Debug(fmt.Sprint(values...), "module", "fakenet")
}

func (slogger) Printf(format string, values ...interface{}) {
	slog.Debug(fmt.Sprintf(format, values...), "module", "fakenet")
}

func (n *Network) nextHTTPFault() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	for len(n.httpFaults) > 0 {
		f := n.httpFaults[0]
		if f.count <= 0 {
			n.httpFaults = n.httpFaults[1:]
			continue
		}
		f.count--
		return f.status
	}
	return 0
}

// begin counts the call and returns an injected fault, if any. The caller
// must hold the lock.
func (n *Network) begin(method string) *jsonrpc2.Error {
	n.calls[method]++
	faults := n.rpcFaults[method]
	for len(faults) > 0 {
		f := faults[0]
		if f.count <= 0 {
			faults = faults[1:]
			continue
		}
		f.count--
		n.rpcFaults[method] = faults
		return &f.err
	}
	n.rpcFaults[method] = faults
	return nil
}

func (n *Network) query(_ context.Context, params json.RawMessage) interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("query"); err != nil {
		return *err
	}

	var req struct {
		RequestType string `json:"request_type"`
		AccountID   string `json:"account_id"`
		PublicKey   string `json:"public_key"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return jsonrpc2.ErrorInvalidParams(err.Error())
	}
	if req.RequestType != "view_access_key" {
		return jsonrpc2.ErrorInvalidParams(fmt.Sprintf("unsupported request type %q", req.RequestType))
	}

	a, ok := n.accounts[req.AccountID]
	if !ok {
		return Error(fmt.Sprintf("account %s does not exist while viewing", req.AccountID))
	}
	ak, ok := a.keys[req.PublicKey]
	if !ok {
		return Error(fmt.Sprintf("access key %s does not exist while viewing", req.PublicKey))
	}

	b := n.blocks[len(n.blocks)-1]
	return &api.AccessKeyView{
		AccessKey:   ak.AccessKey,
		BlockHeight: b.height,
		BlockHash:   b.hash,
	}
}

func (n *Network) block(_ context.Context, params json.RawMessage) interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("block"); err != nil {
		return *err
	}

	var req struct {
		BlockID  json.RawMessage `json:"block_id"`
		Finality string          `json:"finality"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return jsonrpc2.ErrorInvalidParams(err.Error())
	}

	b := n.blocks[len(n.blocks)-1]
	if len(req.BlockID) > 0 {
		var found bool
		b, found = n.findBlock(req.BlockID)
		if !found {
			return Error(fmt.Sprintf("block %s does not exist", req.BlockID))
		}
	}

	return &api.BlockView{
		Author: "validator.fakenet",
		Header: api.BlockHeader{
			Height:    b.height,
			Hash:      b.hash,
			PrevHash:  b.prev,
			Timestamp: b.height * 1e9,
			ChainID:   n.chainID,
		},
	}
}

func (n *Network) findBlock(id json.RawMessage) (block, bool) {
	var height uint64
	if json.Unmarshal(id, &height) == nil {
		for _, b := range n.blocks {
			if b.height == height {
				return b, true
			}
		}
		return block{}, false
	}

	var hash protocol.CryptoHash
	if json.Unmarshal(id, &hash) != nil {
		return block{}, false
	}
	for _, b := range n.blocks {
		if b.hash == hash {
			return b, true
		}
	}
	return block{}, false
}

func (n *Network) broadcastTxAsync(_ context.Context, params json.RawMessage) interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("broadcast_tx_async"); err != nil {
		return *err
	}

	var req []string
	if err := json.Unmarshal(params, &req); err != nil || len(req) != 1 {
		return jsonrpc2.ErrorInvalidParams("expected one base64 encoded transaction")
	}
	b, err := base64.StdEncoding.DecodeString(req[0])
	if err != nil {
		return jsonrpc2.ErrorInvalidParams(err.Error())
	}
	n.sent = append(n.sent, b)

	stx := new(protocol.SignedTransaction)
	if err := stx.UnmarshalBinary(b); err != nil {
		return Error(map[string]interface{}{"TxExecutionError": map[string]interface{}{"InvalidTxError": "Deserialization"}})
	}
	hash, err := stx.Hash()
	if err != nil {
		return Error(err.Error())
	}

	// The same signed transaction is only executed once
	if _, ok := n.txs[hash]; ok {
		return hash.String()
	}

	rec := &txRecord{pending: n.pendingPolls}
	n.txs[hash] = rec
	if verr := n.validate(hash, stx); verr != nil {
		rec.err = verr
		return hash.String()
	}
	rec.outcome = n.execute(hash, stx.Transaction)
	return hash.String()
}

type txStatusResponse struct {
	FinalExecutionStatus api.TxExecutionStatus `json:"final_execution_status"`
	*protocol.FinalExecutionOutcome
}

func (n *Network) tx(_ context.Context, params json.RawMessage) interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.begin("tx"); err != nil {
		return *err
	}

	var req struct {
		TxHash          string `json:"tx_hash"`
		SenderAccountID string `json:"sender_account_id"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return jsonrpc2.ErrorInvalidParams(err.Error())
	}
	hash, err := protocol.ParseCryptoHash(req.TxHash)
	if err != nil {
		return jsonrpc2.ErrorInvalidParams(err.Error())
	}

	rec, ok := n.txs[hash]
	if !ok {
		return Error(fmt.Sprintf("Transaction %v doesn't exist", hash))
	}
	if rec.err != nil {
		return *rec.err
	}
	if rec.pending > 0 {
		rec.pending--
		return &txStatusResponse{FinalExecutionStatus: api.TxStatusIncluded}
	}
	return &txStatusResponse{
		FinalExecutionStatus: api.TxStatusExecutedOptimistic,
		FinalExecutionOutcome: rec.outcome,
	}
}

// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package jsonrpc

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/Olovorr/near-api-js-ext/pkg/api"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/protocol"
)

func (c *Client) ViewAccessKey(ctx context.Context, accountID string, key *protocol.PublicKey) (*api.AccessKeyView, error) {
	params := map[string]interface{}{
		"request_type": "view_access_key",
		"finality":     api.FinalityFinal,
		"account_id":   accountID,
		"public_key":   key.String(),
	}

	var raw json.RawMessage
	err := c.request(ctx, "query", params, &raw)
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}

	// Older nodes report a missing key in the result instead of as an error
	var legacy struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &legacy) == nil && legacy.Error != "" {
		msg, _ := json.Marshal(legacy.Error)
		kind := classifyData(msg, legacy.Error)
		if kind == api.ErrorKindUnknown {
			kind = api.ErrorKindAccessKeyNotFound
		}
		return nil, errors.UnknownError.Wrap(&api.RPCError{Kind: kind, Message: legacy.Error})
	}

	v := new(api.AccessKeyView)
	err = json.Unmarshal(raw, v)
	if err != nil {
		return nil, errors.EncodingError.WithFormat("unmarshal access key: %w", err)
	}
	return v, nil
}

func (c *Client) Block(ctx context.Context, ref api.BlockReference) (*api.BlockView, error) {
	params := map[string]interface{}{}
	switch {
	case ref.Height != nil:
		params["block_id"] = *ref.Height
	case ref.Hash != nil:
		params["block_id"] = ref.Hash.String()
	case ref.Finality != "":
		params["finality"] = ref.Finality
	default:
		params["finality"] = api.FinalityFinal
	}

	v := new(api.BlockView)
	err := c.request(ctx, "block", params, v)
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}
	return v, nil
}

func (c *Client) BroadcastTransaction(ctx context.Context, signed []byte) (protocol.CryptoHash, error) {
	var hash string
	err := c.request(ctx, "broadcast_tx_async", []string{base64.StdEncoding.EncodeToString(signed)}, &hash)
	if err != nil {
		return protocol.CryptoHash{}, errors.UnknownError.Wrap(err)
	}
	h, err := protocol.ParseCryptoHash(hash)
	if err != nil {
		return protocol.CryptoHash{}, errors.UnknownError.Wrap(err)
	}
	return h, nil
}

func (c *Client) TransactionStatus(ctx context.Context, hash protocol.CryptoHash, senderID string) (*protocol.FinalExecutionOutcome, error) {
	params := map[string]interface{}{
		"tx_hash":           hash.String(),
		"sender_account_id": senderID,
		"wait_until":        c.waitUntil,
	}

	var raw json.RawMessage
	err := c.request(ctx, "tx", params, &raw)
	if err != nil {
		return nil, errors.UnknownError.Wrap(err)
	}

	var status struct {
		FinalExecutionStatus api.TxExecutionStatus `json:"final_execution_status"`
	}
	if json.Unmarshal(raw, &status) == nil && status.FinalExecutionStatus != "" && !status.FinalExecutionStatus.HasOutcome() {
		return nil, api.ErrPending
	}

	v := new(protocol.FinalExecutionOutcome)
	err = json.Unmarshal(raw, v)
	if err != nil {
		return nil, errors.EncodingError.WithFormat("unmarshal outcome: %w", err)
	}
	if !v.IsComplete() {
		return nil, api.ErrPending
	}
	return v, nil
}

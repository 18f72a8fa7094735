// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package jsonrpc

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/AccumulateNetwork/jsonrpc2/v15"
	"github.com/Olovorr/near-api-js-ext/pkg/api"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/protocol"
)

// ErrCodeServer is the code the network uses for handler errors.
const ErrCodeServer = -32000

// HTTPStatusError is returned by the transport for responses the network
// sends with an HTTP error status instead of a JSON-RPC error.
type HTTPStatusError struct {
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return "unexpected HTTP status " + e.Status
}

// classifyError converts a failed request into an [api.RPCError].
func classifyError(err error) *api.RPCError {
	var rpcErr *api.RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	var jerr jsonrpc2.Error
	if errors.As(err, &jerr) {
		e := &api.RPCError{
			Code:    int64(jerr.Code),
			Message: jerr.Message,
		}
		if jerr.Data != nil {
			e.Data, _ = json.Marshal(jerr.Data)
		}
		e.Kind = classifyData(e.Data, e.Message)
		return e
	}

	e := &api.RPCError{Kind: api.ErrorKindConnection, Cause: err}

	var herr *HTTPStatusError
	switch {
	case errors.Is(err, context.Canceled):
		// Not a network failure, but callers must still see it
		e.Kind = api.ErrorKindUnknown
	case errors.Is(err, context.DeadlineExceeded):
		e.Kind = api.ErrorKindTimeout
	case errors.As(err, &herr):
		e.Code = int64(herr.StatusCode)
		switch {
		case herr.StatusCode == http.StatusTooManyRequests:
			e.Kind = api.ErrorKindRateLimited
		case herr.StatusCode == http.StatusRequestTimeout:
			e.Kind = api.ErrorKindTimeout
		default:
			e.Kind = api.ErrorKindServerError
		}
	}
	return e
}

// classifyData determines the error kind from the data the network attaches
// to a handler error, which is either a string or a nested enum such as
// {"TxExecutionError":{"InvalidTxError":{"InvalidNonce":{...}}}}.
func classifyData(data json.RawMessage, message string) api.ErrorKind {
	// The innermost variant is the most specific
	path := protocol.VariantPath(data)
	for i := len(path) - 1; i >= 0; i-- {
		if k, ok := variantKinds[path[i]]; ok {
			return k
		}
	}

	var s string
	if json.Unmarshal(data, &s) != nil {
		s = message
	}
	s = strings.ToLower(s)
	switch {
	case s == "timeout", strings.Contains(s, "timeout"), strings.Contains(s, "timed out"):
		return api.ErrorKindTimeout
	case strings.Contains(s, "not synced"), strings.Contains(s, "syncing"):
		return api.ErrorKindSyncing
	case strings.Contains(s, "already known"), strings.Contains(s, "already exists"):
		return api.ErrorKindAlreadyKnown
	case strings.HasPrefix(s, "transaction") && strings.Contains(s, "doesn't exist"):
		return api.ErrorKindUnknownTransaction
	case strings.HasPrefix(s, "access key") && (strings.Contains(s, "does not exist") || strings.Contains(s, "doesn't exist")):
		return api.ErrorKindAccessKeyNotFound
	case strings.HasPrefix(s, "account") && (strings.Contains(s, "does not exist") || strings.Contains(s, "doesn't exist")):
		return api.ErrorKindAccountNotFound
	case strings.Contains(s, "internal error"), strings.Contains(s, "server error"):
		return api.ErrorKindServerError
	default:
		return api.ErrorKindUnknown
	}
}

var variantKinds = map[string]api.ErrorKind{
	"InvalidNonce":          api.ErrorKindInvalidNonce,
	"NonceTooLarge":         api.ErrorKindInvalidNonce,
	"InvalidSignature":      api.ErrorKindInvalidSignature,
	"NotEnoughBalance":      api.ErrorKindNotEnoughBalance,
	"LackBalanceForState":   api.ErrorKindNotEnoughBalance,
	"SignerDoesNotExist":    api.ErrorKindAccountNotFound,
	"InvalidAccessKeyError": api.ErrorKindAccessKeyNotFound,
	"ActionsValidation":     api.ErrorKindActionError,
	"ActionError":           api.ErrorKindActionError,
	"Expired":               api.ErrorKindExpired,
	"InvalidChain":          api.ErrorKindInvalidTransaction,
	"InvalidTxError":        api.ErrorKindInvalidTransaction,
	"UNKNOWN_TRANSACTION":   api.ErrorKindUnknownTransaction,
	"UNKNOWN_ACCOUNT":       api.ErrorKindAccountNotFound,
	"UNKNOWN_ACCESS_KEY":    api.ErrorKindAccessKeyNotFound,
	"TIMEOUT_ERROR":         api.ErrorKindTimeout,
	"NO_SYNCED_BLOCKS":      api.ErrorKindSyncing,
	"NOT_SYNCED_YET":        api.ErrorKindSyncing,
	"INTERNAL_ERROR":        api.ErrorKindServerError,
}

// isTransient returns true for errors another endpoint or a later attempt
// might not produce.
func isTransient(kind api.ErrorKind) bool {
	switch kind {
	case api.ErrorKindTimeout,
		api.ErrorKindConnection,
		api.ErrorKindServerError,
		api.ErrorKindRateLimited,
		api.ErrorKindSyncing:
		return true
	default:
		return false
	}
}

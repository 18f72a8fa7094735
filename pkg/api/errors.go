// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Olovorr/near-api-js-ext/pkg/errors"
)

// ErrPending is returned by [TransactionQuerier.TransactionStatus] while the
// transaction is still executing.
var ErrPending = errors.Pending.With("transaction has not reached a final state")

// ErrorKind classifies a failed network request.
type ErrorKind int

const (
	ErrorKindUnknown ErrorKind = iota
	ErrorKindTimeout
	ErrorKindConnection
	ErrorKindServerError
	ErrorKindRateLimited
	ErrorKindSyncing
	ErrorKindAlreadyKnown
	ErrorKindUnknownTransaction
	ErrorKindInvalidNonce
	ErrorKindInvalidSignature
	ErrorKindNotEnoughBalance
	ErrorKindAccountNotFound
	ErrorKindAccessKeyNotFound
	ErrorKindActionError
	ErrorKindExpired
	ErrorKindInvalidTransaction
)

var errorKindNames = [...]string{
	ErrorKindUnknown:            "Unknown",
	ErrorKindTimeout:            "Timeout",
	ErrorKindConnection:         "Connection",
	ErrorKindServerError:        "ServerError",
	ErrorKindRateLimited:        "RateLimited",
	ErrorKindSyncing:            "Syncing",
	ErrorKindAlreadyKnown:       "AlreadyKnown",
	ErrorKindUnknownTransaction: "UnknownTransaction",
	ErrorKindInvalidNonce:       "InvalidNonce",
	ErrorKindInvalidSignature:   "InvalidSignature",
	ErrorKindNotEnoughBalance:   "NotEnoughBalance",
	ErrorKindAccountNotFound:    "AccountNotFound",
	ErrorKindAccessKeyNotFound:  "AccessKeyNotFound",
	ErrorKindActionError:        "ActionError",
	ErrorKindExpired:            "Expired",
	ErrorKindInvalidTransaction: "InvalidTransaction",
}

func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind:%d", int(k))
}

// Status returns the error status that corresponds to the kind.
func (k ErrorKind) Status() errors.Status {
	switch k {
	case ErrorKindTimeout,
		ErrorKindConnection,
		ErrorKindServerError,
		ErrorKindRateLimited,
		ErrorKindSyncing:
		return errors.NetworkTransient
	case ErrorKindAlreadyKnown:
		return errors.Pending
	case ErrorKindUnknownTransaction,
		ErrorKindAccountNotFound,
		ErrorKindAccessKeyNotFound:
		return errors.NotFound
	case ErrorKindInvalidNonce,
		ErrorKindInvalidSignature,
		ErrorKindNotEnoughBalance,
		ErrorKindActionError,
		ErrorKindExpired,
		ErrorKindInvalidTransaction:
		return errors.NetworkFatal
	default:
		return errors.UnknownError
	}
}

// RPCError is a failed network request.
type RPCError struct {
	Kind    ErrorKind
	Code    int64
	Message string
	Data    json.RawMessage

	// Cause is the transport error, if the request did not produce a
	// response.
	Cause error
}

func (e *RPCError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Data) > 0 && string(e.Data) != "null" {
		b.WriteString(": ")
		b.Write(e.Data)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *RPCError) Unwrap() error { return e.Cause }

// ErrorStatus implements [errors.StatusCoder].
func (e *RPCError) ErrorStatus() errors.Status { return e.Kind.Status() }

// InvalidNonce returns the nonce carried by the transaction and the nonce
// committed on chain, if this is an invalid nonce error.
func (e *RPCError) InvalidNonce() (txNonce, akNonce uint64, ok bool) {
	if e.Kind != ErrorKindInvalidNonce {
		return 0, 0, false
	}
	raw := FindVariant(e.Data, "InvalidNonce")
	if raw == nil {
		return 0, 0, false
	}
	var v struct {
		TxNonce uint64 `json:"tx_nonce"`
		AkNonce uint64 `json:"ak_nonce"`
	}
	if json.Unmarshal(raw, &v) != nil {
		return 0, 0, false
	}
	return v.TxNonce, v.AkNonce, true
}

// FindVariant searches a JSON value for an object key with the given name
// and returns its value.
func FindVariant(raw json.RawMessage, name string) json.RawMessage {
	var m map[string]json.RawMessage
	if json.Unmarshal(raw, &m) != nil {
		return nil
	}
	if v, ok := m[name]; ok {
		return v
	}
	for _, v := range m {
		if r := FindVariant(v, name); r != nil {
			return r
		}
	}
	return nil
}

// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package errors

import (
	"fmt"
	"strings"
)

// Status is a request status code.
type Status uint64

const (
	// OK means the request completed successfully.
	OK Status = 200

	// Pending means the transaction has been accepted but has not reached a
	// terminal state.
	Pending Status = 202

	// BadRequest means the request was malformed or invalid.
	BadRequest Status = 400

	// NotFound means a record could not be found.
	NotFound Status = 404

	// NonceConflict means the network rejected the nonce more than once, which
	// indicates some other party is using the same access key.
	NonceConflict Status = 409

	// EncodingError means a value could not be encoded or decoded.
	EncodingError Status = 420

	// SigningError means the key provider could not produce a signature.
	SigningError Status = 421

	// NetworkFatal means the network rejected the transaction and retrying
	// cannot help.
	NetworkFatal Status = 422

	// ReceiptFailure means the transaction was executed but a receipt in its
	// outcome graph failed.
	ReceiptFailure Status = 424

	// UnknownError means an unknown error occurred.
	UnknownError Status = 500

	// InternalError means an internal error occurred.
	InternalError Status = 501

	// NetworkTransient means a network request failed in a way that may
	// succeed if retried.
	NetworkTransient Status = 502

	// RetryExhausted means every attempt failed with a transient error.
	RetryExhausted Status = 503

	// PendingTimeout means the wait deadline passed before the transaction
	// reached a terminal state.
	PendingTimeout Status = 504
)

var statusNames = map[Status]string{
	OK:               "ok",
	Pending:          "pending",
	BadRequest:       "badRequest",
	NotFound:         "notFound",
	NonceConflict:    "nonceConflict",
	EncodingError:    "encodingError",
	SigningError:     "signingError",
	NetworkFatal:     "networkFatal",
	ReceiptFailure:   "receiptFailure",
	UnknownError:     "unknownError",
	InternalError:    "internalError",
	NetworkTransient: "networkTransient",
	RetryExhausted:   "retryExhausted",
	PendingTimeout:   "pendingTimeout",
}

// String returns the name of the status.
func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Status:%d", uint64(s))
}

// StatusByName returns the named status.
func StatusByName(name string) (Status, bool) {
	for s, n := range statusNames {
		if strings.EqualFold(n, name) {
			return s, true
		}
	}
	return 0, false
}

// MarshalText implements [encoding.TextMarshaler].
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Status) UnmarshalText(b []byte) error {
	v, ok := StatusByName(string(b))
	if !ok {
		return fmt.Errorf("%q is not a valid status", b)
	}
	*s = v
	return nil
}

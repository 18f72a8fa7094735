// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package submit

import (
	"fmt"
	"log/slog"

	"github.com/Olovorr/near-api-js-ext/pkg/api"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
)

// Class is how the submitter reacts to a failed request.
type Class int

const (
	// Fatal errors are returned immediately.
	Fatal Class = iota

	// Transient errors are retried.
	Transient

	// AlreadyKnown means the network already has the transaction, so the
	// broadcast counts as accepted.
	AlreadyKnown

	// NotYetKnown means the network has not seen the transaction yet. It is
	// only meaningful while polling.
	NotYetKnown
)

func (c Class) String() string {
	switch c {
	case Fatal:
		return "fatal"
	case Transient:
		return "transient"
	case AlreadyKnown:
		return "already-known"
	case NotYetKnown:
		return "not-yet-known"
	default:
		return fmt.Sprintf("Class:%d", int(c))
	}
}

// Classify determines the class of an error returned by the network
// client. Errors that did not come from the network, such as encoding
// failures, are fatal, as are errors of a kind it does not recognize.
func Classify(err error) Class {
	if err == nil {
		return Fatal
	}

	var rpcErr *api.RPCError
	if !errors.As(err, &rpcErr) {
		return Fatal
	}

	switch rpcErr.Kind {
	case api.ErrorKindTimeout,
		api.ErrorKindConnection,
		api.ErrorKindServerError,
		api.ErrorKindRateLimited,
		api.ErrorKindSyncing:
		return Transient

	case api.ErrorKindAlreadyKnown:
		return AlreadyKnown

	case api.ErrorKindUnknownTransaction:
		return NotYetKnown

	case api.ErrorKindInvalidNonce,
		api.ErrorKindInvalidSignature,
		api.ErrorKindNotEnoughBalance,
		api.ErrorKindAccountNotFound,
		api.ErrorKindAccessKeyNotFound,
		api.ErrorKindActionError,
		api.ErrorKindExpired,
		api.ErrorKindInvalidTransaction,
		api.ErrorKindUnknown:
		return Fatal

	default:
		slog.Warn("Unhandled error kind", "module", "submit", "kind", rpcErr.Kind, "error", err)
		return Fatal
	}
}

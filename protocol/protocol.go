// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/Olovorr/near-api-js-ext/pkg/errors"
)

// Network limits
const (
	// MinAccountIDLength is the length of the shortest valid account ID.
	MinAccountIDLength = 2

	// MaxAccountIDLength is the length of the longest valid account ID.
	MaxAccountIDLength = 64

	// MaxMethodNameLength is the maximum length of a function call method
	// name, in bytes.
	MaxMethodNameLength = 256

	// DelegateActionPrefix is the tag prepended to a delegate action before
	// it is hashed for signing. It keeps signed delegate actions from being
	// valid transactions and vice versa.
	DelegateActionPrefix = 1<<30 + 366

	// NearNominationExp is the number of decimal places in one NEAR.
	NearNominationExp = 24
)

var accountIDRegexp = regexp.MustCompile(`^(([a-z\d]+[\-_])*[a-z\d]+\.)*([a-z\d]+[\-_])*[a-z\d]+$`)

// ValidateAccountID returns an EncodingError if id is not a valid account ID.
func ValidateAccountID(id string) error {
	if len(id) < MinAccountIDLength {
		return errors.EncodingError.WithFormat("account ID %q is too short", id)
	}
	if len(id) > MaxAccountIDLength {
		return errors.EncodingError.WithFormat("account ID %q is too long", id)
	}
	if !accountIDRegexp.MatchString(id) {
		return errors.EncodingError.WithFormat("account ID %q contains invalid characters", id)
	}
	return nil
}

// IsImplicitAccount returns true if the ID is the hex encoding of an ed25519
// public key.
func IsImplicitAccount(id string) bool {
	if len(id) != 64 {
		return false
	}
	for _, c := range id {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

var oneNear = new(big.Int).Exp(big.NewInt(10), big.NewInt(NearNominationExp), nil)

// ParseNearAmount converts a decimal amount of NEAR, such as "1.5", into
// yoctoNEAR.
func ParseNearAmount(s string) (U128, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > NearNominationExp {
		return U128{}, errors.BadRequest.WithFormat("amount %q has more than %d decimal places", s, NearNominationExp)
	}
	if whole == "" {
		whole = "0"
	}
	digits := whole + frac + strings.Repeat("0", NearNominationExp-len(frac))
	return ParseU128(digits)
}

// FormatNearAmount formats an amount of yoctoNEAR as a decimal amount of
// NEAR, trimming trailing zeros.
func FormatNearAmount(v U128) string {
	q, r := new(big.Int).QuoRem(v.Big(), oneNear, new(big.Int))
	if r.Sign() == 0 {
		return q.String()
	}
	frac := r.String()
	frac = strings.Repeat("0", NearNominationExp-len(frac)) + frac
	return q.String() + "." + strings.TrimRight(frac, "0")
}

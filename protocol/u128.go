// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"encoding/json"
	"math/big"

	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/pkg/types/encoding"
)

// U128 is an unsigned 128-bit amount. The zero value is zero. U128 values
// should be treated as immutable.
type U128 struct {
	i *big.Int
}

// NewU128 returns v as a U128.
func NewU128(v uint64) U128 {
	return U128{new(big.Int).SetUint64(v)}
}

// U128FromBig returns a copy of v as a U128, or an error if v is out of
// range.
func U128FromBig(v *big.Int) (U128, error) {
	if v == nil {
		return U128{}, nil
	}
	if v.Sign() < 0 || v.Cmp(encoding.MaxUint128) > 0 {
		return U128{}, errors.EncodingError.WithFormat("%v is out of range for u128", v)
	}
	return U128{new(big.Int).Set(v)}, nil
}

// ParseU128 parses a decimal string.
func ParseU128(s string) (U128, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return U128{}, errors.EncodingError.WithFormat("invalid u128 %q", s)
	}
	return U128FromBig(v)
}

// Big returns a copy of the value.
func (u U128) Big() *big.Int {
	if u.i == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(u.i)
}

// IsZero returns true if the value is zero.
func (u U128) IsZero() bool { return u.i == nil || u.i.Sign() == 0 }

// Cmp compares two values.
func (u U128) Cmp(v U128) int { return u.Big().Cmp(v.Big()) }

func (u U128) String() string { return u.Big().String() }

func (u U128) WriteBinary(w *encoding.Writer) { w.WriteU128(u.i) }

func (u *U128) ReadBinary(r *encoding.Reader) { u.i = r.ReadU128() }

// MarshalJSON encodes the value as a decimal string.
func (u U128) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON accepts a decimal string or a bare number.
func (u *U128) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return errors.EncodingError.WithFormat("invalid u128: %w", err)
		}
		s = n.String()
	}
	v, err := ParseU128(s)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

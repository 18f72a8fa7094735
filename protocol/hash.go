// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"crypto/sha256"

	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/pkg/types/encoding"
	"github.com/mr-tron/base58"
)

// CryptoHash is a SHA-256 digest. Its text form is base58.
type CryptoHash [32]byte

// HashBytes returns the SHA-256 digest of b.
func HashBytes(b []byte) CryptoHash { return sha256.Sum256(b) }

// ParseCryptoHash parses the base58 form of a hash.
func ParseCryptoHash(s string) (CryptoHash, error) {
	var h CryptoHash
	b, err := base58.Decode(s)
	if err != nil {
		return h, errors.EncodingError.WithFormat("invalid hash %q: %w", s, err)
	}
	if len(b) != len(h) {
		return h, errors.EncodingError.WithFormat("invalid hash %q: want 32 bytes, got %d", s, len(b))
	}
	copy(h[:], b)
	return h, nil
}

func (h CryptoHash) String() string { return base58.Encode(h[:]) }

// IsZero returns true if every byte is zero.
func (h CryptoHash) IsZero() bool { return h == CryptoHash{} }

func (h CryptoHash) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *CryptoHash) UnmarshalText(b []byte) error {
	v, err := ParseCryptoHash(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

func (h CryptoHash) WriteBinary(w *encoding.Writer) { w.WriteFixed(h[:]) }

func (h *CryptoHash) ReadBinary(r *encoding.Reader) {
	copy(h[:], r.ReadFixed(len(h)))
}

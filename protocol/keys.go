// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/pkg/types/encoding"
	"github.com/mr-tron/base58"
)

// KeyType is the curve of a key or signature.
type KeyType uint8

const (
	KeyTypeED25519   KeyType = 0
	KeyTypeSECP256K1 KeyType = 1
)

// KeyTypeByName returns the key type with the given name.
func KeyTypeByName(name string) (KeyType, bool) {
	switch strings.ToLower(name) {
	case "ed25519":
		return KeyTypeED25519, true
	case "secp256k1":
		return KeyTypeSECP256K1, true
	default:
		return 0, false
	}
}

func (t KeyType) String() string {
	switch t {
	case KeyTypeED25519:
		return "ed25519"
	case KeyTypeSECP256K1:
		return "secp256k1"
	default:
		return fmt.Sprintf("KeyType:%d", t)
	}
}

// PublicKeyLength returns the length of a public key of this type, or zero.
func (t KeyType) PublicKeyLength() int {
	switch t {
	case KeyTypeED25519:
		return 32
	case KeyTypeSECP256K1:
		return 64
	default:
		return 0
	}
}

// SignatureLength returns the length of a signature of this type, or zero.
func (t KeyType) SignatureLength() int {
	switch t {
	case KeyTypeED25519:
		return 64
	case KeyTypeSECP256K1:
		return 65
	default:
		return 0
	}
}

// PublicKey is a typed public key.
type PublicKey struct {
	Type KeyType
	Data []byte
}

// ParsePublicKey parses the text form of a public key, "<type>:<base58>".
// A key without a type prefix is ed25519.
func ParsePublicKey(s string) (*PublicKey, error) {
	typ, data, err := parseTyped(s, KeyType.PublicKeyLength)
	if err != nil {
		return nil, errors.EncodingError.WithFormat("invalid public key: %w", err)
	}
	return &PublicKey{Type: typ, Data: data}, nil
}

// MustParsePublicKey calls ParsePublicKey and panics on error.
func MustParsePublicKey(s string) *PublicKey {
	k, err := ParsePublicKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

func (k *PublicKey) String() string {
	if k == nil {
		return "<nil>"
	}
	return k.Type.String() + ":" + base58.Encode(k.Data)
}

// Equal returns true if the keys have the same type and data.
func (k *PublicKey) Equal(l *PublicKey) bool {
	if k == l {
		return true
	}
	if k == nil || l == nil {
		return false
	}
	return k.Type == l.Type && bytes.Equal(k.Data, l.Data)
}

// Validate checks the key length against its type.
func (k *PublicKey) Validate() error {
	if k == nil {
		return errors.EncodingError.With("missing public key")
	}
	return checkLength("public key", k.Type, len(k.Data), k.Type.PublicKeyLength())
}

func (k PublicKey) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *PublicKey) UnmarshalText(b []byte) error {
	l, err := ParsePublicKey(string(b))
	if err != nil {
		return err
	}
	*k = *l
	return nil
}

func (k *PublicKey) WriteBinary(w *encoding.Writer) {
	if err := k.Validate(); err != nil {
		w.Fail("%v", err)
		return
	}
	w.WriteU8(uint8(k.Type))
	w.WriteFixed(k.Data)
}

func (k *PublicKey) ReadBinary(r *encoding.Reader) {
	k.Type = KeyType(r.ReadU8())
	n := k.Type.PublicKeyLength()
	if n == 0 {
		r.Fail("unknown key type %d", k.Type)
		return
	}
	k.Data = r.ReadFixed(n)
}

// Signature is a typed signature.
type Signature struct {
	Type KeyType
	Data []byte
}

// ParseSignature parses the text form of a signature, "<type>:<base58>".
func ParseSignature(s string) (*Signature, error) {
	typ, data, err := parseTyped(s, KeyType.SignatureLength)
	if err != nil {
		return nil, errors.EncodingError.WithFormat("invalid signature: %w", err)
	}
	return &Signature{Type: typ, Data: data}, nil
}

func (s *Signature) String() string {
	if s == nil {
		return "<nil>"
	}
	return s.Type.String() + ":" + base58.Encode(s.Data)
}

// Validate checks the signature length against its type.
func (s *Signature) Validate() error {
	if s == nil {
		return errors.EncodingError.With("missing signature")
	}
	return checkLength("signature", s.Type, len(s.Data), s.Type.SignatureLength())
}

func (s Signature) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Signature) UnmarshalText(b []byte) error {
	t, err := ParseSignature(string(b))
	if err != nil {
		return err
	}
	*s = *t
	return nil
}

func (s *Signature) WriteBinary(w *encoding.Writer) {
	if err := s.Validate(); err != nil {
		w.Fail("%v", err)
		return
	}
	w.WriteU8(uint8(s.Type))
	w.WriteFixed(s.Data)
}

func (s *Signature) ReadBinary(r *encoding.Reader) {
	s.Type = KeyType(r.ReadU8())
	n := s.Type.SignatureLength()
	if n == 0 {
		r.Fail("unknown signature type %d", s.Type)
		return
	}
	s.Data = r.ReadFixed(n)
}

func parseTyped(s string, length func(KeyType) int) (KeyType, []byte, error) {
	typ := KeyTypeED25519
	name, data, ok := strings.Cut(s, ":")
	if ok {
		var known bool
		typ, known = KeyTypeByName(name)
		if !known {
			return 0, nil, fmt.Errorf("unknown key type %q", name)
		}
	} else {
		data = name
	}

	b, err := base58.Decode(data)
	if err != nil {
		return 0, nil, err
	}
	if len(b) != length(typ) {
		return 0, nil, fmt.Errorf("%v: want %d bytes, got %d", typ, length(typ), len(b))
	}
	return typ, b, nil
}

func checkLength(what string, typ KeyType, got, want int) error {
	if want == 0 {
		return errors.EncodingError.WithFormat("%s has unknown key type %d", what, typ)
	}
	if got != want {
		return errors.EncodingError.WithFormat("%v %s must be %d bytes, got %d", typ, what, want, got)
	}
	return nil
}

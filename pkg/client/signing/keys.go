// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package signing

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"

	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/protocol"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/mr-tron/base58"
)

// KeyPair is a private key that can sign messages.
type KeyPair interface {
	PublicKey() *protocol.PublicKey
	Sign(message []byte) (*protocol.Signature, error)

	// String returns the secret key in text form.
	String() string
}

// GenerateKeyPair creates a random key pair of the given type.
func GenerateKeyPair(typ protocol.KeyType) (KeyPair, error) {
	switch typ {
	case protocol.KeyTypeED25519:
		_, sk, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, errors.InternalError.WithFormat("generate ed25519 key: %w", err)
		}
		return ED25519KeyPair(sk), nil

	case protocol.KeyTypeSECP256K1:
		sk, err := btcec.NewPrivateKey()
		if err != nil {
			return nil, errors.InternalError.WithFormat("generate secp256k1 key: %w", err)
		}
		return &SECP256K1KeyPair{key: sk}, nil

	default:
		return nil, errors.BadRequest.WithFormat("unsupported key type %v", typ)
	}
}

// ParseKeyPair parses a secret key in text form, "<type>:<base58>". A key
// without a type prefix is ed25519.
func ParseKeyPair(s string) (KeyPair, error) {
	typ := protocol.KeyTypeED25519
	name, data, ok := strings.Cut(s, ":")
	if ok {
		var known bool
		typ, known = protocol.KeyTypeByName(name)
		if !known {
			return nil, errors.EncodingError.WithFormat("unknown key type %q", name)
		}
	} else {
		data = name
	}

	b, err := base58.Decode(data)
	if err != nil {
		return nil, errors.EncodingError.WithFormat("invalid secret key: %w", err)
	}

	switch typ {
	case protocol.KeyTypeED25519:
		switch len(b) {
		case ed25519.PrivateKeySize:
			return ED25519KeyPair(b), nil
		case ed25519.SeedSize:
			return ED25519KeyPair(ed25519.NewKeyFromSeed(b)), nil
		}
		return nil, errors.EncodingError.WithFormat("invalid ed25519 secret key length %d", len(b))

	case protocol.KeyTypeSECP256K1:
		if len(b) != btcec.PrivKeyBytesLen {
			return nil, errors.EncodingError.WithFormat("invalid secp256k1 secret key length %d", len(b))
		}
		sk, _ := btcec.PrivKeyFromBytes(b)
		return &SECP256K1KeyPair{key: sk}, nil

	default:
		panic("unreachable")
	}
}

// ED25519KeyPair is a 64-byte ed25519 private key.
type ED25519KeyPair ed25519.PrivateKey

func (k ED25519KeyPair) PublicKey() *protocol.PublicKey {
	pub := ed25519.PrivateKey(k).Public().(ed25519.PublicKey)
	return &protocol.PublicKey{Type: protocol.KeyTypeED25519, Data: []byte(pub)}
}

func (k ED25519KeyPair) Sign(message []byte) (*protocol.Signature, error) {
	if len(k) != ed25519.PrivateKeySize {
		return nil, errors.SigningError.With("invalid ed25519 private key")
	}
	sig := ed25519.Sign(ed25519.PrivateKey(k), message)
	return &protocol.Signature{Type: protocol.KeyTypeED25519, Data: sig}, nil
}

func (k ED25519KeyPair) String() string {
	return "ed25519:" + base58.Encode(k)
}

// SECP256K1KeyPair is a secp256k1 private key. Signatures are recoverable,
// r || s || v.
type SECP256K1KeyPair struct {
	key *btcec.PrivateKey
}

func (k *SECP256K1KeyPair) PublicKey() *protocol.PublicKey {
	// Drop the 0x04 prefix of the uncompressed encoding
	b := k.key.PubKey().SerializeUncompressed()[1:]
	return &protocol.PublicKey{Type: protocol.KeyTypeSECP256K1, Data: b}
}

func (k *SECP256K1KeyPair) Sign(message []byte) (*protocol.Signature, error) {
	if len(message) != 32 {
		return nil, errors.SigningError.WithFormat("secp256k1 signs a 32-byte hash, got %d bytes", len(message))
	}
	compact, err := ecdsa.SignCompact(k.key, message, false)
	if err != nil {
		return nil, errors.SigningError.WithFormat("sign: %w", err)
	}

	// Compact signatures are [27+v] || r || s
	sig := make([]byte, 65)
	copy(sig, compact[1:])
	sig[64] = compact[0] - 27
	return &protocol.Signature{Type: protocol.KeyTypeSECP256K1, Data: sig}, nil
}

func (k *SECP256K1KeyPair) String() string {
	return "secp256k1:" + base58.Encode(k.key.Serialize())
}

// Verify checks a signature over a message.
func Verify(key *protocol.PublicKey, message []byte, sig *protocol.Signature) bool {
	if key == nil || sig == nil || key.Type != sig.Type {
		return false
	}
	if key.Validate() != nil || sig.Validate() != nil {
		return false
	}

	switch key.Type {
	case protocol.KeyTypeED25519:
		return ed25519.Verify(ed25519.PublicKey(key.Data), message, sig.Data)

	case protocol.KeyTypeSECP256K1:
		if len(message) != 32 || sig.Data[64] > 3 {
			return false
		}
		compact := make([]byte, 65)
		compact[0] = sig.Data[64] + 27
		copy(compact[1:], sig.Data[:64])
		pub, _, err := ecdsa.RecoverCompact(compact, message)
		if err != nil {
			return false
		}
		return string(pub.SerializeUncompressed()[1:]) == string(key.Data)

	default:
		return false
	}
}

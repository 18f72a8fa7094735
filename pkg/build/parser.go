// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package build

import (
	"encoding/json"
	"math/big"
	"strconv"
	"strings"

	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/protocol"
)

type Errors []error

func (e Errors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var errs []string
	for _, e := range e {
		errs = append(errs, e.Error())
	}
	return strings.Join(errs, "; ")
}

func (e Errors) Unwrap() []error { return e }

type parser struct {
	errs []error
}

func (p *parser) ok() bool {
	return len(p.errs) == 0
}

func (p *parser) err() error {
	switch len(p.errs) {
	case 0:
		return nil
	case 1:
		return p.errs[0]
	default:
		return Errors(p.errs)
	}
}

func (p *parser) record(err ...error) {
	errs := make([]error, 0, len(p.errs)+len(err))
	errs = append(errs, p.errs...)
	errs = append(errs, err...)
	p.errs = errs
}

func (p *parser) errorf(code errors.Status, format string, args ...interface{}) {
	p.record(code.Skip(1).WithFormat(format, args...))
}

func (p *parser) parseAccountID(id string) string {
	if err := protocol.ValidateAccountID(id); err != nil {
		p.record(err)
	}
	return id
}

// parseAmount accepts a U128, a big.Int, an unsigned or non-negative integer,
// a decimal yoctoNEAR string, or a string ending in " NEAR".
func (p *parser) parseAmount(v any) protocol.U128 {
	switch v := v.(type) {
	case nil:
		return protocol.U128{}
	case protocol.U128:
		return v
	case *protocol.U128:
		if v == nil {
			return protocol.U128{}
		}
		return *v
	case *big.Int:
		u, err := protocol.U128FromBig(v)
		if err != nil {
			p.record(err)
		}
		return u
	case uint64:
		return protocol.NewU128(v)
	case int:
		if v < 0 {
			p.errorf(errors.EncodingError, "negative amount %d", v)
			return protocol.U128{}
		}
		return protocol.NewU128(uint64(v))
	case string:
		if s, ok := strings.CutSuffix(strings.TrimSpace(v), "NEAR"); ok {
			u, err := protocol.ParseNearAmount(strings.TrimSpace(s))
			if err != nil {
				p.record(err)
			}
			return u
		}
		u, err := protocol.ParseU128(v)
		if err != nil {
			p.record(err)
		}
		return u
	default:
		p.errorf(errors.BadRequest, "cannot convert %T to an amount", v)
		return protocol.U128{}
	}
}

// parseGas accepts an integer or a decimal string, optionally with a Tgas
// suffix.
func (p *parser) parseGas(v any) uint64 {
	switch v := v.(type) {
	case nil:
		return DefaultFunctionCallGas
	case uint64:
		return v
	case int:
		if v < 0 {
			p.errorf(errors.EncodingError, "negative gas %d", v)
			return 0
		}
		return uint64(v)
	case string:
		s := strings.TrimSpace(v)
		scale := uint64(1)
		if t, ok := strings.CutSuffix(s, "Tgas"); ok {
			s, scale = strings.TrimSpace(t), TeraGas
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			p.errorf(errors.EncodingError, "invalid gas %q: %w", v, err)
			return 0
		}
		if n > ^uint64(0)/scale {
			p.errorf(errors.EncodingError, "gas %q overflows u64", v)
			return 0
		}
		return n * scale
	default:
		p.errorf(errors.BadRequest, "cannot convert %T to gas", v)
		return 0
	}
}

func (p *parser) parsePublicKey(v any) *protocol.PublicKey {
	switch v := v.(type) {
	case *protocol.PublicKey:
		if v == nil {
			p.errorf(errors.BadRequest, "missing public key")
			return nil
		}
		if err := v.Validate(); err != nil {
			p.record(err)
		}
		return v
	case protocol.PublicKey:
		return p.parsePublicKey(&v)
	case string:
		k, err := protocol.ParsePublicKey(v)
		if err != nil {
			p.record(err)
		}
		return k
	case interface{ PublicKey() *protocol.PublicKey }:
		return p.parsePublicKey(v.PublicKey())
	default:
		p.errorf(errors.BadRequest, "cannot convert %T to a public key", v)
		return nil
	}
}

func (p *parser) parseHash(v any) protocol.CryptoHash {
	switch v := v.(type) {
	case protocol.CryptoHash:
		return v
	case [32]byte:
		return v
	case []byte:
		if len(v) != len(protocol.CryptoHash{}) {
			p.errorf(errors.EncodingError, "hash must be 32 bytes, got %d", len(v))
			return protocol.CryptoHash{}
		}
		return *(*[32]byte)(v)
	case string:
		h, err := protocol.ParseCryptoHash(v)
		if err != nil {
			p.record(err)
		}
		return h
	default:
		p.errorf(errors.BadRequest, "cannot convert %T to a hash", v)
		return protocol.CryptoHash{}
	}
}

// parseArgs passes bytes through and encodes anything else as JSON. Nil is
// an empty JSON object.
func (p *parser) parseArgs(v any) []byte {
	switch v := v.(type) {
	case nil:
		return []byte("{}")
	case []byte:
		return v
	case json.RawMessage:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			p.errorf(errors.EncodingError, "encode arguments: %w", err)
			return nil
		}
		return b
	}
}

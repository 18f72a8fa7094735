// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"github.com/Olovorr/near-api-js-ext/protocol"
	"github.com/spf13/pflag"
)

// AmountFlag is an amount of NEAR, such as 1.5, stored in yoctoNEAR.
type AmountFlag struct {
	Value *protocol.U128
}

var _ pflag.Value = AmountFlag{}

func (f AmountFlag) Type() string { return "near" }

func (f AmountFlag) String() string {
	if f.Value == nil {
		return "0"
	}
	return protocol.FormatNearAmount(*f.Value)
}

func (f AmountFlag) Set(s string) error {
	v, err := protocol.ParseNearAmount(s)
	if err != nil {
		return err
	}
	*f.Value = v
	return nil
}

// KeyTypeFlag is a key type name.
type KeyTypeFlag struct {
	Value *protocol.KeyType
}

var _ pflag.Value = KeyTypeFlag{}

func (f KeyTypeFlag) Type() string   { return "key-type" }
func (f KeyTypeFlag) String() string { return f.Value.String() }

func (f KeyTypeFlag) Set(s string) error {
	typ, ok := protocol.KeyTypeByName(s)
	if !ok {
		return errUnknownKeyType(s)
	}
	*f.Value = typ
	return nil
}

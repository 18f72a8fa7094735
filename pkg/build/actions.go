// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package build

import (
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/Olovorr/near-api-js-ext/protocol"
)

const (
	TeraGas = 1_000_000_000_000

	// DefaultFunctionCallGas is the gas attached to a function call when the
	// caller does not specify it.
	DefaultFunctionCallGas = 30 * TeraGas
)

// ActionsBuilder accumulates actions. Invalid arguments are recorded and
// returned by Build.
type ActionsBuilder struct {
	parser
	actions []protocol.Action
}

func Actions() ActionsBuilder {
	return ActionsBuilder{}
}

func (b ActionsBuilder) add(action protocol.Action) ActionsBuilder {
	// Copy so builders derived from the same base do not share a backing
	// array
	actions := make([]protocol.Action, 0, len(b.actions)+1)
	actions = append(actions, b.actions...)
	b.actions = append(actions, action)
	return b
}

func (b ActionsBuilder) CreateAccount() ActionsBuilder {
	return b.add(&protocol.CreateAccount{})
}

func (b ActionsBuilder) DeployContract(code []byte) ActionsBuilder {
	return b.add(&protocol.DeployContract{Code: code})
}

// FunctionCall adds a function call. Args are passed through if they are
// bytes and JSON encoded otherwise. A nil gas means
// [DefaultFunctionCallGas].
func (b ActionsBuilder) FunctionCall(method string, args, gas, deposit any) ActionsBuilder {
	if method == "" {
		b.errorf(errors.BadRequest, "missing method name")
	}
	if deposit == nil {
		deposit = uint64(0)
	}
	return b.add(&protocol.FunctionCall{
		MethodName: method,
		Args:       b.parseArgs(args),
		Gas:        b.parseGas(gas),
		Deposit:    b.parseAmount(deposit),
	})
}

func (b ActionsBuilder) Transfer(amount any) ActionsBuilder {
	return b.add(&protocol.Transfer{Deposit: b.parseAmount(amount)})
}

func (b ActionsBuilder) Stake(amount, key any) ActionsBuilder {
	return b.add(&protocol.Stake{Stake: b.parseAmount(amount), PublicKey: b.parsePublicKey(key)})
}

func (b ActionsBuilder) AddFullAccessKey(key any) ActionsBuilder {
	return b.add(&protocol.AddKey{PublicKey: b.parsePublicKey(key), AccessKey: protocol.FullAccess()})
}

// AddFunctionCallKey adds a key that may only call the given methods of the
// receiver. No methods means any method. A nil allowance means unlimited.
func (b ActionsBuilder) AddFunctionCallKey(key any, receiverID string, methods []string, allowance any) ActionsBuilder {
	perm := &protocol.FunctionCallPermission{
		ReceiverID:  b.parseAccountID(receiverID),
		MethodNames: methods,
	}
	if allowance != nil {
		a := b.parseAmount(allowance)
		perm.Allowance = &a
	}
	return b.add(&protocol.AddKey{
		PublicKey: b.parsePublicKey(key),
		AccessKey: protocol.AccessKey{Permission: protocol.AccessPermission{FunctionCall: perm}},
	})
}

func (b ActionsBuilder) DeleteKey(key any) ActionsBuilder {
	return b.add(&protocol.DeleteKey{PublicKey: b.parsePublicKey(key)})
}

func (b ActionsBuilder) DeleteAccount(beneficiaryID string) ActionsBuilder {
	return b.add(&protocol.DeleteAccount{BeneficiaryID: b.parseAccountID(beneficiaryID)})
}

func (b ActionsBuilder) Delegate(d *protocol.SignedDelegate) ActionsBuilder {
	if d == nil {
		b.errorf(errors.BadRequest, "missing signed delegate")
		return b
	}
	return b.add(&protocol.Delegate{SignedDelegate: *d})
}

func (b ActionsBuilder) Build() ([]protocol.Action, error) {
	if !b.ok() {
		return nil, b.err()
	}
	if len(b.actions) == 0 {
		return nil, errors.BadRequest.With("no actions")
	}
	return b.actions, nil
}

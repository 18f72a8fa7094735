// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"fmt"

	"github.com/Olovorr/near-api-js-ext/pkg/types/encoding"
)

// ActionType is the discriminant of an action. The values are the wire
// discriminants and must never be reordered.
type ActionType uint8

const (
	ActionTypeCreateAccount  ActionType = 0
	ActionTypeDeployContract ActionType = 1
	ActionTypeFunctionCall   ActionType = 2
	ActionTypeTransfer       ActionType = 3
	ActionTypeStake          ActionType = 4
	ActionTypeAddKey         ActionType = 5
	ActionTypeDeleteKey      ActionType = 6
	ActionTypeDeleteAccount  ActionType = 7
	ActionTypeDelegate       ActionType = 8
)

var actionTypeNames = map[ActionType]string{
	ActionTypeCreateAccount:  "CreateAccount",
	ActionTypeDeployContract: "DeployContract",
	ActionTypeFunctionCall:   "FunctionCall",
	ActionTypeTransfer:       "Transfer",
	ActionTypeStake:          "Stake",
	ActionTypeAddKey:         "AddKey",
	ActionTypeDeleteKey:      "DeleteKey",
	ActionTypeDeleteAccount:  "DeleteAccount",
	ActionTypeDelegate:       "Delegate",
}

func (t ActionType) String() string {
	if s, ok := actionTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ActionType:%d", t)
}

// Action is one step of a transaction. The set of actions is closed; every
// implementation is declared in this file.
type Action interface {
	encoding.BinaryWriterTo
	encoding.BinaryReaderFrom
	Type() ActionType
}

type CreateAccount struct{}

type DeployContract struct {
	Code []byte
}

type FunctionCall struct {
	MethodName string
	Args       []byte
	Gas        uint64
	Deposit    U128
}

type Transfer struct {
	Deposit U128
}

type Stake struct {
	Stake     U128
	PublicKey *PublicKey
}

type AddKey struct {
	PublicKey *PublicKey
	AccessKey AccessKey
}

type DeleteKey struct {
	PublicKey *PublicKey
}

type DeleteAccount struct {
	BeneficiaryID string
}

// Delegate carries a signed delegate action, allowing a relayer to pay for
// a transaction another account authorized.
type Delegate struct {
	SignedDelegate
}

func (*CreateAccount) Type() ActionType  { return ActionTypeCreateAccount }
func (*DeployContract) Type() ActionType { return ActionTypeDeployContract }
func (*FunctionCall) Type() ActionType   { return ActionTypeFunctionCall }
func (*Transfer) Type() ActionType       { return ActionTypeTransfer }
func (*Stake) Type() ActionType          { return ActionTypeStake }
func (*AddKey) Type() ActionType         { return ActionTypeAddKey }
func (*DeleteKey) Type() ActionType      { return ActionTypeDeleteKey }
func (*DeleteAccount) Type() ActionType  { return ActionTypeDeleteAccount }
func (*Delegate) Type() ActionType       { return ActionTypeDelegate }

// NewAction returns an empty action of the given type.
func NewAction(typ ActionType) (Action, error) {
	switch typ {
	case ActionTypeCreateAccount:
		return new(CreateAccount), nil
	case ActionTypeDeployContract:
		return new(DeployContract), nil
	case ActionTypeFunctionCall:
		return new(FunctionCall), nil
	case ActionTypeTransfer:
		return new(Transfer), nil
	case ActionTypeStake:
		return new(Stake), nil
	case ActionTypeAddKey:
		return new(AddKey), nil
	case ActionTypeDeleteKey:
		return new(DeleteKey), nil
	case ActionTypeDeleteAccount:
		return new(DeleteAccount), nil
	case ActionTypeDelegate:
		return new(Delegate), nil
	default:
		return nil, fmt.Errorf("unknown action type %v", typ)
	}
}

// WriteAction writes the discriminant of the action followed by its body.
func WriteAction(w *encoding.Writer, a Action) {
	if a == nil {
		w.Fail("nil action")
		return
	}
	w.WriteU8(uint8(a.Type()))
	w.WriteValue(a)
}

// ReadAction reads an action written by WriteAction.
func ReadAction(r *encoding.Reader) Action {
	typ := ActionType(r.ReadU8())
	if r.Err() != nil {
		return nil
	}
	a, err := NewAction(typ)
	if err != nil {
		r.Fail("%v", err)
		return nil
	}
	r.ReadValue(a)
	return a
}

func writeActions(w *encoding.Writer, actions []Action, allowDelegate bool) {
	w.WriteLen(len(actions))
	for i, a := range actions {
		if !allowDelegate && a != nil && a.Type() == ActionTypeDelegate {
			w.Fail("action %d: a delegate action cannot contain a delegate action", i)
			return
		}
		WriteAction(w, a)
	}
}

func readActions(r *encoding.Reader, allowDelegate bool) []Action {
	n := r.ReadLen()
	actions := make([]Action, 0, n)
	for i := 0; i < n && r.Err() == nil; i++ {
		a := ReadAction(r)
		if a != nil && !allowDelegate && a.Type() == ActionTypeDelegate {
			r.Fail("action %d: a delegate action cannot contain a delegate action", i)
			return nil
		}
		actions = append(actions, a)
	}
	return actions
}

func (*CreateAccount) WriteBinary(*encoding.Writer) {}
func (*CreateAccount) ReadBinary(*encoding.Reader)  {}

func (a *DeployContract) WriteBinary(w *encoding.Writer) { w.WriteBytes(a.Code) }
func (a *DeployContract) ReadBinary(r *encoding.Reader)  { a.Code = r.ReadBytes() }

func (a *FunctionCall) WriteBinary(w *encoding.Writer) {
	if len(a.MethodName) > MaxMethodNameLength {
		w.Fail("method name is %d bytes, the maximum is %d", len(a.MethodName), MaxMethodNameLength)
		return
	}
	w.WriteString(a.MethodName)
	w.WriteBytes(a.Args)
	w.WriteU64(a.Gas)
	w.WriteValue(a.Deposit)
}

func (a *FunctionCall) ReadBinary(r *encoding.Reader) {
	a.MethodName = r.ReadString()
	a.Args = r.ReadBytes()
	a.Gas = r.ReadU64()
	r.ReadValue(&a.Deposit)
}

func (a *Transfer) WriteBinary(w *encoding.Writer) { w.WriteValue(a.Deposit) }
func (a *Transfer) ReadBinary(r *encoding.Reader)  { r.ReadValue(&a.Deposit) }

func (a *Stake) WriteBinary(w *encoding.Writer) {
	w.WriteValue(a.Stake)
	w.WriteValue(a.PublicKey)
}

func (a *Stake) ReadBinary(r *encoding.Reader) {
	r.ReadValue(&a.Stake)
	a.PublicKey = new(PublicKey)
	r.ReadValue(a.PublicKey)
}

func (a *AddKey) WriteBinary(w *encoding.Writer) {
	w.WriteValue(a.PublicKey)
	w.WriteValue(&a.AccessKey)
}

func (a *AddKey) ReadBinary(r *encoding.Reader) {
	a.PublicKey = new(PublicKey)
	r.ReadValue(a.PublicKey)
	r.ReadValue(&a.AccessKey)
}

func (a *DeleteKey) WriteBinary(w *encoding.Writer) { w.WriteValue(a.PublicKey) }

func (a *DeleteKey) ReadBinary(r *encoding.Reader) {
	a.PublicKey = new(PublicKey)
	r.ReadValue(a.PublicKey)
}

func (a *DeleteAccount) WriteBinary(w *encoding.Writer) {
	if err := ValidateAccountID(a.BeneficiaryID); err != nil {
		w.Fail("beneficiary: %v", err)
		return
	}
	w.WriteString(a.BeneficiaryID)
}

func (a *DeleteAccount) ReadBinary(r *encoding.Reader) { a.BeneficiaryID = r.ReadString() }

func (a *Delegate) WriteBinary(w *encoding.Writer) { w.WriteValue(&a.SignedDelegate) }
func (a *Delegate) ReadBinary(r *encoding.Reader)  { r.ReadValue(&a.SignedDelegate) }

func errUnknownVariant(what, name string) error {
	return fmt.Errorf("unknown %s variant %q", what, name)
}

// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"encoding/json"

	"github.com/Olovorr/near-api-js-ext/pkg/types/encoding"
)

// AccessKey is the on-chain record of a public key's nonce and permission.
type AccessKey struct {
	Nonce      uint64           `json:"nonce"`
	Permission AccessPermission `json:"permission"`
}

// AccessPermission is either full access or a function-call-only
// permission. A nil FunctionCall means full access.
type AccessPermission struct {
	FunctionCall *FunctionCallPermission
}

// FunctionCallPermission restricts a key to calling methods on a single
// contract, optionally with a gas allowance.
type FunctionCallPermission struct {
	Allowance   *U128    `json:"allowance"`
	ReceiverID  string   `json:"receiver_id"`
	MethodNames []string `json:"method_names"`
}

// FullAccess returns a full access key with a zero nonce.
func FullAccess() AccessKey {
	return AccessKey{}
}

// IsFullAccess returns true if the permission is unrestricted.
func (p AccessPermission) IsFullAccess() bool { return p.FunctionCall == nil }

func (k *AccessKey) WriteBinary(w *encoding.Writer) {
	w.WriteU64(k.Nonce)
	w.WriteValue(&k.Permission)
}

func (k *AccessKey) ReadBinary(r *encoding.Reader) {
	k.Nonce = r.ReadU64()
	r.ReadValue(&k.Permission)
}

func (p *AccessPermission) WriteBinary(w *encoding.Writer) {
	if p.FunctionCall == nil {
		w.WriteU8(1)
		return
	}

	f := p.FunctionCall
	if err := ValidateAccountID(f.ReceiverID); err != nil {
		w.Fail("%v", err)
		return
	}
	w.WriteU8(0)
	w.WriteOption(f.Allowance != nil)
	if f.Allowance != nil {
		w.WriteValue(f.Allowance)
	}
	w.WriteString(f.ReceiverID)
	w.WriteLen(len(f.MethodNames))
	for _, m := range f.MethodNames {
		w.WriteString(m)
	}
}

func (p *AccessPermission) ReadBinary(r *encoding.Reader) {
	switch v := r.ReadU8(); v {
	case 1:
		p.FunctionCall = nil
	case 0:
		f := new(FunctionCallPermission)
		if r.ReadOption() {
			f.Allowance = new(U128)
			r.ReadValue(f.Allowance)
		}
		f.ReceiverID = r.ReadString()
		n := r.ReadLen()
		for i := 0; i < n && r.Err() == nil; i++ {
			f.MethodNames = append(f.MethodNames, r.ReadString())
		}
		p.FunctionCall = f
	default:
		r.Fail("unknown access key permission %d", v)
	}
}

// MarshalJSON encodes the permission the way the network does: the string
// "FullAccess" or {"FunctionCall": {...}}.
func (p AccessPermission) MarshalJSON() ([]byte, error) {
	if p.FunctionCall == nil {
		return json.Marshal("FullAccess")
	}
	return json.Marshal(map[string]*FunctionCallPermission{"FunctionCall": p.FunctionCall})
}

func (p *AccessPermission) UnmarshalJSON(b []byte) error {
	var s string
	if json.Unmarshal(b, &s) == nil {
		if s != "FullAccess" {
			return encoding.Error{E: errUnknownVariant("access key permission", s)}
		}
		p.FunctionCall = nil
		return nil
	}

	var v struct{ FunctionCall *FunctionCallPermission }
	if err := json.Unmarshal(b, &v); err != nil {
		return encoding.Error{E: err}
	}
	if v.FunctionCall == nil {
		return encoding.Error{E: errUnknownVariant("access key permission", string(b))}
	}
	p.FunctionCall = v.FunctionCall
	return nil
}

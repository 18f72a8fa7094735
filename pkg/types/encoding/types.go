// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package encoding

import (
	"bytes"
	"fmt"

	"github.com/Olovorr/near-api-js-ext/pkg/errors"
)

// Error is an encoding or decoding failure.
type Error struct {
	E error
}

func (e Error) Error() string { return e.E.Error() }
func (e Error) Unwrap() error { return e.E }

// ErrorStatus implements [errors.StatusCoder].
func (e Error) ErrorStatus() errors.Status { return errors.EncodingError }

// BinaryWriterTo is a value that writes itself in the canonical layout.
type BinaryWriterTo interface {
	WriteBinary(w *Writer)
}

// BinaryReaderFrom is a value that reads itself from the canonical layout.
type BinaryReaderFrom interface {
	ReadBinary(r *Reader)
}

// Marshal returns the canonical encoding of v.
func Marshal(v BinaryWriterTo) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := NewWriter(buf)
	v.WriteBinary(w)
	if _, err := w.Done(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes b into v. Every byte of b must be consumed.
func Unmarshal(b []byte, v BinaryReaderFrom) error {
	r := NewReader(bytes.NewReader(b))
	v.ReadBinary(r)
	n, err := r.Done()
	if err != nil {
		return err
	}
	if n != len(b) {
		return Error{fmt.Errorf("%d trailing bytes", len(b)-n)}
	}
	return nil
}

// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package encoding

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/big"
)

// MaxUint128 is 2^128 - 1.
var MaxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// A Writer writes values in the canonical layout: fixed-width little-endian
// integers, u32 length prefixes for variable-length values, and a one-byte
// discriminant for tagged variants.
//
// Errors are sticky. Once a write fails every following write is a no-op and
// the error is returned by Done.
type Writer struct {
	w   io.Writer
	n   int
	err error
}

// NewWriter creates a new Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) didWrite(n int, err error, format string, args ...interface{}) {
	w.n += n
	if err == nil {
		return
	}
	w.err = Error{fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)}
}

// Fail records an error if the writer has not already failed.
func (w *Writer) Fail(format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	w.err = Error{fmt.Errorf(format, args...)}
}

// Err returns the first error the writer encountered.
func (w *Writer) Err() error { return w.err }

// Done returns the number of bytes written and the first error.
func (w *Writer) Done() (int, error) { return w.n, w.err }

func (w *Writer) write(b []byte, what string) {
	if w.err != nil {
		return
	}
	n, err := w.w.Write(b)
	w.didWrite(n, err, "failed to write %s", what)
}

// WriteU8 writes a single byte.
func (w *Writer) WriteU8(v uint8) {
	w.write([]byte{v}, "u8")
}

// WriteBool writes a boolean as a single 0 or 1 byte.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}

// WriteU32 writes a 32-bit little-endian integer.
func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.write(b[:], "u32")
}

// WriteU64 writes a 64-bit little-endian integer.
func (w *Writer) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.write(b[:], "u64")
}

// WriteU128 writes a 128-bit little-endian integer. Nil is written as zero.
func (w *Writer) WriteU128(v *big.Int) {
	if w.err != nil {
		return
	}
	if v == nil {
		v = new(big.Int)
	}
	if v.Sign() < 0 {
		w.Fail("cannot encode negative value %v as u128", v)
		return
	}
	if v.Cmp(MaxUint128) > 0 {
		w.Fail("value %v overflows u128", v)
		return
	}

	var b [16]byte
	v.FillBytes(b[:])

	// FillBytes is big-endian
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	w.write(b[:], "u128")
}

// WriteLen writes a u32 element count or byte length.
func (w *Writer) WriteLen(n int) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		w.Fail("length %d does not fit in a u32", n)
		return
	}
	w.WriteU32(uint32(n))
}

// WriteFixed writes raw bytes without a length prefix.
func (w *Writer) WriteFixed(b []byte) {
	w.write(b, "fixed bytes")
}

// WriteBytes writes a length-prefixed byte string.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteLen(len(b))
	w.write(b, "bytes")
}

// WriteString writes a length-prefixed UTF-8 string.
func (w *Writer) WriteString(s string) {
	w.WriteBytes([]byte(s))
}

// WriteOption writes the presence byte of an optional value. The caller
// writes the value itself if present is true.
func (w *Writer) WriteOption(present bool) {
	w.WriteBool(present)
}

// WriteValue writes a nested value.
func (w *Writer) WriteValue(v BinaryWriterTo) {
	if w.err != nil {
		return
	}
	v.WriteBinary(w)
}

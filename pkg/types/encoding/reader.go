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
	"math/big"
	"unicode/utf8"
)

// MaxLength is the largest length prefix the reader accepts.
const MaxLength = 1 << 26

// A Reader reads values written by [Writer]. Errors are sticky, like the
// writer's; reads after a failure return zero values.
type Reader struct {
	r   io.Reader
	n   int
	err error
}

// NewReader creates a new Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Fail records an error if the reader has not already failed.
func (r *Reader) Fail(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	r.err = Error{fmt.Errorf(format, args...)}
}

// Err returns the first error the reader encountered.
func (r *Reader) Err() error { return r.err }

// Done returns the number of bytes read and the first error.
func (r *Reader) Done() (int, error) { return r.n, r.err }

func (r *Reader) read(b []byte, what string) bool {
	if r.err != nil {
		return false
	}
	n, err := io.ReadFull(r.r, b)
	r.n += n
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		r.err = Error{fmt.Errorf("failed to read %s: %w", what, err)}
		return false
	}
	return true
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() uint8 {
	var b [1]byte
	if !r.read(b[:], "u8") {
		return 0
	}
	return b[0]
}

// ReadBool reads a 0 or 1 byte.
func (r *Reader) ReadBool() bool {
	v := r.ReadU8()
	switch v {
	case 0:
		return false
	case 1:
		return true
	default:
		r.Fail("invalid boolean value %d", v)
		return false
	}
}

// ReadU32 reads a 32-bit little-endian integer.
func (r *Reader) ReadU32() uint32 {
	var b [4]byte
	if !r.read(b[:], "u32") {
		return 0
	}
	return binary.LittleEndian.Uint32(b[:])
}

// ReadU64 reads a 64-bit little-endian integer.
func (r *Reader) ReadU64() uint64 {
	var b [8]byte
	if !r.read(b[:], "u64") {
		return 0
	}
	return binary.LittleEndian.Uint64(b[:])
}

// ReadU128 reads a 128-bit little-endian integer.
func (r *Reader) ReadU128() *big.Int {
	var b [16]byte
	if !r.read(b[:], "u128") {
		return new(big.Int)
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return new(big.Int).SetBytes(b[:])
}

// ReadLen reads a u32 length prefix.
func (r *Reader) ReadLen() int {
	n := r.ReadU32()
	if n > MaxLength {
		r.Fail("length %d exceeds the maximum of %d", n, MaxLength)
		return 0
	}
	return int(n)
}

// ReadFixed reads exactly n raw bytes.
func (r *Reader) ReadFixed(n int) []byte {
	b := make([]byte, n)
	if !r.read(b, "fixed bytes") {
		return nil
	}
	return b
}

// ReadBytes reads a length-prefixed byte string.
func (r *Reader) ReadBytes() []byte {
	n := r.ReadLen()
	if r.err != nil {
		return nil
	}
	b := make([]byte, n)
	if !r.read(b, "bytes") {
		return nil
	}
	return b
}

// ReadString reads a length-prefixed UTF-8 string.
func (r *Reader) ReadString() string {
	b := r.ReadBytes()
	if r.err != nil {
		return ""
	}
	if !utf8.Valid(b) {
		r.Fail("string is not valid UTF-8")
		return ""
	}
	return string(b)
}

// ReadOption reads the presence byte of an optional value.
func (r *Reader) ReadOption() bool {
	return r.ReadBool()
}

// ReadValue reads a nested value.
func (r *Reader) ReadValue(v BinaryReaderFrom) {
	if r.err != nil {
		return
	}
	v.ReadBinary(r)
}

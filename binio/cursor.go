// Package binio reads little-endian primitives out of byte ranges fetched
// from a .hic resource.
package binio

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// ErrTruncated is returned when a read needs more bytes than the cursor holds.
var ErrTruncated = errors.New("truncated data")

// Cursor is a bounds-checked read position over an in-memory byte range.
// Base is the absolute resource offset of buf[0]; it only appears in errors.
type Cursor struct {
	buf  []byte
	pos  int
	base int64
}

func NewCursor(buf []byte, base int64) *Cursor {
	return &Cursor{buf: buf, base: base}
}

// Pos returns the absolute offset of the next unread byte.
func (c *Cursor) Pos() int64 {
	return c.base + int64(c.pos)
}

// Len returns the number of unread bytes.
func (c *Cursor) Len() int {
	return len(c.buf) - c.pos
}

func (c *Cursor) next(n int) ([]byte, error) {
	if n < 0 || c.Len() < n {
		return nil, errors.Wrapf(ErrTruncated, "need %d bytes at offset %d, have %d", n, c.Pos(), c.Len())
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Bytes returns the next n bytes without copying.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	return c.next(n)
}

func (c *Cursor) Skip(n int) error {
	_, err := c.next(n)
	return err
}

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadI16() (int16, error) {
	b, err := c.next(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

func (c *Cursor) ReadI32() (int32, error) {
	b, err := c.next(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (c *Cursor) ReadI64() (int64, error) {
	b, err := c.next(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (c *Cursor) ReadF32() (float32, error) {
	b, err := c.next(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

func (c *Cursor) ReadF64() (float64, error) {
	b, err := c.next(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// ReadCString reads a zero-terminated string and returns it without the
// terminator. The cursor does not move when no terminator is found.
func (c *Cursor) ReadCString() (string, error) {
	i := bytes.IndexByte(c.buf[c.pos:], 0)
	if i < 0 {
		return "", errors.Wrapf(ErrTruncated, "unterminated string at offset %d", c.Pos())
	}
	s := string(c.buf[c.pos : c.pos+i])
	c.pos += i + 1
	return s, nil
}

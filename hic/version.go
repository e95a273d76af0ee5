package hic

import (
	"github.com/renzoespinoza10/straw/binio"
)

const (
	// MinVersion is the oldest layout this reader understands.
	MinVersion = 6
	// versionCompactRecords introduces block offsets and the row/column layouts.
	versionCompactRecords = 7
	// versions after versionWideFields use 64-bit lengths and 32-bit floats.
	versionWideFields = 8
)

func wide(version int32) bool {
	return version > versionWideFields
}

// readLength reads a length or count that widened to 64 bits after version 8.
func readLength(c *binio.Cursor, version int32) (int64, error) {
	if wide(version) {
		return c.ReadI64()
	}
	v, err := c.ReadI32()
	return int64(v), err
}

// readValue reads a float64 stored as float32 after version 8.
func readValue(c *binio.Cursor, version int32) (float64, error) {
	if wide(version) {
		v, err := c.ReadF32()
		return float64(v), err
	}
	return c.ReadF64()
}

func valueWidth(version int32) int64 {
	if wide(version) {
		return 4
	}
	return 8
}

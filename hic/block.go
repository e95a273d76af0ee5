package hic

import (
	"bytes"
	"context"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"

	"github.com/renzoespinoza10/straw/binio"
	"github.com/renzoespinoza10/straw/metrics"
	"github.com/renzoespinoza10/straw/source"
)

const (
	listBlock  = 1
	denseBlock = 2

	shortSentinel = math.MinInt16
)

// ReadBlock fetches, inflates and decodes the block at idx. An empty index
// yields no records and no I/O.
func ReadBlock(ctx context.Context, src source.Source, version int32, idx Index) ([]ContactRecord, error) {
	if idx.Size == 0 {
		return nil, nil
	}
	buf, err := src.ReadRange(ctx, idx.Position, idx.Size)
	if err != nil {
		return nil, errors.Wrapf(err, "read block at %d", idx.Position)
	}
	recs, err := DecodeBlock(version, buf)
	if err != nil {
		return nil, errors.Wrapf(err, "block at %d", idx.Position)
	}
	return recs, nil
}

// DecodeBlock inflates a compressed block and decodes its records in bin
// coordinates.
func DecodeBlock(version int32, compressed []byte) ([]ContactRecord, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, errors.Wrap(err, "inflate")
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "inflate")
	}
	recs, err := decodeRecords(binio.NewCursor(data, 0), version)
	if err != nil {
		return nil, err
	}
	metrics.BlockDecoded()
	return recs, nil
}

func decodeRecords(c *binio.Cursor, version int32) ([]ContactRecord, error) {
	n, err := c.ReadI32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errors.Wrapf(ErrMalformedBlock, "record count %d", n)
	}
	if version < versionCompactRecords {
		return decodeTriples(c, n)
	}

	binXOffset, err := c.ReadI32()
	if err != nil {
		return nil, err
	}
	binYOffset, err := c.ReadI32()
	if err != nil {
		return nil, err
	}
	// zero flags select the 16-bit encodings
	useShort, err := flag(c)
	if err != nil {
		return nil, err
	}
	useShortBinX, useShortBinY := true, true
	if wide(version) {
		if useShortBinX, err = flag(c); err != nil {
			return nil, err
		}
		if useShortBinY, err = flag(c); err != nil {
			return nil, err
		}
	}
	t, err := c.ReadU8()
	if err != nil {
		return nil, err
	}

	// a 16-bit record needs at least 4 bytes
	recs := make([]ContactRecord, 0, clampCount(n, c.Len()/4))
	switch t {
	case listBlock:
		rowCount, err := readIndex(c, useShortBinY)
		if err != nil {
			return nil, err
		}
		for i := int32(0); i < rowCount; i++ {
			dy, err := readIndex(c, useShortBinY)
			if err != nil {
				return nil, err
			}
			binY := int64(binYOffset) + int64(dy)
			colCount, err := readIndex(c, useShortBinX)
			if err != nil {
				return nil, err
			}
			for j := int32(0); j < colCount; j++ {
				dx, err := readIndex(c, useShortBinX)
				if err != nil {
					return nil, err
				}
				var counts float32
				if useShort {
					v, err := c.ReadI16()
					if err != nil {
						return nil, err
					}
					counts = float32(v)
				} else if counts, err = c.ReadF32(); err != nil {
					return nil, err
				}
				recs = append(recs, ContactRecord{int64(binXOffset) + int64(dx), binY, counts})
			}
		}
	case denseBlock:
		nPts, err := c.ReadI32()
		if err != nil {
			return nil, err
		}
		w, err := c.ReadI16()
		if err != nil {
			return nil, err
		}
		if nPts > 0 && w <= 0 {
			return nil, errors.Wrapf(ErrMalformedBlock, "dense block width %d", w)
		}
		for i := int32(0); i < nPts; i++ {
			row, col := i/int32(w), i%int32(w)
			var counts float32
			if useShort {
				v, err := c.ReadI16()
				if err != nil {
					return nil, err
				}
				if v == shortSentinel {
					continue
				}
				counts = float32(v)
			} else {
				v, err := c.ReadF32()
				if err != nil {
					return nil, err
				}
				if math.IsNaN(float64(v)) {
					continue
				}
				counts = v
			}
			recs = append(recs, ContactRecord{int64(binXOffset) + int64(col), int64(binYOffset) + int64(row), counts})
		}
	default:
		return nil, errors.Wrapf(ErrUnknownBlockEncoding, "type %d", t)
	}
	return recs, nil
}

func decodeTriples(c *binio.Cursor, n int32) ([]ContactRecord, error) {
	recs := make([]ContactRecord, 0, clampCount(n, c.Len()/12))
	for i := int32(0); i < n; i++ {
		x, err := c.ReadI32()
		if err != nil {
			return nil, err
		}
		y, err := c.ReadI32()
		if err != nil {
			return nil, err
		}
		v, err := c.ReadF32()
		if err != nil {
			return nil, err
		}
		recs = append(recs, ContactRecord{int64(x), int64(y), v})
	}
	return recs, nil
}

func flag(c *binio.Cursor) (bool, error) {
	b, err := c.ReadU8()
	return b == 0, err
}

// readIndex reads a row/column count or bin delta in the width the block
// header selected.
func readIndex(c *binio.Cursor, short bool) (int32, error) {
	if short {
		v, err := c.ReadI16()
		return int32(v), err
	}
	return c.ReadI32()
}

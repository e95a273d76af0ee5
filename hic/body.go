package hic

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/renzoespinoza10/straw/binio"
	"github.com/renzoespinoza10/straw/hic/unit"
	"github.com/renzoespinoza10/straw/source"
)

const (
	bodyHeaderSize = 12
	// unit probe; "FRAG\0" is the longest unit
	unitProbeSize   = 8
	zoomHeaderSize  = 36
	blockIndexWidth = 16
)

// ZoomData is the geometry and block index of one resolution of a matrix.
type ZoomData struct {
	Unit              string
	BinSize           int32
	SumCounts         float32
	OccupiedCellCount float32
	StdDev            float32
	Percent95         float32
	BlockBinCount     int32
	BlockColumnCount  int32
	Blocks            map[int32]Index
}

func (z *ZoomData) String() string {
	var s bytes.Buffer
	s.WriteString("ZoomData\n")
	s.WriteString(fmt.Sprintf("\tunit\t%s\n", z.Unit))
	s.WriteString(fmt.Sprintf("\tbinSize\t%d\n", z.BinSize))
	s.WriteString(fmt.Sprintf("\tsumCounts\t%.2f\n", z.SumCounts))
	s.WriteString(fmt.Sprintf("\tblockBinCount\t%d\n", z.BlockBinCount))
	s.WriteString(fmt.Sprintf("\tblockColumnCount\t%d\n", z.BlockColumnCount))
	s.WriteString(fmt.Sprintf("\tblockCount\t%d\n", len(z.Blocks)))
	return s.String()
}

// LocateZoom scans the resolution records of the matrix body at matrixPos for
// the one matching u and resolution. Each record costs a unit probe and a
// header read; only the matching record's block table is fetched.
func LocateZoom(ctx context.Context, src source.Source, version int32, matrixPos int64, u string, resolution int32) (*ZoomData, error) {
	c, err := readAt(ctx, src, matrixPos, bodyHeaderSize)
	if err != nil {
		return nil, errors.Wrap(err, "read matrix body")
	}
	// chromosome indexes repeat the footer key
	if err := c.Skip(8); err != nil {
		return nil, err
	}
	nRes, err := c.ReadI32()
	if err != nil {
		return nil, err
	}

	pos := matrixPos + bodyHeaderSize
	for i := int32(0); i < nRes; i++ {
		var recordUnit string
		err := parsePrefix(ctx, src, pos, unitProbeSize, func(c *binio.Cursor) error {
			var err error
			recordUnit, err = c.ReadCString()
			return err
		})
		if err != nil {
			return nil, errors.Wrapf(err, "read zoom record %d", i)
		}
		if _, ok := unit.Parse(recordUnit); !ok {
			return nil, errors.Wrapf(ErrBlockDataNotFound, "unknown unit %q in zoom record %d", recordUnit, i)
		}
		pos += int64(len(recordUnit)) + 1

		h, err := readAt(ctx, src, pos, zoomHeaderSize)
		if err != nil {
			return nil, errors.Wrapf(err, "read zoom record %d", i)
		}
		pos += zoomHeaderSize
		z := &ZoomData{Unit: recordUnit}
		if err := h.Skip(4); err != nil { // legacy zoom index
			return nil, err
		}
		if z.SumCounts, err = h.ReadF32(); err != nil {
			return nil, err
		}
		if z.OccupiedCellCount, err = h.ReadF32(); err != nil {
			return nil, err
		}
		if z.StdDev, err = h.ReadF32(); err != nil {
			return nil, err
		}
		if z.Percent95, err = h.ReadF32(); err != nil {
			return nil, err
		}
		if z.BinSize, err = h.ReadI32(); err != nil {
			return nil, err
		}
		if z.BlockBinCount, err = h.ReadI32(); err != nil {
			return nil, err
		}
		if z.BlockColumnCount, err = h.ReadI32(); err != nil {
			return nil, err
		}
		nBlocks, err := h.ReadI32()
		if err != nil {
			return nil, err
		}
		if nBlocks < 0 {
			return nil, errors.Errorf("negative block count %d in zoom record %d", nBlocks, i)
		}
		tableSize := int64(nBlocks) * blockIndexWidth

		if recordUnit != u || z.BinSize != resolution {
			pos += tableSize
			continue
		}

		t, err := readAt(ctx, src, pos, tableSize)
		if err != nil {
			return nil, errors.Wrapf(err, "read block table of zoom record %d", i)
		}
		z.Blocks = make(map[int32]Index, nBlocks)
		for j := int32(0); j < nBlocks; j++ {
			id, err := t.ReadI32()
			if err != nil {
				return nil, err
			}
			p, err := t.ReadI64()
			if err != nil {
				return nil, err
			}
			size, err := t.ReadI32()
			if err != nil {
				return nil, err
			}
			z.Blocks[id] = Index{p, int64(size)}
		}
		return z, nil
	}
	return nil, errors.Wrapf(ErrBlockDataNotFound, "no %s resolution %d", u, resolution)
}

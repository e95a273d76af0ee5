package hic

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/renzoespinoza10/straw/binio"
	"github.com/renzoespinoza10/straw/hic/normtype"
	"github.com/renzoespinoza10/straw/source"
)

type MatrixType int

const (
	Observed MatrixType = iota
	OE
)

func ParseMatrixType(s string) (MatrixType, error) {
	switch strings.ToLower(s) {
	case "observed":
		return Observed, nil
	case "oe":
		return OE, nil
	}
	return Observed, errors.Wrapf(ErrBadMatrixType, "%q", s)
}

func (m MatrixType) String() string {
	if m == OE {
		return "oe"
	}
	return "observed"
}

// FooterQuery selects what the footer reader keeps. C1 <= C2 by ordinal.
type FooterQuery struct {
	C1, C2     int32
	Matrix     MatrixType
	Norm       string
	Unit       string
	Resolution int32
}

func (q FooterQuery) Key() string {
	return matrixKey(q.C1, q.C2)
}

func matrixKey(c1, c2 int32) string {
	return strconv.Itoa(int(c1)) + "_" + strconv.Itoa(int(c2))
}

// Footer is what one query needs from the master index.
type Footer struct {
	Query          FooterQuery
	NBytes         int64
	NEntries       int32
	MatrixPosition int64
	MatrixSize     int32
	Expected       *ExpectedValueFunc
	C1Norm         *Index
	C2Norm         *Index
}

func (f *Footer) String() string {
	var s bytes.Buffer
	s.WriteString("Footer\n")
	s.WriteString(fmt.Sprintf("\tNBytes\t%d\n", f.NBytes))
	s.WriteString(fmt.Sprintf("\tNEntries\t%d\n", f.NEntries))
	s.WriteString(fmt.Sprintf("\tKey\t%s\n", f.Query.Key()))
	s.WriteString(fmt.Sprintf("\tMatrix\t%d\t%d\n", f.MatrixPosition, f.MatrixSize))
	if f.Expected != nil {
		s.WriteString(fmt.Sprintf("\tExpectedValues\t%d\n", f.Expected.Length()))
	}
	if f.C1Norm != nil {
		s.WriteString(fmt.Sprintf("\tC1Norm\t%d\t%d\n", f.C1Norm.Position, f.C1Norm.Size))
	}
	if f.C2Norm != nil {
		s.WriteString(fmt.Sprintf("\tC2Norm\t%d\t%d\n", f.C2Norm.Position, f.C2Norm.Size))
	}
	return s.String()
}

// ReadFooter reads the master index of src and resolves q against it.
func ReadFooter(ctx context.Context, src source.Source, hdr *Header, q FooterQuery) (*Footer, error) {
	var f *Footer
	err := parsePrefix(ctx, src, hdr.MasterIndex, footerWindow(src, hdr), func(c *binio.Cursor) error {
		var err error
		f, err = parseFooter(c, hdr.Version, q)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "read footer of %s", src.Name())
	}
	return f, nil
}

// MasterEntry is one "c1_c2" record of the master index.
type MasterEntry struct {
	Key   string
	Index Index
}

// ReadMasterIndex lists every chromosome pair stored in src, sorted by key.
func ReadMasterIndex(ctx context.Context, src source.Source, hdr *Header) ([]MasterEntry, error) {
	var entries []MasterEntry
	err := parsePrefix(ctx, src, hdr.MasterIndex, footerWindow(src, hdr), func(c *binio.Cursor) error {
		entries = entries[:0]
		if _, err := readLength(c, hdr.Version); err != nil {
			return err
		}
		return eachMasterEntry(c, func(key string, pos int64, size int32) {
			entries = append(entries, MasterEntry{key, Index{pos, int64(size)}})
		})
	})
	if err != nil {
		return nil, errors.Wrapf(err, "read master index of %s", src.Name())
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

func footerWindow(src source.Source, hdr *Header) int64 {
	if size := src.Size(); size > hdr.MasterIndex {
		return size - hdr.MasterIndex
	}
	return footerPrefix
}

func eachMasterEntry(c *binio.Cursor, fn func(key string, pos int64, size int32)) error {
	n, err := c.ReadI32()
	if err != nil {
		return err
	}
	for i := int32(0); i < n; i++ {
		key, err := c.ReadCString()
		if err != nil {
			return err
		}
		pos, err := c.ReadI64()
		if err != nil {
			return err
		}
		size, err := c.ReadI32()
		if err != nil {
			return err
		}
		fn(key, pos, size)
	}
	return nil
}

func parseFooter(c *binio.Cursor, version int32, q FooterQuery) (*Footer, error) {
	f := &Footer{Query: q}
	var err error
	if f.NBytes, err = readLength(c, version); err != nil {
		return nil, err
	}
	key := q.Key()
	found := false
	err = eachMasterEntry(c, func(k string, pos int64, size int32) {
		f.NEntries++
		if k == key {
			f.MatrixPosition, f.MatrixSize = pos, size
			found = true
		}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(ErrChromPairNotFound, "key %s", key)
	}

	norm := normtype.Canonical(q.Norm)
	none := norm == normtype.IdxToStr(normtype.NONE)
	intra := q.C1 == q.C2
	if none && (q.Matrix == Observed || !intra) {
		return f, nil
	}

	ev := NewExpectedValueFunc(q.C1, norm, q.Unit, q.Resolution)
	err = readExpectedBlock(c, version, false, ev, func(_ string, u string, binSize int32) bool {
		return intra && q.Matrix == OE && none && u == q.Unit && binSize == q.Resolution
	})
	if err != nil {
		return nil, err
	}
	if intra && q.Matrix == OE && none {
		if ev.Length() == 0 {
			return nil, errors.Wrapf(ErrMissingExpectedValues, "%s %d", q.Unit, q.Resolution)
		}
		f.Expected = ev
		return f, nil
	}

	err = readExpectedBlock(c, version, true, ev, func(t string, u string, binSize int32) bool {
		return intra && q.Matrix == OE && normtype.Canonical(t) == norm && u == q.Unit && binSize == q.Resolution
	})
	if err != nil {
		return nil, err
	}
	if intra && q.Matrix == OE {
		if ev.Length() == 0 {
			return nil, errors.Wrapf(ErrMissingExpectedValues, "%s normalized at %s %d", norm, q.Unit, q.Resolution)
		}
		f.Expected = ev
	}

	n, err := c.ReadI32()
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < n; i++ {
		t, err := c.ReadCString()
		if err != nil {
			return nil, err
		}
		chrIdx, err := c.ReadI32()
		if err != nil {
			return nil, err
		}
		u, err := c.ReadCString()
		if err != nil {
			return nil, err
		}
		res, err := c.ReadI32()
		if err != nil {
			return nil, err
		}
		pos, err := c.ReadI64()
		if err != nil {
			return nil, err
		}
		size, err := readLength(c, version)
		if err != nil {
			return nil, err
		}
		if normtype.Canonical(t) != norm || u != q.Unit || res != q.Resolution {
			continue
		}
		if chrIdx == q.C1 {
			f.C1Norm = &Index{pos, size}
		}
		if chrIdx == q.C2 {
			f.C2Norm = &Index{pos, size}
		}
	}
	if f.C1Norm == nil || f.C2Norm == nil {
		return nil, errors.Wrapf(ErrMissingNormVectors, "%s for %s at %s %d", norm, q.Key(), q.Unit, q.Resolution)
	}
	return f, nil
}

// readExpectedBlock walks one expected-value block. Values of the entries keep
// accepts are appended to ev and scaled by their factor for ev's chromosome.
func readExpectedBlock(c *binio.Cursor, version int32, typed bool, ev *ExpectedValueFunc, keep func(t, u string, binSize int32) bool) error {
	n, err := c.ReadI32()
	if err != nil {
		return err
	}
	for i := int32(0); i < n; i++ {
		var t string
		if typed {
			if t, err = c.ReadCString(); err != nil {
				return err
			}
		}
		u, err := c.ReadCString()
		if err != nil {
			return err
		}
		binSize, err := c.ReadI32()
		if err != nil {
			return err
		}
		nValues, err := readLength(c, version)
		if err != nil {
			return err
		}
		if nValues < 0 {
			return errors.Errorf("negative expected value count %d at %d", nValues, c.Pos())
		}
		store := keep(t, u, binSize)
		if store {
			for j := int64(0); j < nValues; j++ {
				v, err := readValue(c, version)
				if err != nil {
					return err
				}
				ev.append(v)
			}
		} else if err := skip(c, nValues*valueWidth(version)); err != nil {
			return err
		}

		nFactors, err := c.ReadI32()
		if err != nil {
			return err
		}
		for j := int32(0); j < nFactors; j++ {
			chrIdx, err := c.ReadI32()
			if err != nil {
				return err
			}
			v, err := readValue(c, version)
			if err != nil {
				return err
			}
			if store && chrIdx == ev.chrIdx {
				ev.scale(chrIdx, v)
			}
		}
	}
	return nil
}

func skip(c *binio.Cursor, n int64) error {
	if n > int64(c.Len()) {
		return errors.Wrapf(binio.ErrTruncated, "need %d bytes at offset %d, have %d", n, c.Pos(), c.Len())
	}
	return c.Skip(int(n))
}

package hic

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/renzoespinoza10/straw/binio"
	"github.com/renzoespinoza10/straw/source"
)

const MAGIC = "HIC"

// Header is the file prologue.
type Header struct {
	Version     int32
	MasterIndex int64
	Genome      string
	NviPosition int64
	NviLength   int64
	Attributes  map[string]string
	Chromosomes []Chr

	BpResolutions   []int32
	FragResolutions []int32
}

// ReadHeader parses the prologue of src.
func ReadHeader(ctx context.Context, src source.Source) (*Header, error) {
	var h *Header
	err := parsePrefix(ctx, src, 0, headerPrefix, func(c *binio.Cursor) error {
		var err error
		h, err = parseHeader(c)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "read header of %s", src.Name())
	}
	return h, nil
}

func parseHeader(c *binio.Cursor) (*Header, error) {
	magic, err := c.Bytes(4)
	if err != nil {
		return nil, err
	}
	if string(magic) != MAGIC+"\x00" {
		return nil, ErrBadMagic
	}
	h := &Header{}
	if h.Version, err = c.ReadI32(); err != nil {
		return nil, err
	}
	if h.Version < MinVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "version %d", h.Version)
	}
	if h.MasterIndex, err = c.ReadI64(); err != nil {
		return nil, err
	}
	if h.Genome, err = c.ReadCString(); err != nil {
		return nil, err
	}
	if wide(h.Version) {
		if h.NviPosition, err = c.ReadI64(); err != nil {
			return nil, err
		}
		if h.NviLength, err = c.ReadI64(); err != nil {
			return nil, err
		}
	}

	nAttr, err := c.ReadI32()
	if err != nil {
		return nil, err
	}
	h.Attributes = make(map[string]string)
	for i := int32(0); i < nAttr; i++ {
		key, err := c.ReadCString()
		if err != nil {
			return nil, err
		}
		value, err := c.ReadCString()
		if err != nil {
			return nil, err
		}
		h.Attributes[key] = value
	}

	nChrs, err := c.ReadI32()
	if err != nil {
		return nil, err
	}
	h.Chromosomes = make([]Chr, 0, clampCount(nChrs, c.Len()))
	for i := int32(0); i < nChrs; i++ {
		name, err := c.ReadCString()
		if err != nil {
			return nil, err
		}
		length, err := readLength(c, h.Version)
		if err != nil {
			return nil, err
		}
		h.Chromosomes = append(h.Chromosomes, Chr{Index: i, Name: name, Length: length})
	}

	if h.BpResolutions, err = readResolutions(c); err != nil {
		return nil, err
	}
	if h.FragResolutions, err = readResolutions(c); err != nil {
		return nil, err
	}
	return h, nil
}

func readResolutions(c *binio.Cursor) ([]int32, error) {
	n, err := c.ReadI32()
	if err != nil {
		return nil, err
	}
	res := make([]int32, 0, clampCount(n, c.Len()/4))
	for i := int32(0); i < n; i++ {
		v, err := c.ReadI32()
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, nil
}

// clampCount bounds a preallocation by what the remaining bytes could hold.
func clampCount(n int32, limit int) int {
	if n < 0 {
		return 0
	}
	if int(n) > limit {
		return limit
	}
	return int(n)
}

func (h *Header) String() string {
	var s bytes.Buffer
	s.WriteString(fmt.Sprintf("Version: %d\n", h.Version))
	s.WriteString(fmt.Sprintf("Genome: %s\n", h.Genome))
	s.WriteString(fmt.Sprintf("Chromosome Number: %d\n", len(h.Chromosomes)))
	for _, chr := range h.Chromosomes {
		s.WriteString(fmt.Sprintf("\t%s\t%d\n", chr.Name, chr.Length))
	}
	s.WriteString(fmt.Sprintf("Basepair Resolutions Number: %d\n", len(h.BpResolutions)))
	s.WriteString(fmt.Sprintln(h.BpResolutions))
	s.WriteString(fmt.Sprintf("Fragment Resolutions Number: %d\n", len(h.FragResolutions)))
	s.WriteString(fmt.Sprintln(h.FragResolutions))
	return s.String()
}

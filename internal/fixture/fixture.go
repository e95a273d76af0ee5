// Package fixture writes small synthetic .hic files for tests.
package fixture

import (
	"bytes"
	"encoding/binary"
	"math"
	"sort"
	"strconv"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

type Chrom struct {
	Name   string
	Length int64
}

// Record is a cell in bin coordinates.
type Record struct {
	BinX, BinY int32
	Counts     float32
}

type Encoding int

const (
	// List is the row/column layout, or flat triples before version 7.
	List Encoding = iota
	// Dense stores Width-wide rows of values starting at the offsets.
	Dense
	// Raw writes Payload as the uncompressed block content.
	Raw
)

type Block struct {
	Number   int32
	Encoding Encoding
	// Empty gives the block a zero-sized index entry.
	Empty bool

	XOffset, YOffset int32
	Records          []Record

	// Dense values, NaN marks an absent cell.
	Width  int16
	Values []float32

	ShortCounts bool
	ShortBinX   bool
	ShortBinY   bool

	Payload []byte
}

type Zoom struct {
	Unit             string
	BinSize          int32
	SumCounts        float32
	BlockBinCount    int32
	BlockColumnCount int32
	Blocks           []Block
}

type Matrix struct {
	C1, C2 int32
	Zooms  []Zoom
}

type Factor struct {
	Chr   int32
	Value float64
}

// Expected is one expected-value entry. Type is only written for the
// normalized block.
type Expected struct {
	Type    string
	Unit    string
	BinSize int32
	Values  []float64
	Factors []Factor
}

type NormVector struct {
	Type       string
	Chr        int32
	Unit       string
	Resolution int32
	Values     []float64
}

// File describes a complete .hic file.
type File struct {
	Version    int32
	Genome     string
	Attributes [][2]string
	Chroms     []Chrom
	BpRes      []int32
	FragRes    []int32
	Matrices   []Matrix

	Expected     []Expected
	NormExpected []Expected
	Norms        []NormVector

	// Magic overrides "HIC" when set.
	Magic string
}

type writer struct {
	bytes.Buffer
	version int32
}

func (w *writer) put(v interface{}) {
	binary.Write(w, binary.LittleEndian, v)
}

func (w *writer) str(s string) {
	w.WriteString(s)
	w.WriteByte(0)
}

func (w *writer) length(n int64) {
	if w.version > 8 {
		w.put(n)
	} else {
		w.put(int32(n))
	}
}

func (w *writer) value(v float64) {
	if w.version > 8 {
		w.put(float32(v))
	} else {
		w.put(v)
	}
}

func (w *writer) flag(short bool) {
	if short {
		w.WriteByte(0)
	} else {
		w.WriteByte(1)
	}
}

func (w *writer) index(v int32, short bool) {
	if short {
		w.put(int16(v))
	} else {
		w.put(v)
	}
}

// Bytes renders f.
func (f *File) Bytes() ([]byte, error) {
	w := &writer{version: f.Version}
	magic := f.Magic
	if magic == "" {
		magic = "HIC"
	}
	w.str(magic)
	w.put(f.Version)
	masterAt := w.Len()
	w.put(int64(0))
	w.str(f.Genome)
	if f.Version > 8 {
		w.put(int64(0))
		w.put(int64(0))
	}
	w.put(int32(len(f.Attributes)))
	for _, a := range f.Attributes {
		w.str(a[0])
		w.str(a[1])
	}
	w.put(int32(len(f.Chroms)))
	for _, c := range f.Chroms {
		w.str(c.Name)
		w.length(c.Length)
	}
	w.put(int32(len(f.BpRes)))
	for _, r := range f.BpRes {
		w.put(r)
	}
	w.put(int32(len(f.FragRes)))
	for _, r := range f.FragRes {
		w.put(r)
	}

	type entry struct {
		key  string
		pos  int64
		size int32
	}
	var entries []entry
	for _, m := range f.Matrices {
		// block data first, then the body pointing at it
		tables := make([][][3]int64, len(m.Zooms))
		for i, z := range m.Zooms {
			for _, b := range z.Blocks {
				if b.Empty {
					tables[i] = append(tables[i], [3]int64{int64(b.Number), int64(w.Len()), 0})
					continue
				}
				data, err := EncodeBlock(f.Version, b)
				if err != nil {
					return nil, errors.Wrapf(err, "block %d", b.Number)
				}
				tables[i] = append(tables[i], [3]int64{int64(b.Number), int64(w.Len()), int64(len(data))})
				w.Write(data)
			}
		}
		pos := w.Len()
		w.put(m.C1)
		w.put(m.C2)
		w.put(int32(len(m.Zooms)))
		for i, z := range m.Zooms {
			w.str(z.Unit)
			w.put(int32(i))
			w.put(z.SumCounts)
			w.put(float32(0))
			w.put(float32(0))
			w.put(float32(0))
			w.put(z.BinSize)
			w.put(z.BlockBinCount)
			w.put(z.BlockColumnCount)
			w.put(int32(len(tables[i])))
			for _, t := range tables[i] {
				w.put(int32(t[0]))
				w.put(t[1])
				w.put(int32(t[2]))
			}
		}
		key := strconv.Itoa(int(m.C1)) + "_" + strconv.Itoa(int(m.C2))
		entries = append(entries, entry{key, int64(pos), int32(w.Len() - pos)})
	}

	normIndex := make([][2]int64, len(f.Norms))
	for i, v := range f.Norms {
		normIndex[i][0] = int64(w.Len())
		w.length(int64(len(v.Values)))
		for _, x := range v.Values {
			w.value(x)
		}
		normIndex[i][1] = int64(w.Len()) - normIndex[i][0]
	}

	footer := &writer{version: f.Version}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	footer.put(int32(len(entries)))
	for _, e := range entries {
		footer.str(e.key)
		footer.put(e.pos)
		footer.put(e.size)
	}
	footer.expected(f.Expected, false)
	footer.expected(f.NormExpected, true)
	footer.put(int32(len(f.Norms)))
	for i, v := range f.Norms {
		footer.str(v.Type)
		footer.put(v.Chr)
		footer.str(v.Unit)
		footer.put(v.Resolution)
		footer.put(normIndex[i][0])
		footer.length(normIndex[i][1])
	}

	master := w.Len()
	w.length(int64(footer.Len()))
	w.Write(footer.Bytes())

	out := w.Bytes()
	binary.LittleEndian.PutUint64(out[masterAt:], uint64(master))
	return out, nil
}

func (w *writer) expected(list []Expected, typed bool) {
	w.put(int32(len(list)))
	for _, e := range list {
		if typed {
			w.str(e.Type)
		}
		w.str(e.Unit)
		w.put(e.BinSize)
		w.length(int64(len(e.Values)))
		for _, v := range e.Values {
			w.value(v)
		}
		w.put(int32(len(e.Factors)))
		for _, fa := range e.Factors {
			w.put(fa.Chr)
			w.value(fa.Value)
		}
	}
}

// EncodeBlock renders and compresses one block payload.
func EncodeBlock(version int32, b Block) ([]byte, error) {
	p := &writer{version: version}
	switch {
	case b.Encoding == Raw:
		p.Write(b.Payload)
	case version < 7:
		p.put(int32(len(b.Records)))
		for _, r := range b.Records {
			p.put(r.BinX)
			p.put(r.BinY)
			p.put(r.Counts)
		}
	default:
		shortX, shortY := true, true
		if version > 8 {
			shortX, shortY = b.ShortBinX, b.ShortBinY
		}
		n := len(b.Records)
		if b.Encoding == Dense {
			n = 0
			for _, v := range b.Values {
				if !math.IsNaN(float64(v)) {
					n++
				}
			}
		}
		p.put(int32(n))
		p.put(b.XOffset)
		p.put(b.YOffset)
		p.flag(b.ShortCounts)
		if version > 8 {
			p.flag(shortX)
			p.flag(shortY)
		}
		if b.Encoding == Dense {
			p.WriteByte(2)
			p.put(int32(len(b.Values)))
			p.put(b.Width)
			for _, v := range b.Values {
				switch {
				case !b.ShortCounts:
					p.put(v)
				case math.IsNaN(float64(v)):
					p.put(int16(math.MinInt16))
				default:
					p.put(int16(v))
				}
			}
			break
		}
		p.WriteByte(1)
		rows := rowsOf(b.Records)
		p.index(int32(len(rows)), shortY)
		for _, row := range rows {
			p.index(row[0].BinY-b.YOffset, shortY)
			p.index(int32(len(row)), shortX)
			for _, r := range row {
				p.index(r.BinX-b.XOffset, shortX)
				if b.ShortCounts {
					p.put(int16(r.Counts))
				} else {
					p.put(r.Counts)
				}
			}
		}
	}

	var out bytes.Buffer
	zw := zlib.NewWriter(&out)
	if _, err := zw.Write(p.Bytes()); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// rowsOf groups records by BinY keeping first-seen order.
func rowsOf(recs []Record) [][]Record {
	var rows [][]Record
	at := make(map[int32]int)
	for _, r := range recs {
		i, ok := at[r.BinY]
		if !ok {
			i = len(rows)
			at[r.BinY] = i
			rows = append(rows, nil)
		}
		rows[i] = append(rows[i], r)
	}
	return rows
}

package hic

import (
	"context"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renzoespinoza10/straw/binio"
	"github.com/renzoespinoza10/straw/internal/fixture"
)

func decode(t *testing.T, version int32, b fixture.Block) ([]ContactRecord, error) {
	t.Helper()
	data, err := fixture.EncodeBlock(version, b)
	require.NoError(t, err)
	return DecodeBlock(version, data)
}

var listRecords = []fixture.Record{
	{BinX: 100, BinY: 200, Counts: 3},
	{BinX: 104, BinY: 200, Counts: 7},
	{BinX: 101, BinY: 203, Counts: 1},
}

var listWant = []ContactRecord{
	{100, 200, 3},
	{104, 200, 7},
	{101, 203, 1},
}

func TestDecodeTriples(t *testing.T) {
	recs, err := decode(t, 6, fixture.Block{Records: listRecords})
	require.NoError(t, err)
	assert.Equal(t, listWant, recs)
}

func TestDecodeList(t *testing.T) {
	for _, v := range []int32{7, 8} {
		for _, short := range []bool{true, false} {
			recs, err := decode(t, v, fixture.Block{XOffset: 100, YOffset: 200, Records: listRecords, ShortCounts: short})
			require.NoError(t, err)
			assert.Equal(t, listWant, recs, "version %d short %v", v, short)
		}
	}
}

func TestDecodeListWideIndexes(t *testing.T) {
	for _, x := range []bool{true, false} {
		for _, y := range []bool{true, false} {
			recs, err := decode(t, 9, fixture.Block{
				XOffset: 100, YOffset: 200, Records: listRecords,
				ShortBinX: x, ShortBinY: y,
			})
			require.NoError(t, err)
			assert.Equal(t, listWant, recs, "short x %v y %v", x, y)
		}
	}

	// deltas past the 16-bit range need the wide layout
	far := []fixture.Record{{BinX: 0, BinY: 0, Counts: 1}, {BinX: 70000, BinY: 0, Counts: 2}}
	recs, err := decode(t, 9, fixture.Block{Records: far, ShortBinY: true})
	require.NoError(t, err)
	assert.Equal(t, []ContactRecord{{0, 0, 1}, {70000, 0, 2}}, recs)
}

func TestDecodeDense(t *testing.T) {
	nan := float32(math.NaN())
	b := fixture.Block{
		Encoding: fixture.Dense,
		XOffset:  10, YOffset: 20,
		Width:  3,
		Values: []float32{1, nan, 3, 4, 5, nan},
	}
	want := []ContactRecord{
		{10, 20, 1},
		{12, 20, 3},
		{10, 21, 4},
		{11, 21, 5},
	}
	for _, v := range []int32{7, 8, 9} {
		for _, short := range []bool{true, false} {
			b.ShortCounts = short
			recs, err := decode(t, v, b)
			require.NoError(t, err)
			assert.Equal(t, want, recs, "version %d short %v", v, short)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	// count, offsets, useShort, type 3
	payload := []byte{
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0,
		3,
	}
	_, err := decode(t, 8, fixture.Block{Encoding: fixture.Raw, Payload: payload})
	assert.True(t, errors.Is(err, ErrUnknownBlockEncoding), "%v", err)

	_, err = decode(t, 8, fixture.Block{Encoding: fixture.Dense, Width: 0, Values: []float32{1, 2}})
	assert.True(t, errors.Is(err, ErrMalformedBlock), "%v", err)

	// record count promises more than the payload holds
	_, err = decode(t, 6, fixture.Block{Encoding: fixture.Raw, Payload: []byte{2, 0, 0, 0, 1, 0, 0, 0}})
	assert.True(t, errors.Is(err, binio.ErrTruncated), "%v", err)

	_, err = DecodeBlock(8, []byte("not zlib"))
	assert.Error(t, err)
}

func TestReadBlockEmpty(t *testing.T) {
	// an empty entry is never fetched
	recs, err := ReadBlock(context.Background(), nil, 9, Index{Position: 12345, Size: 0})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

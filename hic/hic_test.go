package hic

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renzoespinoza10/straw/internal/fixture"
	"github.com/renzoespinoza10/straw/source"
)

var versions = []int32{6, 7, 8, 9}

func writeSample(t *testing.T, f *fixture.File) string {
	path, err := fixture.WriteTemp(t.TempDir(), f)
	require.NoError(t, err)
	return path
}

func openFile(t *testing.T, f *fixture.File) source.Source {
	src, err := source.Open(writeSample(t, f))
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })
	return src
}

func openSample(t *testing.T, version int32) *HiC {
	h, err := Open(context.Background(), openFile(t, fixture.Sample(version)))
	require.NoError(t, err)
	return h
}

func serveSample(t *testing.T, version int32) source.Source {
	data, err := fixture.Sample(version).Bytes()
	require.NoError(t, err)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "sample.hic", time.Time{}, bytes.NewReader(data))
	}))
	t.Cleanup(ts.Close)
	src, err := source.Open(ts.URL+"/sample.hic", source.WithRetryMax(0))
	require.NoError(t, err)
	return src
}

func TestReadHeader(t *testing.T) {
	for _, v := range versions {
		h := openSample(t, v)
		assert.Equal(t, v, h.Version)
		assert.Equal(t, "hg19", h.Genome)
		assert.Equal(t, map[string]string{"software": "fixture"}, h.Attributes)
		require.Len(t, h.Chromosomes, 2)
		for i, c := range h.Chromosomes {
			assert.Equal(t, int32(i), c.Index)
		}
		assert.Equal(t, Chr{0, "chr1", 10000}, h.Chromosomes[0])
		assert.Equal(t, Chr{1, "chr2", 6000}, h.Chromosomes[1])
		assert.Equal(t, []int32{1000, 500}, h.BpResolutions)
		assert.Equal(t, []int32{1}, h.FragResolutions)
		assert.Contains(t, h.String(), "Chromosome Number: 2")
	}
}

func TestReadHeaderHTTP(t *testing.T) {
	// the sample is far smaller than the first header read
	src := serveSample(t, 9)
	h, err := ReadHeader(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, h.Chromosomes, 2)
	assert.True(t, src.Size() > 0)
}

func TestReadHeaderErrors(t *testing.T) {
	f := fixture.Sample(8)
	f.Magic = "HIX"
	_, err := ReadHeader(context.Background(), openFile(t, f))
	assert.True(t, errors.Is(err, ErrBadMagic), "%v", err)

	f = fixture.Sample(8)
	f.Version = 5
	_, err = ReadHeader(context.Background(), openFile(t, f))
	assert.True(t, errors.Is(err, ErrUnsupportedVersion), "%v", err)
}

func TestOpenMissing(t *testing.T) {
	_, err := source.Open(filepath.Join(t.TempDir(), "none.hic"))
	assert.True(t, errors.Is(err, source.ErrNotFound))
}

func TestEntries(t *testing.T) {
	h := openSample(t, 9)
	entries, err := h.Entries(context.Background())
	require.NoError(t, err)
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key)
		assert.True(t, e.Index.Size > 0)
	}
	assert.Equal(t, []string{"0_0", "0_1", "1_1"}, keys)

	s, err := h.Describe(context.Background())
	require.NoError(t, err)
	assert.Contains(t, s, "Matrices: 3")
	assert.Contains(t, s, "\t0_1\t")
}

func TestChromosomeLookup(t *testing.T) {
	h := openSample(t, 8)
	c, ok := h.Chromosome("chr2")
	require.True(t, ok)
	assert.Equal(t, int32(1), c.Index)

	for _, name := range []string{"2", "Chr2", "CHR2"} {
		c, ok = h.Chromosome(name)
		require.True(t, ok, name)
		assert.Equal(t, "chr2", c.Name)
	}
	_, ok = h.Chromosome("chrX")
	assert.False(t, ok)
}

func TestParseRegion(t *testing.T) {
	h := openSample(t, 8)

	r, err := h.ParseRegion("chr1")
	require.NoError(t, err)
	assert.Equal(t, Region{Chr: h.Chromosomes[0], Start: 0, End: 10000}, r)

	r, err = h.ParseRegion("chr2:1000:2000")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), r.Start)
	assert.Equal(t, int64(2000), r.End)

	r, err = h.ParseRegion("1:1,000-5,000")
	require.NoError(t, err)
	assert.Equal(t, "chr1", r.Chr.Name)
	assert.Equal(t, int64(5000), r.End)

	_, err = h.ParseRegion("chr9:1:2")
	assert.True(t, errors.Is(err, ErrUnknownChromosome))
	for _, bad := range []string{"chr1:5", "chr1:x:10", "chr1:10:5", "chr1:1:2:3"} {
		_, err = h.ParseRegion(bad)
		assert.True(t, errors.Is(err, ErrBadRegion), bad)
	}
}

package hic

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renzoespinoza10/straw/internal/fixture"
)

func readFooter(t *testing.T, h *HiC, q FooterQuery) (*Footer, error) {
	t.Helper()
	return ReadFooter(context.Background(), h.Source(), h.Header, q)
}

func TestFooterFastPath(t *testing.T) {
	for _, v := range versions {
		h := openSample(t, v)
		f, err := readFooter(t, h, FooterQuery{C1: 0, C2: 1, Matrix: Observed, Norm: "NONE", Unit: "BP", Resolution: 1000})
		require.NoError(t, err)
		assert.Equal(t, int32(3), f.NEntries)
		assert.True(t, f.MatrixPosition > 0)
		assert.Nil(t, f.Expected)
		assert.Nil(t, f.C1Norm)

		// oe between chromosomes needs no expected vector
		f, err = readFooter(t, h, FooterQuery{C1: 0, C2: 1, Matrix: OE, Norm: "NONE", Unit: "BP", Resolution: 1000})
		require.NoError(t, err)
		assert.Nil(t, f.Expected)
	}
}

func TestFooterExpected(t *testing.T) {
	for _, v := range versions {
		h := openSample(t, v)
		f, err := readFooter(t, h, FooterQuery{C1: 0, C2: 0, Matrix: OE, Norm: "NONE", Unit: "BP", Resolution: 1000})
		require.NoError(t, err)
		require.NotNil(t, f.Expected)
		assert.Equal(t, []float64{5, 2.5, 1, 0.5}, f.Expected.Values(), "version %d", v)
		assert.Equal(t, 0.5, f.Expected.ExpectedValue(100))

		f, err = readFooter(t, h, FooterQuery{C1: 1, C2: 1, Matrix: OE, Norm: "NONE", Unit: "BP", Resolution: 1000})
		require.NoError(t, err)
		assert.Equal(t, []float64{2.5, 1.25, 0.5, 0.25}, f.Expected.Values())

		f, err = readFooter(t, h, FooterQuery{C1: 0, C2: 0, Matrix: OE, Norm: "KR", Unit: "BP", Resolution: 1000})
		require.NoError(t, err)
		assert.Equal(t, []float64{4, 2, 1, 0.5}, f.Expected.Values())
		require.NotNil(t, f.C1Norm)
		assert.Equal(t, f.C1Norm, f.C2Norm)
	}
}

func TestFooterNormVectors(t *testing.T) {
	h := openSample(t, 9)
	f, err := readFooter(t, h, FooterQuery{C1: 0, C2: 1, Matrix: Observed, Norm: "Balanced", Unit: "BP", Resolution: 1000})
	require.NoError(t, err)
	require.NotNil(t, f.C1Norm)
	require.NotNil(t, f.C2Norm)
	assert.NotEqual(t, f.C1Norm.Position, f.C2Norm.Position)

	kr1, err := h.LoadNormVector(context.Background(), f.C1Norm)
	require.NoError(t, err)
	assert.Len(t, kr1, 11)
	assert.Equal(t, 1.5, kr1[1])
	kr2, err := h.LoadNormVector(context.Background(), f.C2Norm)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 2, 2, 2, 2, 2}, kr2)
}

func TestFooterErrors(t *testing.T) {
	for _, v := range versions {
		h := openSample(t, v)

		_, err := readFooter(t, h, FooterQuery{C1: 0, C2: 1, Matrix: Observed, Norm: "VC", Unit: "BP", Resolution: 1000})
		assert.True(t, errors.Is(err, ErrMissingNormVectors), "%v", err)

		_, err = readFooter(t, h, FooterQuery{C1: 0, C2: 0, Matrix: OE, Norm: "NONE", Unit: "BP", Resolution: 2000})
		assert.True(t, errors.Is(err, ErrMissingExpectedValues), "%v", err)

		_, err = readFooter(t, h, FooterQuery{C1: 0, C2: 0, Matrix: OE, Norm: "VC_SQRT", Unit: "BP", Resolution: 1000})
		assert.True(t, errors.Is(err, ErrMissingExpectedValues), "%v", err)
	}

	f := fixture.Sample(8)
	f.Matrices = f.Matrices[:1]
	h, err := Open(context.Background(), openFile(t, f))
	require.NoError(t, err)
	_, err = readFooter(t, h, FooterQuery{C1: 0, C2: 1, Matrix: Observed, Norm: "NONE", Unit: "BP", Resolution: 1000})
	assert.True(t, errors.Is(err, ErrChromPairNotFound), "%v", err)
}

func TestFooterHTTP(t *testing.T) {
	src := serveSample(t, 8)
	h, err := Open(context.Background(), src)
	require.NoError(t, err)
	f, err := readFooter(t, h, FooterQuery{C1: 0, C2: 0, Matrix: OE, Norm: "KR", Unit: "BP", Resolution: 1000})
	require.NoError(t, err)
	assert.Equal(t, 4, f.Expected.Length())
}

func TestExpectedValueFunc(t *testing.T) {
	e := NewExpectedValueFunc(3, "KR", "BP", 1000)
	e.append(8)
	e.append(4)
	e.scale(3, 2)
	assert.Equal(t, []float64{4, 2}, e.Values())
	assert.Equal(t, 2.0, e.ExpectedValue(1))
	assert.Equal(t, 2.0, e.ExpectedValue(7))
	assert.Equal(t, map[int32]float64{3: 2}, e.NormFactors())
	assert.Contains(t, e.Text(), "KR BP 1000")
}

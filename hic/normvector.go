package hic

import (
	"github.com/pkg/errors"

	"github.com/renzoespinoza10/straw/binio"
)

// ReadNormVector decodes a normalization vector. Index i of the result is the
// factor of bin i.
func ReadNormVector(c *binio.Cursor, version int32) ([]float64, error) {
	n, err := readLength(c, version)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errors.Errorf("negative normalization vector length %d at %d", n, c.Pos())
	}
	if n*valueWidth(version) > int64(c.Len()) {
		return nil, errors.Wrapf(binio.ErrTruncated, "normalization vector of %d values at %d", n, c.Pos())
	}
	v := make([]float64, n)
	for i := range v {
		if v[i], err = readValue(c, version); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// normFactor returns v[bin] or ErrNormVectorIndexOutOfRange.
func normFactor(v []float64, bin int64) (float64, error) {
	if bin < 0 || bin >= int64(len(v)) {
		return 0, errors.Wrapf(ErrNormVectorIndexOutOfRange, "bin %d of %d", bin, len(v))
	}
	return v[bin], nil
}

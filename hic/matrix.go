package hic

import (
	"context"
	"math"

	"github.com/gonum/matrix/mat64"
	"github.com/pkg/errors"
)

const (
	MaxCells = 100000000 //10000*10000
)

// DenseMatrix lays records with base-pair coordinates out as a rows x cols
// matrix whose cell (i, j) is bin x0/res+i by bin y0/res+j. Records outside
// the frame are dropped; when two records land on one cell the larger
// magnitude wins.
func DenseMatrix(records []ContactRecord, x0, y0, res int64, rows, cols int) (*mat64.Dense, error) {
	if rows <= 0 || cols <= 0 || res <= 0 {
		return nil, errors.Errorf("invalid matrix frame %dx%d at resolution %d", rows, cols, res)
	}
	if rows*cols > MaxCells {
		return nil, errors.Errorf("matrix of %dx%d exceeds %d cells", rows, cols, MaxCells)
	}
	mat := mat64.NewDense(rows, cols, make([]float64, rows*cols))
	fill(mat, records, x0/res, y0/res, res, false)
	return mat, nil
}

// Dense runs q and lays the result out over its query window. Rows follow
// Region1 and columns Region2 once the pair is in file order. Intra
// chromosomal results are mirrored so both triangles inside the frame are set.
func (e *HiC) Dense(ctx context.Context, q Query) (*mat64.Dense, error) {
	recs, err := e.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	r1, err := e.ParseRegion(q.Region1)
	if err != nil {
		return nil, err
	}
	r2, err := e.ParseRegion(q.Region2)
	if err != nil {
		return nil, err
	}
	if r1.Chr.Index > r2.Chr.Index {
		r1, r2 = r2, r1
	}
	res := int64(q.Resolution)
	rows := int(r1.End/res - r1.Start/res + 1)
	cols := int(r2.End/res - r2.Start/res + 1)
	m, err := DenseMatrix(recs, r1.Start, r2.Start, res, rows, cols)
	if err != nil {
		return nil, err
	}
	if r1.Chr.Index == r2.Chr.Index {
		fill(m, recs, r1.Start/res, r2.Start/res, res, true)
	}
	return m, nil
}

func fill(m *mat64.Dense, records []ContactRecord, bx, by, res int64, transpose bool) {
	rows, cols := m.Dims()
	for _, r := range records {
		i, j := r.BinX/res-bx, r.BinY/res-by
		if transpose {
			i, j = r.BinY/res-bx, r.BinX/res-by
		}
		if i < 0 || j < 0 || i >= int64(rows) || j >= int64(cols) {
			continue
		}
		v := float64(r.Counts)
		if math.Abs(m.At(int(i), int(j))) < math.Abs(v) {
			m.Set(int(i), int(j), v)
		}
	}
}

package hic

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/renzoespinoza10/straw/hic/normtype"
	"github.com/renzoespinoza10/straw/hic/unit"
	"github.com/renzoespinoza10/straw/metrics"
)

// Query asks for the contacts between two regions at one resolution.
type Query struct {
	Matrix     string // observed or oe
	Norm       string // NONE, VC, VC_SQRT, KR, ...
	Region1    string // name[:start:end]
	Region2    string
	Unit       string // BP or FRAG
	Resolution int32
}

// Query returns the records inside the query window with base-pair
// coordinates, normalized and divided by expected counts as asked. Records
// come in ascending block order.
func (e *HiC) Query(ctx context.Context, q Query) ([]ContactRecord, error) {
	start := time.Now()
	matrix, err := ParseMatrixType(q.Matrix)
	if err != nil {
		return nil, err
	}
	u, ok := unit.Parse(q.Unit)
	if !ok {
		return nil, errors.Wrapf(ErrBadUnit, "%q", q.Unit)
	}
	if q.Resolution <= 0 {
		return nil, errors.Wrapf(ErrBadResolution, "%d", q.Resolution)
	}
	r1, err := e.ParseRegion(q.Region1)
	if err != nil {
		return nil, err
	}
	r2, err := e.ParseRegion(q.Region2)
	if err != nil {
		return nil, err
	}
	// canonical order: region indices follow (c1-axis, c2-axis)
	if r1.Chr.Index > r2.Chr.Index {
		r1, r2 = r2, r1
	}
	intra := r1.Chr.Index == r2.Chr.Index
	res := int64(q.Resolution)
	norm := normtype.Canonical(q.Norm)

	log := e.log.WithFields(logrus.Fields{
		"matrix":     matrix,
		"norm":       norm,
		"region1":    r1,
		"region2":    r2,
		"resolution": q.Resolution,
	})

	fq := FooterQuery{
		C1:         r1.Chr.Index,
		C2:         r2.Chr.Index,
		Matrix:     matrix,
		Norm:       norm,
		Unit:       unit.IdxToString(u),
		Resolution: q.Resolution,
	}
	footer, err := ReadFooter(ctx, e.src, e.Header, fq)
	if err != nil {
		return nil, err
	}

	var c1Norm, c2Norm []float64
	if !normtype.IsNone(norm) {
		if c1Norm, err = e.LoadNormVector(ctx, footer.C1Norm); err != nil {
			return nil, err
		}
		c2Norm = c1Norm
		if !intra {
			if c2Norm, err = e.LoadNormVector(ctx, footer.C2Norm); err != nil {
				return nil, err
			}
		}
	}

	zoom, err := LocateZoom(ctx, e.src, e.Version, footer.MatrixPosition, fq.Unit, q.Resolution)
	if err != nil {
		return nil, err
	}
	if zoom.BlockBinCount <= 0 || zoom.BlockColumnCount <= 0 {
		return nil, errors.Wrapf(ErrBlockDataNotFound, "block geometry %d x %d", zoom.BlockBinCount, zoom.BlockColumnCount)
	}

	var avgCount float64
	if !intra {
		avgCount = float64(zoom.SumCounts) / float64(numBins(r1.Chr, res)) / float64(numBins(r2.Chr, res))
	}

	rb := RegionBins{
		X1: clampBin(r1.Start/res, r1.Chr, res),
		X2: clampBin(r1.End/res, r1.Chr, res),
		Y1: clampBin(r2.Start/res, r2.Chr, res),
		Y2: clampBin(r2.End/res, r2.Chr, res),
	}
	blocks := SelectBlocks(e.Version, intra, rb, zoom.BlockBinCount, zoom.BlockColumnCount)
	log.WithFields(logrus.Fields{"blocks": len(blocks), "indexed": len(zoom.Blocks)}).Debug("selected blocks")

	t := &transform{
		r1: r1, r2: r2, res: res, intra: intra,
		matrix: matrix, normalize: !normtype.IsNone(norm), c1Norm: c1Norm, c2Norm: c2Norm,
		expected: footer.Expected, avgCount: avgCount,
	}
	parts := make([][]ContactRecord, len(blocks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, b := range blocks {
		idx, ok := zoom.Blocks[b]
		if !ok {
			continue
		}
		i, b := i, b
		g.Go(func() error {
			recs, err := ReadBlock(gctx, e.src, e.Version, idx)
			if err != nil {
				return errors.Wrapf(err, "block %d", b)
			}
			parts[i], err = t.apply(recs)
			log.WithFields(logrus.Fields{"block": b, "records": len(parts[i])}).Debug("decoded block")
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n := 0
	for _, p := range parts {
		n += len(p)
	}
	records := make([]ContactRecord, 0, n)
	for _, p := range parts {
		records = append(records, p...)
	}
	metrics.Records(len(records))
	metrics.QueryDuration(matrix.String(), start)
	return records, nil
}

// numBins is the bin count used for the inter-chromosomal average, floored
// at one for chromosomes shorter than a bin.
func numBins(chr Chr, res int64) int64 {
	if n := chr.Length / res; n > 0 {
		return n
	}
	return 1
}

// clampBin bounds a bin used for block selection to the chromosome.
func clampBin(bin int64, chr Chr, res int64) int64 {
	if last := chr.Length / res; bin > last {
		return last
	}
	return bin
}

// transform filters decoded records to the query window and applies the
// normalization and expected-count division.
type transform struct {
	r1, r2    Region
	res       int64
	intra     bool
	matrix    MatrixType
	normalize bool
	c1Norm    []float64
	c2Norm    []float64
	expected  *ExpectedValueFunc
	avgCount  float64
}

func (t *transform) contains(x, y int64) bool {
	if x >= t.r1.Start && x <= t.r1.End && y >= t.r2.Start && y <= t.r2.End {
		return true
	}
	return t.intra && y >= t.r1.Start && y <= t.r1.End && x >= t.r2.Start && x <= t.r2.End
}

func (t *transform) apply(recs []ContactRecord) ([]ContactRecord, error) {
	out := make([]ContactRecord, 0, len(recs))
	for _, rec := range recs {
		x, y := rec.BinX*t.res, rec.BinY*t.res
		if !t.contains(x, y) {
			continue
		}
		c := float64(rec.Counts)
		if t.normalize {
			nx, err := normFactor(t.c1Norm, rec.BinX)
			if err != nil {
				return nil, err
			}
			ny, err := normFactor(t.c2Norm, rec.BinY)
			if err != nil {
				return nil, err
			}
			c /= nx * ny
		}
		if t.matrix == OE {
			if t.intra {
				d := y - x
				if d < 0 {
					d = -d
				}
				c /= t.expected.ExpectedValue(d / t.res)
			} else {
				c /= t.avgCount
			}
		}
		out = append(out, ContactRecord{x, y, float32(c)})
	}
	return out, nil
}

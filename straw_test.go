package straw

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renzoespinoza10/straw/hic"
	"github.com/renzoespinoza10/straw/internal/fixture"
	"github.com/renzoespinoza10/straw/source"
)

func TestStraw(t *testing.T) {
	path, err := fixture.WriteTemp(t.TempDir(), fixture.Sample(9))
	require.NoError(t, err)
	ctx := context.Background()

	recs, err := Straw(ctx, "observed", "NONE", path, "chr1:0:1000", "chr1:0:1000", "BP", 1000)
	require.NoError(t, err)
	assert.ElementsMatch(t, []hic.ContactRecord{{BinX: 0, BinY: 0, Counts: 10}, {BinX: 0, BinY: 1000, Counts: 4}}, recs)

	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)
	recs, err = Straw(ctx, "observed", "KR", path, "chr2", "chr1", "bp", 1000,
		WithWorkers(2),
		WithLogger(logrus.NewEntry(log)),
		WithSourceOptions(source.WithRetryMax(0)),
	)
	require.NoError(t, err)
	assert.Len(t, recs, len(fixture.Inter))
}

func TestStrawErrors(t *testing.T) {
	path, err := fixture.WriteTemp(t.TempDir(), fixture.Sample(8))
	require.NoError(t, err)
	ctx := context.Background()

	// the unit is checked before the resource is touched
	_, err = Straw(ctx, "observed", "NONE", "/does/not/exist.hic", "chr1", "chr1", "MB", 1000)
	assert.True(t, errors.Is(err, hic.ErrBadUnit), "%v", err)

	_, err = Straw(ctx, "observed", "NONE", "/does/not/exist.hic", "chr1", "chr1", "BP", 1000)
	assert.True(t, errors.Is(err, source.ErrNotFound), "%v", err)

	_, err = Straw(ctx, "observed", "NONE", path, "chr1", "chrM", "BP", 1000)
	assert.True(t, errors.Is(err, hic.ErrUnknownChromosome), "%v", err)
}

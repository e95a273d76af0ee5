// Package straw extracts contact records from .hic files, local or remote.
//
//	recs, err := straw.Straw(ctx, "observed", "KR", "https://host/sample.hic",
//		"chr1:0:1000000", "chr1:0:1000000", "BP", 25000)
//
// Each record carries base-pair coordinates of its bin pair and the
// (normalized) count.
package straw

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/renzoespinoza10/straw/hic"
	"github.com/renzoespinoza10/straw/hic/unit"
	"github.com/renzoespinoza10/straw/source"
)

type config struct {
	source []source.Option
	hic    []hic.Option
}

type Option func(*config)

// WithSourceOptions configures how the resource is opened.
func WithSourceOptions(opts ...source.Option) Option {
	return func(c *config) {
		c.source = append(c.source, opts...)
	}
}

// WithWorkers bounds how many blocks are decoded at once.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.hic = append(c.hic, hic.WithWorkers(n))
	}
}

func WithLogger(log *logrus.Entry) Option {
	return func(c *config) {
		c.source = append(c.source, source.WithLogger(log))
		c.hic = append(c.hic, hic.WithLogger(log))
	}
}

// Straw opens resource, runs one query and closes it again.
func Straw(ctx context.Context, matrix, norm, resource, region1, region2, u string, resolution int32, opts ...Option) ([]hic.ContactRecord, error) {
	if _, ok := unit.Parse(u); !ok {
		return nil, errors.Wrapf(hic.ErrBadUnit, "%q", u)
	}
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	src, err := source.Open(resource, c.source...)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	h, err := hic.Open(ctx, src, c.hic...)
	if err != nil {
		return nil, err
	}
	return h.Query(ctx, hic.Query{
		Matrix:     matrix,
		Norm:       norm,
		Region1:    region1,
		Region2:    region2,
		Unit:       u,
		Resolution: resolution,
	})
}

// Package hic reads contact matrices out of .hic files.
package hic

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/renzoespinoza10/straw/source"
)

const (
	defaultWorkers = 4
)

// HiC is an opened resource with its header parsed. Queries share nothing but
// the header and the source, so one HiC serves concurrent queries.
type HiC struct {
	*Header
	src     source.Source
	workers int
	log     *logrus.Entry
}

type Option func(*HiC)

// WithWorkers bounds how many blocks a query decodes at once.
func WithWorkers(n int) Option {
	return func(e *HiC) {
		if n > 0 {
			e.workers = n
		}
	}
}

func WithLogger(log *logrus.Entry) Option {
	return func(e *HiC) {
		if log != nil {
			e.log = log
		}
	}
}

// Open reads the header of src. The caller keeps ownership of src.
func Open(ctx context.Context, src source.Source, opts ...Option) (*HiC, error) {
	e := &HiC{
		src:     src,
		workers: defaultWorkers,
		log:     logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithField("resource", src.Name())
	h, err := ReadHeader(ctx, src)
	if err != nil {
		return nil, err
	}
	e.Header = h
	e.log.WithFields(logrus.Fields{
		"version":     h.Version,
		"genome":      h.Genome,
		"chromosomes": len(h.Chromosomes),
	}).Debug("read header")
	return e, nil
}

func (e *HiC) Source() source.Source {
	return e.src
}

//Entries list of chr_chr entries in hic file
func (e *HiC) Entries(ctx context.Context) ([]MasterEntry, error) {
	return ReadMasterIndex(ctx, e.src, e.Header)
}

// LoadNormVector reads the normalization vector idx points at.
func (e *HiC) LoadNormVector(ctx context.Context, idx *Index) ([]float64, error) {
	c, err := readAt(ctx, e.src, idx.Position, idx.Size)
	if err != nil {
		return nil, errors.Wrapf(err, "read normalization vector at %d", idx.Position)
	}
	v, err := ReadNormVector(c, e.Version)
	if err != nil {
		return nil, errors.Wrapf(err, "normalization vector at %d", idx.Position)
	}
	e.log.WithFields(logrus.Fields{"offset": idx.Position, "size": idx.Size}).Debug("read normalization vector")
	return v, nil
}

// Describe returns the header and master index listing of the resource.
func (e *HiC) Describe(ctx context.Context) (string, error) {
	entries, err := e.Entries(ctx)
	if err != nil {
		return "", err
	}
	var s bytes.Buffer
	s.WriteString(e.Header.String())
	s.WriteString(fmt.Sprintf("Attributes: %d\n", len(e.Attributes)))
	s.WriteString(fmt.Sprintf("Matrices: %d\n", len(entries)))
	for _, v := range entries {
		s.WriteString(fmt.Sprintf("\t%s\t%d\t%d\n", v.Key, v.Index.Position, v.Index.Size))
	}
	return s.String(), nil
}

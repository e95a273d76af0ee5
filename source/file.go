package source

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/renzoespinoza10/straw/metrics"
)

// File is a local resource. Reads use absolute positions, so one File can
// serve concurrent ReadRange calls.
type File struct {
	name string
	f    *os.File
	size int64
}

func OpenFile(name string) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrNotFound, name)
		}
		return nil, errors.Wrapf(err, "open %s", name)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat %s", name)
	}
	return &File{name: name, f: f, size: st.Size()}, nil
}

func (s *File) Name() string {
	return s.name
}

func (s *File) Size() int64 {
	return s.size
}

func (s *File) ReadRange(_ context.Context, off, n int64) ([]byte, error) {
	if err := checkRange(off, n, s.size); err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, n)
	m, err := s.f.ReadAt(buf, off)
	metrics.Fetched("file", m)
	if int64(m) < n {
		if err == nil || err == io.EOF {
			return nil, errors.Wrapf(ErrTruncatedRead, "%s: got %d of %d bytes at %d", s.name, m, n, off)
		}
		return nil, errors.Wrapf(err, "read %s", s.name)
	}
	return buf, nil
}

func (s *File) Close() error {
	return s.f.Close()
}

package hic

import (
	"context"

	"github.com/pkg/errors"

	"github.com/renzoespinoza10/straw/binio"
	"github.com/renzoespinoza10/straw/source"
)

const (
	headerPrefix = 100000
	footerPrefix = 1 << 20
	growFactor   = 4
)

// readAt fetches exactly n bytes at off and wraps them in a cursor.
func readAt(ctx context.Context, src source.Source, off, n int64) (*binio.Cursor, error) {
	buf, err := src.ReadRange(ctx, off, n)
	if err != nil {
		return nil, err
	}
	return binio.NewCursor(buf, off), nil
}

// parsePrefix runs parse over the bytes starting at off. The window starts at
// n bytes, clamped to the resource size when it is known, and is grown while
// parse runs out of data and more of the resource remains.
func parsePrefix(ctx context.Context, src source.Source, off, n int64, parse func(*binio.Cursor) error) error {
	for {
		size := src.Size()
		want := n
		if size >= 0 {
			if off >= size {
				return errors.Wrapf(source.ErrOutOfRange, "%s: offset %d beyond size %d", src.Name(), off, size)
			}
			if off+want > size {
				want = size - off
			}
		}
		buf, err := src.ReadRange(ctx, off, want)
		if err != nil {
			// a short read that taught the source its size is retried clamped
			if errors.Is(err, source.ErrTruncatedRead) && size < 0 && src.Size() >= 0 {
				continue
			}
			return err
		}
		err = parse(binio.NewCursor(buf, off))
		if err == nil || !errors.Is(err, binio.ErrTruncated) {
			return err
		}
		if size = src.Size(); size >= 0 && off+want >= size {
			return err
		}
		n = want * growFactor
	}
}

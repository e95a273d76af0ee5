package straw

import (
	"context"
	"encoding/binary"
	"os"

	"github.com/renzoespinoza10/straw/source"
)

const BIGWIG_MAGIC = 0x888FFC26
const BIGBED_MAGIC = 0x8789F2EB
const HIC_MAGIC = 0x00434948
const BIGSIZE = 100000000 //100Mb is bigbedLarge

// Magic sniffs the format of a local path or URL from its first four bytes.
func Magic(ctx context.Context, uri string, opts ...source.Option) (string, error) {
	src, err := source.Open(uri, opts...)
	if err != nil {
		return "unknown", err
	}
	defer src.Close()
	p, err := src.ReadRange(ctx, 0, 4)
	if err != nil {
		return "unknown", err
	}
	switch binary.LittleEndian.Uint32(p) {
	case BIGBED_MAGIC:
		if src.Size() > BIGSIZE {
			return "bigbedLarge", nil
		}
		return "bigbed", nil
	case BIGWIG_MAGIC:
		return "bigwig", nil
	case HIC_MAGIC:
		return "hic", nil
	}
	if !source.IsRemote(uri) {
		if _, err := os.Stat(uri + ".tbi"); err == nil {
			return "tabix", nil
		}
	}
	return "unknown", nil
}

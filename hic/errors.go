package hic

import "github.com/pkg/errors"

var (
	ErrBadMagic                  = errors.New("not a HiC format file")
	ErrUnsupportedVersion        = errors.New("unsupported HiC version")
	ErrUnknownChromosome         = errors.New("chromosome not found")
	ErrBadRegion                 = errors.New("malformed region")
	ErrBadUnit                   = errors.New("unit must be one of BP or FRAG")
	ErrBadMatrixType             = errors.New("matrix type must be one of observed or oe")
	ErrBadResolution             = errors.New("resolution must be positive")
	ErrChromPairNotFound         = errors.New("chromosome pair not found in master index")
	ErrMissingExpectedValues     = errors.New("expected values not found")
	ErrMissingNormVectors        = errors.New("normalization vectors not found")
	ErrBlockDataNotFound         = errors.New("block data not found")
	ErrUnknownBlockEncoding      = errors.New("unknown block encoding")
	ErrMalformedBlock            = errors.New("malformed block")
	ErrNormVectorIndexOutOfRange = errors.New("normalization vector index out of range")
)

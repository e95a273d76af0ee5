package hic

// Chr is one entry of the chromosome table. Index is the position in file
// order and is what the master index keys are built from.
type Chr struct {
	Index  int32
	Name   string
	Length int64
}

// Index points at a compressed block, a matrix body or a normalization
// vector. A zero Size marks an absent entry.
type Index struct {
	Position int64
	Size     int64
}

// ContactRecord is one non-zero cell. Blocks yield bin coordinates; query
// results carry base-pair coordinates.
type ContactRecord struct {
	BinX   int64
	BinY   int64
	Counts float32
}

// RegionBins is a query rectangle in bin coordinates, X along c1 and Y along
// c2, both ends inclusive.
type RegionBins struct {
	X1, X2 int64
	Y1, Y2 int64
}

package fixture

import (
	"math"
	"os"
	"path/filepath"
	"sort"
)

// LegacyBlockNumber is the block holding a cell under row/column tiling.
func LegacyBlockNumber(r Record, blockBinCount, blockColumnCount int32) int32 {
	return (r.BinY/blockBinCount)*blockColumnCount + r.BinX/blockBinCount
}

// DiagonalBlockNumber is the block holding an intra-chromosomal cell in a
// version 9 file.
func DiagonalBlockNumber(r Record, blockBinCount, blockColumnCount int32) int32 {
	pad := (r.BinX + r.BinY) / 2 / blockBinCount
	d := r.BinX - r.BinY
	if d < 0 {
		d = -d
	}
	depth := int32(math.Log2(1 + float64(d)/math.Sqrt2/float64(blockBinCount)))
	return depth*blockColumnCount + pad
}

// Blocks groups records into the blocks a writer of the given version would
// put them in. tmpl supplies the encoding flags of every block.
func Blocks(version int32, intra bool, recs []Record, blockBinCount, blockColumnCount int32, tmpl Block) []Block {
	byNumber := make(map[int32][]Record)
	for _, r := range recs {
		n := LegacyBlockNumber(r, blockBinCount, blockColumnCount)
		if version > 8 && intra {
			n = DiagonalBlockNumber(r, blockBinCount, blockColumnCount)
		}
		byNumber[n] = append(byNumber[n], r)
	}
	numbers := make([]int32, 0, len(byNumber))
	for n := range byNumber {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })

	blocks := make([]Block, 0, len(numbers))
	for _, n := range numbers {
		b := tmpl
		b.Number = n
		b.Encoding = List
		b.Records = byNumber[n]
		b.XOffset, b.YOffset = minBins(b.Records)
		blocks = append(blocks, b)
	}
	return blocks
}

func minBins(recs []Record) (int32, int32) {
	x, y := recs[0].BinX, recs[0].BinY
	for _, r := range recs[1:] {
		if r.BinX < x {
			x = r.BinX
		}
		if r.BinY < y {
			y = r.BinY
		}
	}
	return x, y
}

const (
	SampleResolution = 1000
	sampleBinCount   = 5
	sampleColumns    = 2
)

// Intra is the chr1 x chr1 content of Sample at SampleResolution, upper
// triangle only.
var Intra = []Record{
	{0, 0, 10},
	{0, 1, 4},
	{1, 3, 6},
	{2, 7, 3},
	{6, 6, 8},
	{5, 9, 2},
	{9, 9, 5},
}

// Inter is the chr1 x chr2 content of Sample at SampleResolution.
var Inter = []Record{
	{0, 0, 1},
	{3, 2, 7},
	{8, 5, 9},
	{9, 1, 2},
}

// Sample is a two chromosome file exercising every footer structure:
//
//	chr1 10000 bp, chr2 6000 bp; BP 1000 and 500, FRAG 1
//	0_0: BP 500, FRAG 1 and BP 1000 zooms (Intra)
//	0_1: BP 1000 (Inter), sum of counts 19
//	1_1: one record (2, 2, 4) and an empty block 1
//	expected BP 1000 [10 5 2 1] scaled by 2 for chr1 and 4 for chr2
//	KR expected BP 1000 [8 4 2 1] scaled by 2 for chr1
//	KR vectors for both chromosomes, VC for chr1 only, SCALE too short
func Sample(version int32) *File {
	tmpl := Block{ShortCounts: version == 8, ShortBinX: true}
	chr2Blocks := Blocks(version, true, []Record{{2, 2, 4}}, sampleBinCount, sampleColumns, tmpl)
	chr2Blocks = append(chr2Blocks, Block{Number: 1, Empty: true})

	krChr1 := make([]float64, 11)
	for i := range krChr1 {
		krChr1[i] = 1 + float64(i)*0.5
	}
	return &File{
		Version:    version,
		Genome:     "hg19",
		Attributes: [][2]string{{"software", "fixture"}},
		Chroms:     []Chrom{{"chr1", 10000}, {"chr2", 6000}},
		BpRes:      []int32{SampleResolution, 500},
		FragRes:    []int32{1},
		Matrices: []Matrix{
			{C1: 0, C2: 0, Zooms: []Zoom{
				{Unit: "BP", BinSize: 500, SumCounts: 99, BlockBinCount: 10, BlockColumnCount: 2,
					Blocks: Blocks(version, true, []Record{{0, 0, 99}}, 10, 2, tmpl)},
				{Unit: "FRAG", BinSize: SampleResolution, SumCounts: 77, BlockBinCount: sampleBinCount, BlockColumnCount: sampleColumns,
					Blocks: Blocks(version, true, []Record{{0, 0, 77}}, sampleBinCount, sampleColumns, tmpl)},
				{Unit: "BP", BinSize: SampleResolution, SumCounts: 38, BlockBinCount: sampleBinCount, BlockColumnCount: sampleColumns,
					Blocks: Blocks(version, true, Intra, sampleBinCount, sampleColumns, tmpl)},
			}},
			{C1: 0, C2: 1, Zooms: []Zoom{
				{Unit: "BP", BinSize: SampleResolution, SumCounts: 19, BlockBinCount: sampleBinCount, BlockColumnCount: sampleColumns,
					Blocks: Blocks(version, false, Inter, sampleBinCount, sampleColumns, tmpl)},
			}},
			{C1: 1, C2: 1, Zooms: []Zoom{
				{Unit: "BP", BinSize: SampleResolution, SumCounts: 4, BlockBinCount: sampleBinCount, BlockColumnCount: sampleColumns,
					Blocks: chr2Blocks},
			}},
		},
		Expected: []Expected{
			{Unit: "BP", BinSize: 500, Values: []float64{100, 50}, Factors: []Factor{{0, 10}}},
			{Unit: "BP", BinSize: SampleResolution, Values: []float64{10, 5, 2, 1}, Factors: []Factor{{0, 2}, {1, 4}}},
		},
		NormExpected: []Expected{
			{Type: "VC", Unit: "BP", BinSize: SampleResolution, Values: []float64{7, 7}},
			{Type: "KR", Unit: "BP", BinSize: SampleResolution, Values: []float64{8, 4, 2, 1}, Factors: []Factor{{0, 2}}},
		},
		Norms: []NormVector{
			{Type: "KR", Chr: 0, Unit: "BP", Resolution: SampleResolution, Values: krChr1},
			{Type: "KR", Chr: 1, Unit: "BP", Resolution: SampleResolution, Values: []float64{2, 2, 2, 2, 2, 2, 2}},
			{Type: "VC", Chr: 0, Unit: "BP", Resolution: SampleResolution, Values: krChr1},
			{Type: "SCALE", Chr: 0, Unit: "BP", Resolution: SampleResolution, Values: []float64{1, 1, 1}},
		},
	}
}

// WriteTemp renders f into a file under dir and returns its path.
func WriteTemp(dir string, f *File) (string, error) {
	data, err := f.Bytes()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "sample.hic")
	return path, os.WriteFile(path, data, 0644)
}

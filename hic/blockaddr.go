package hic

import (
	"math"
	"sort"
)

// LegacyBlocks tiles the query rectangle with blocks of blockBinCount bins on
// a side, numbered row*blockColumnCount+col. Intra-chromosomal matrices only
// store the upper triangle, so the mirrored tiles are added for them.
func LegacyBlocks(r RegionBins, blockBinCount, blockColumnCount int32, intra bool) []int32 {
	bbc, bcc := int64(blockBinCount), int64(blockColumnCount)
	col1 := r.X1 / bbc
	col2 := (r.X2 + 1) / bbc
	row1 := r.Y1 / bbc
	row2 := (r.Y2 + 1) / bbc

	set := make(map[int32]bool)
	for row := row1; row <= row2; row++ {
		for col := col1; col <= col2; col++ {
			set[int32(row*bcc+col)] = true
		}
	}
	if intra {
		for row := col1; row <= col2; row++ {
			for col := row1; col <= row2; col++ {
				set[int32(row*bcc+col)] = true
			}
		}
	}
	return sortedBlocks(set)
}

// DiagonalBlocks addresses blocks by (depth, pad): pad buckets the position
// along the diagonal and depth the log2 distance away from it.
func DiagonalBlocks(r RegionBins, blockBinCount, blockColumnCount int32) []int32 {
	bbc, bcc := int64(blockBinCount), int64(blockColumnCount)
	lowerPad := (r.X1 + r.Y1) / 2 / bbc
	higherPad := (r.X2+r.Y2)/2/bbc + 1
	nearDepth := depth(r.X1-r.Y2, blockBinCount)
	farDepth := depth(r.X2-r.Y1, blockBinCount)

	near := nearDepth
	if farDepth < near {
		near = farDepth
	}
	// rectangles crossing the diagonal reach depth 0
	if (r.X1 > r.Y2 && r.X2 < r.Y1) || (r.X2 > r.Y1 && r.X1 < r.Y2) {
		near = 0
	}
	further := nearDepth
	if farDepth > further {
		further = farDepth
	}
	further++

	set := make(map[int32]bool)
	for d := near; d <= further; d++ {
		for pad := lowerPad; pad <= higherPad; pad++ {
			set[int32(d*bcc+pad)] = true
		}
	}
	return sortedBlocks(set)
}

func depth(distance int64, blockBinCount int32) int64 {
	if distance < 0 {
		distance = -distance
	}
	return int64(math.Log2(1 + float64(distance)/math.Sqrt2/float64(blockBinCount)))
}

// SelectBlocks picks the addressing scheme the file version uses for the pair.
func SelectBlocks(version int32, intra bool, r RegionBins, blockBinCount, blockColumnCount int32) []int32 {
	if wide(version) && intra {
		return DiagonalBlocks(r, blockBinCount, blockColumnCount)
	}
	return LegacyBlocks(r, blockBinCount, blockColumnCount, intra)
}

func sortedBlocks(set map[int32]bool) []int32 {
	blocks := make([]int32, 0, len(set))
	for b := range set {
		blocks = append(blocks, b)
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i] < blocks[j] })
	return blocks
}

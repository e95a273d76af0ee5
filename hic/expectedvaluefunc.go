package hic

import (
	"bytes"
	"fmt"
	"sort"
)

// ExpectedValueFunc is the distance-indexed expected count for one
// chromosome at one resolution, already scaled by its chromosome factor.
type ExpectedValueFunc struct {
	chrIdx      int32
	normType    string
	unit        string
	binSize     int32
	values      []float64
	normFactors map[int32]float64
}

func NewExpectedValueFunc(chrIdx int32, normType string, unit string, binSize int32) *ExpectedValueFunc {
	return &ExpectedValueFunc{chrIdx: chrIdx, normType: normType, unit: unit, binSize: binSize, normFactors: make(map[int32]float64)}
}

func (e *ExpectedValueFunc) append(v float64) {
	e.values = append(e.values, v)
}

// scale divides every value collected so far by the factor of chrIdx.
func (e *ExpectedValueFunc) scale(chrIdx int32, factor float64) {
	e.normFactors[chrIdx] = factor
	for i := range e.values {
		e.values[i] /= factor
	}
}

func (e *ExpectedValueFunc) ChrIdx() int32 {
	return e.chrIdx
}
func (e *ExpectedValueFunc) Values() []float64 {
	return e.values
}
func (e *ExpectedValueFunc) NormFactors() map[int32]float64 {
	return e.normFactors
}
func (e *ExpectedValueFunc) BinSize() int32 {
	return e.binSize
}
func (e *ExpectedValueFunc) Length() int {
	return len(e.values)
}
func (e *ExpectedValueFunc) NormType() string {
	return e.normType
}
func (e *ExpectedValueFunc) Unit() string {
	return e.unit
}

/*ExpectedValue: expected count at a distance given in bins, clamped to the last bucket
 */
func (e *ExpectedValueFunc) ExpectedValue(distance int64) float64 {
	if distance >= int64(len(e.values)) {
		return e.values[len(e.values)-1]
	}
	return e.values[distance]
}

/*Text: output detail string
 */
func (e *ExpectedValueFunc) Text() string {
	var s bytes.Buffer
	s.WriteString(fmt.Sprintf("%s %s %d\nExpectedValues:\n", e.normType, e.unit, e.binSize))
	for i, v := range e.values {
		s.WriteString(fmt.Sprintf("\t%d\t%f\n", i, v))
	}
	s.WriteString("NormFactors:\n")
	keys := make([]int, 0, len(e.normFactors))
	for k := range e.normFactors {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("\t%d\t%f\n", k, e.normFactors[int32(k)]))
	}
	return s.String()
}

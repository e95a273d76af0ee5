// Package normtype names the normalization vectors a .hic file can carry.
package normtype

import "strings"

const (
	NONE = iota
	VC
	VC_SQRT
	KR
	GW_KR
	INTER_KR
	GW_VC
	INTER_VC
	SCALE
	GW_SCALE
	INTER_SCALE
	LOADED
)

var (
	idx2strings = []string{
		"None",
		"Coverage",
		"Coverage (Sqrt)",
		"Balanced",
		"Genome-Wide Balanced",
		"Inter Balanced",
		"Genome-Wide Coverage",
		"Inter Coverage",
		"Scale",
		"Genome-Wide Scale",
		"Inter Scale",
		"Loaded",
	}
	idx2strs = []string{
		"NONE",
		"VC",
		"VC_SQRT",
		"KR",
		"GW_KR",
		"INTER_KR",
		"GW_VC",
		"INTER_VC",
		"SCALE",
		"GW_SCALE",
		"INTER_SCALE",
		"LOADED",
	}
)

// IdxToStr returns the short name stored in files, e.g. "VC_SQRT".
func IdxToStr(i int) string {
	if i < 0 || i >= len(idx2strs) {
		return "NONE"
	}
	return idx2strs[i]
}

// IdxToString returns the display name, e.g. "Coverage (Sqrt)".
func IdxToString(i int) string {
	if i < 0 || i >= len(idx2strings) {
		return "None"
	}
	return idx2strings[i]
}

// Parse accepts short or display names in any case.
func Parse(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := range idx2strs {
		if s == strings.ToLower(idx2strs[i]) || s == strings.ToLower(idx2strings[i]) {
			return i, true
		}
	}
	return NONE, false
}

func StringToIdx(s string) int {
	i, _ := Parse(s)
	return i
}

// Canonical maps a known name to its short form. Names this package does not
// know are returned unchanged so files with custom vectors stay queryable.
func Canonical(s string) string {
	if i, ok := Parse(s); ok {
		return idx2strs[i]
	}
	return s
}

func IsNone(s string) bool {
	return Canonical(s) == idx2strs[NONE]
}

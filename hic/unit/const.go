// Package unit names the bin units of a .hic file.
package unit

import "strings"

const (
	BP = iota
	FRAG
)

var (
	idx2strings = []string{
		"BP",
		"FRAG",
	}
)

func IdxToString(i int) string {
	if i < 0 || i >= len(idx2strings) {
		return "None"
	}
	return idx2strings[i]
}

// Parse accepts "BP" or "FRAG" in any case.
func Parse(s string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bp":
		return BP, true
	case "frag":
		return FRAG, true
	}
	return BP, false
}

func StringToIdx(s string) int {
	i, _ := Parse(s)
	return i
}

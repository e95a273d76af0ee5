package hic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Region is a chromosome interval in base pairs, both ends inclusive as
// queried.
type Region struct {
	Chr   Chr
	Start int64
	End   int64
}

func (r Region) String() string {
	return fmt.Sprintf("%s:%d:%d", r.Chr.Name, r.Start, r.End)
}

// Chromosome finds a chromosome by exact name first, then treating chr1,
// Chr1, CHR1 and 1 as the same name.
func (h *Header) Chromosome(name string) (Chr, bool) {
	for _, v := range h.Chromosomes {
		if v.Name == name {
			return v, true
		}
	}
	if i := h.chr2idx(name); i >= 0 {
		return h.Chromosomes[i], true
	}
	return Chr{}, false
}

func (h *Header) chr2idx(chr string) int {
	b := strings.Replace(strings.ToLower(chr), "chr", "", -1)
	for i, v := range h.Chromosomes {
		a := strings.Replace(strings.ToLower(v.Name), "chr", "", -1)
		if a == b {
			return i
		}
	}
	return -1
}

// ParseRegion parses "name", "name:start:end" or "name:start-end". A bare
// name covers the whole chromosome.
func (h *Header) ParseRegion(s string) (Region, error) {
	name, rest := s, ""
	if i := strings.IndexByte(s, ':'); i >= 0 {
		name, rest = s[:i], s[i+1:]
	}
	chr, ok := h.Chromosome(name)
	if !ok {
		return Region{}, errors.Wrapf(ErrUnknownChromosome, "%q", name)
	}
	if rest == "" {
		return Region{Chr: chr, Start: 0, End: chr.Length}, nil
	}

	var fields []string
	if strings.Contains(rest, ":") {
		fields = strings.Split(rest, ":")
	} else {
		fields = strings.Split(rest, "-")
	}
	if len(fields) != 2 {
		return Region{}, errors.Wrapf(ErrBadRegion, "%q", s)
	}
	start, err := parseCoord(fields[0])
	if err != nil {
		return Region{}, errors.Wrapf(ErrBadRegion, "%q: %v", s, err)
	}
	end, err := parseCoord(fields[1])
	if err != nil {
		return Region{}, errors.Wrapf(ErrBadRegion, "%q: %v", s, err)
	}
	if start < 0 || end < start {
		return Region{}, errors.Wrapf(ErrBadRegion, "%q: empty interval", s)
	}
	return Region{Chr: chr, Start: start, End: end}, nil
}

// parseCoord accepts thousands separators, e.g. 1,000,000.
func parseCoord(s string) (int64, error) {
	return strconv.ParseInt(strings.Replace(strings.TrimSpace(s), ",", "", -1), 10, 64)
}

// Package consensus merges the overlapping calls of independent tools into
// non-overlapping consensus regions, one set per contig.
package consensus

import (
	"fmt"
	"strings"

	"github.com/biogo/biogo/feat"
)

// Policy decides the boundaries of a region from its member calls.
type Policy string

const (
	// Union is the maximal extent of the members: min start, max end.
	Union Policy = "union"

	// Intersect is the span shared by every member: max start, min end.
	Intersect Policy = "intersect"

	// Edgewise is the median of the largest group of member boundaries that
	// agree within a tolerance, else the union boundary.
	Edgewise Policy = "edgewise"
)

// ParsePolicy returns the Policy with the given name.
func ParsePolicy(name string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(name))); p {
	case Union, Intersect, Edgewise:
		return p, nil
	case "":
		return Union, nil
	}
	return "", fmt.Errorf("unknown merge policy %q: expected one of union, intersect, edgewise", name)
}

// Region is a consensus region on a contig. 0-based, half-open.
type Region struct {
	// ID is "<contig>_region_<n>", n being the region's 1-based position on its contig
	ID string

	// Contig the region is on
	Contig string

	// Start and End of the region, Start < End
	Start int
	End   int

	// MergedStart and MergedEnd span every call merged into the region. They
	// equal Start and End unless a bounded policy narrowed the region
	MergedStart int
	MergedEnd   int

	// Tools that made a call merged into the region, sorted and unique
	Tools []string

	// Strand shared by every member call, else feat.NotOriented
	Strand feat.Orientation

	// Policy that set the region's boundaries
	Policy Policy
}

// Support is the number of tools supporting the region.
func (r Region) Support() int {
	return len(r.Tools)
}

// Len returns the length of the region.
func (r Region) Len() int {
	return r.End - r.Start
}

// Supports returns whether the tool is one of the region's supporting tools.
func (r Region) Supports(tool string) bool {
	for _, t := range r.Tools {
		if t == tool {
			return true
		}
	}
	return false
}

// Package scores builds the per-region, per-tool evidence table for a set of
// consensus regions and labels each region by which classes of tools called it.
package scores

import (
	"fmt"
	"math"

	"github.com/biogo/store/interval"
	"github.com/vrecon/vrecon/config"
	"github.com/vrecon/vrecon/internal/consensus"
	"github.com/vrecon/vrecon/internal/predict"
)

// Row is one region's scores.
type Row struct {
	// RegionID, Contig, Start, End and Support of the region
	RegionID string
	Contig   string
	Start    int
	End      int
	Support  int

	// Values holds one score per Matrix tool, NaN if the tool made no call
	Values []float64

	// PhageCount, PlasmidCount and OtherCount are the number of tools of
	// each class with a positive score
	PhageCount   int
	PlasmidCount int
	OtherCount   int

	// Label is the region's consensus label
	Label Label
}

// Matrix is the score table of a combination. Its columns are fixed by Tools.
type Matrix struct {
	Tools []string
	Rows  []Row
}

// Get returns the row of a region.
func (m *Matrix) Get(regionID string) (Row, bool) {
	for _, r := range m.Rows {
		if r.RegionID == regionID {
			return r, true
		}
	}
	return Row{}, false
}

// Column returns the scores of a tool across every row.
func (m *Matrix) Column(tool string) []float64 {
	col := -1
	for i, t := range m.Tools {
		if t == tool {
			col = i
		}
	}
	if col < 0 {
		return nil
	}

	vals := make([]float64, len(m.Rows))
	for i, r := range m.Rows {
		vals[i] = r.Values[col]
	}
	return vals
}

// Labels counts the rows of each label.
func (m *Matrix) Labels() map[Label]int {
	counts := make(map[Label]int)
	for _, r := range m.Rows {
		counts[r.Label]++
	}
	return counts
}

// Build returns the score matrix of the regions. Each cell is the highest
// score among the tool's intervals merged into the region, found by overlap
// with the region's merged span.
func Build(regions []consensus.Region, byContig map[string][]predict.Interval, conf *config.Config) (*Matrix, error) {
	m := &Matrix{Tools: append([]string(nil), conf.Tools...)}

	col := make(map[string]int, len(m.Tools))
	for i, t := range m.Tools {
		col[t] = i
	}

	trees := make(map[string]*interval.IntTree)
	for _, reg := range regions {
		tree, ok := trees[reg.Contig]
		if !ok {
			var err error
			if tree, err = newTree(byContig[reg.Contig]); err != nil {
				return nil, fmt.Errorf("failed to index intervals of %s: %v", reg.Contig, err)
			}
			trees[reg.Contig] = tree
		}

		row := Row{
			RegionID: reg.ID,
			Contig:   reg.Contig,
			Start:    reg.Start,
			End:      reg.End,
			Support:  reg.Support(),
			Values:   make([]float64, len(m.Tools)),
		}
		for i := range row.Values {
			row.Values[i] = math.NaN()
		}

		for _, hit := range tree.Get(query{Start: reg.MergedStart, End: reg.MergedEnd}) {
			iv := hit.(treeInterval).Interval
			i, ok := col[iv.Tool]
			if !ok || !reg.Supports(iv.Tool) {
				continue
			}
			if math.IsNaN(row.Values[i]) || iv.Confidence > row.Values[i] {
				row.Values[i] = iv.Confidence
			}
		}

		row.count(m.Tools, conf)
		m.Rows = append(m.Rows, row)
	}

	return m, nil
}

// count tallies the tools of each class with a positive score and sets the label.
func (r *Row) count(tools []string, conf *config.Config) {
	r.PhageCount, r.PlasmidCount, r.OtherCount = 0, 0, 0
	for i, t := range tools {
		if math.IsNaN(r.Values[i]) || r.Values[i] <= 0 {
			continue
		}

		switch conf.ToolClass(t) {
		case "phage":
			r.PhageCount++
		case "plasmid":
			r.PlasmidCount++
		case "other":
			r.OtherCount++
		}
	}
	r.Label = Classify(r.PhageCount, r.PlasmidCount, r.OtherCount)
}

// newTree indexes a contig's intervals for overlap queries.
func newTree(ivs []predict.Interval) (*interval.IntTree, error) {
	tree := &interval.IntTree{}
	for i, iv := range ivs {
		// fast insert, ranges adjusted after
		if err := tree.Insert(treeInterval{uid: uintptr(i), Interval: iv}, true); err != nil {
			return nil, err
		}
	}
	tree.AdjustRanges()
	return tree, nil
}

// treeInterval is an Interval stored in an IntTree.
type treeInterval struct {
	uid uintptr
	predict.Interval
}

// Overlap returns whether the half-open ranges share at least one base.
func (i treeInterval) Overlap(b interval.IntRange) bool {
	return i.Start < b.End && b.Start < i.End
}
func (i treeInterval) ID() uintptr { return i.uid }
func (i treeInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.Start, End: i.End}
}

// query is a region's span as an IntTree query.
type query struct {
	Start, End int
}

// Overlap returns whether the half-open ranges share at least one base.
func (q query) Overlap(b interval.IntRange) bool {
	return q.Start < b.End && b.Start < q.End
}

package consensus

import (
	"fmt"
	"sort"

	"github.com/biogo/biogo/feat"
	"github.com/vrecon/vrecon/config"
	"github.com/vrecon/vrecon/internal/predict"
)

// Resolver merges the intervals of a contig into consensus regions.
type Resolver struct {
	// Policy for region boundaries
	Policy Policy

	// Gap is the distance under which non-overlapping intervals still merge.
	// Zero merges only intervals that overlap by at least one base
	Gap int

	// Tolerance is the bp window for edgewise boundary agreement
	Tolerance int
}

// NewResolver returns a Resolver from the merge settings.
func NewResolver(conf *config.Config) (*Resolver, error) {
	policy, err := ParsePolicy(conf.MergePolicy)
	if err != nil {
		return nil, err
	}
	if conf.MergeGap < 0 {
		return nil, fmt.Errorf("merge-gap must be >= 0, got %d", conf.MergeGap)
	}

	return &Resolver{
		Policy:    policy,
		Gap:       conf.MergeGap,
		Tolerance: conf.EdgeTolerance,
	}, nil
}

// Resolve merges the intervals of every contig. Regions are ordered by
// contig id and then by start.
func (r *Resolver) Resolve(byContig map[string][]predict.Interval) []Region {
	var regions []Region
	for _, contig := range predict.SortedContigs(byContig) {
		regions = append(regions, r.Contig(contig, byContig[contig])...)
	}
	return regions
}

// Contig sweeps a contig's intervals left to right, merging each interval
// into the open region while it starts before the region's end (plus Gap).
// The input slice is not modified.
func (r *Resolver) Contig(contig string, ivs []predict.Interval) []Region {
	if len(ivs) == 0 {
		return nil
	}

	sorted := make([]predict.Interval, len(ivs))
	copy(sorted, ivs)
	predict.SortIntervals(sorted)

	var regions []Region
	var members []predict.Interval
	curEnd := 0
	for _, iv := range sorted {
		if len(members) > 0 && iv.Start < curEnd+r.Gap {
			members = append(members, iv)
			if iv.End > curEnd {
				curEnd = iv.End
			}
			continue
		}

		if len(members) > 0 {
			regions = append(regions, r.region(contig, members))
		}
		members = []predict.Interval{iv}
		curEnd = iv.End
	}
	regions = append(regions, r.region(contig, members))

	for i := range regions {
		regions[i].ID = fmt.Sprintf("%s_region_%d", contig, i+1)
	}
	return regions
}

// region builds a region from the sorted intervals merged in one sweep.
func (r *Resolver) region(contig string, members []predict.Interval) Region {
	reg := Region{
		Contig: contig,
		Start:  members[0].Start,
		End:    members[0].End,
		Strand: members[0].Strand,
		Policy: Union,
	}

	whole := false
	tools := make(map[string]bool)
	for _, iv := range members {
		if iv.End > reg.End {
			reg.End = iv.End
		}
		if iv.Strand != reg.Strand {
			reg.Strand = feat.NotOriented
		}
		whole = whole || iv.Whole
		tools[iv.Tool] = true
	}
	for t := range tools {
		reg.Tools = append(reg.Tools, t)
	}
	sort.Strings(reg.Tools)
	reg.MergedStart, reg.MergedEnd = reg.Start, reg.End

	// a whole-contig call spans the contig whatever the policy
	if whole {
		return reg
	}

	var start, end int
	switch r.Policy {
	case Intersect:
		start, end = intersect(members)
	case Edgewise:
		start, end = edgewise(members, r.Tolerance)
	default:
		return reg
	}

	if start < end {
		reg.Start, reg.End, reg.Policy = start, end, r.Policy
	}
	return reg
}

// intersect is the span shared by every member.
func intersect(members []predict.Interval) (start, end int) {
	start, end = members[0].Start, members[0].End
	for _, iv := range members[1:] {
		if iv.Start > start {
			start = iv.Start
		}
		if iv.End < end {
			end = iv.End
		}
	}
	return start, end
}

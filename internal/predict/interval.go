// Package predict reads the native outputs of viral and plasmid prediction
// tools and normalizes each prediction to a 0-based, half-open interval.
package predict

import (
	"fmt"
	"sort"

	"github.com/biogo/biogo/feat"
)

// ScoreKind identifies the scale of a tool's raw score.
type ScoreKind string

const (
	// Probability is a 0-1 score from the tool itself.
	Probability ScoreKind = "probability"

	// Softmax is a 0-1 probability computed from per-class scores.
	Softmax ScoreKind = "softmax"

	// GeneCount is a count of viral genes (VIBRANT's VOG hits).
	GeneCount ScoreKind = "gene_count"

	// WeightedScore is a score multiplied by the proportion of the contig it covers.
	WeightedScore ScoreKind = "weighted_score"
)

// RawPrediction is one prediction as a tool reported it.
type RawPrediction struct {
	// Tool is the declared tool id the prediction is reported under
	Tool string

	// Contig the prediction is on
	Contig string

	// Start and End in the tool's coordinates. Unset for whole-contig calls
	Start, End int

	// OneBased is true if Start and End are 1-based and inclusive
	OneBased bool

	// Whole is true for tools that classify entire contigs
	Whole bool

	// Strand, if the tool reports one
	Strand feat.Orientation

	// Score and the scale it's on
	Score float64
	Kind  ScoreKind

	// File and Line the prediction was read from
	File string
	Line int
}

// Interval is a prediction in canonical form: 0-based and half-open.
// 0 <= Start < End <= contig length.
type Interval struct {
	Tool       string
	Contig     string
	Start      int
	End        int
	Confidence float64
	Kind       ScoreKind
	Whole      bool
	Strand     feat.Orientation
}

// Len returns the length of the interval.
func (i Interval) Len() int {
	return i.End - i.Start
}

// Contigs maps a contig id to its length in the assembly.
type Contigs map[string]int

// normalize translates a raw prediction to an Interval, validating it against
// the contig's length.
func (c Contigs) normalize(r RawPrediction) (Interval, error) {
	malformed := func(format string, args ...interface{}) error {
		return &MalformedRecord{
			Tool:   r.Tool,
			Contig: r.Contig,
			File:   r.File,
			Line:   r.Line,
			Reason: fmt.Sprintf(format, args...),
		}
	}

	length, ok := c[r.Contig]
	if !ok {
		return Interval{}, malformed("contig not in assembly")
	}

	iv := Interval{
		Tool:       r.Tool,
		Contig:     r.Contig,
		Confidence: r.Score,
		Kind:       r.Kind,
		Whole:      r.Whole,
		Strand:     r.Strand,
	}

	if r.Whole {
		iv.Start, iv.End = 0, length
		return iv, nil
	}

	start, end := r.Start, r.End
	if start > end {
		start, end = end, start // direction not guaranteed
	}
	if r.OneBased {
		start-- // 1-based inclusive to 0-based half-open
	}
	iv.Start, iv.End = start, end

	if iv.Start < 0 || iv.Start >= iv.End || iv.End > length {
		return Interval{}, malformed("interval [%d, %d) outside contig of length %d", iv.Start, iv.End, length)
	}

	return iv, nil
}

// SortIntervals orders intervals by start, end, then tool id.
func SortIntervals(ivs []Interval) {
	sort.Slice(ivs, func(i, j int) bool {
		if ivs[i].Start != ivs[j].Start {
			return ivs[i].Start < ivs[j].Start
		}
		if ivs[i].End != ivs[j].End {
			return ivs[i].End < ivs[j].End
		}
		return ivs[i].Tool < ivs[j].Tool
	})
}

// SortedContigs returns the contig ids of an interval map in lexical order.
func SortedContigs(byContig map[string][]Interval) []string {
	ids := make([]string, 0, len(byContig))
	for id := range byContig {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

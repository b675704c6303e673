// Package extract cuts the sequence of each consensus region out of the
// filtered assembly and writes the candidates as FASTA.
package extract

import (
	"fmt"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/feat"
	"github.com/biogo/biogo/seq/linear"
	"github.com/vrecon/vrecon/config"
	"github.com/vrecon/vrecon/internal/consensus"
	"github.com/vrecon/vrecon/internal/scores"
)

// Sequence is one extracted candidate.
type Sequence struct {
	// RegionID and Contig the sequence was cut from
	RegionID string
	Contig   string

	// Start and End of the region on the contig, 0-based half-open
	Start int
	End   int

	// Header is "<contig>_<start0>_<end0>_supp<n>", unique within a combination
	Header string

	// Desc is the rest of the FASTA header line
	Desc string

	// Whole is true if the region spans its entire contig
	Whole bool

	// Seq is the region's sequence, reverse complemented for strand-aware
	// extraction of minus strand regions
	Seq string
}

// Summary counts the outcome of an extraction.
type Summary struct {
	// Total is the number of regions
	Total int `json:"total"`

	// SubContig and WholeContig are the extracted regions of each kind
	SubContig   int `json:"subContig"`
	WholeContig int `json:"wholeContig"`

	// Filtered regions were skipped by the label or support filters
	Filtered int `json:"filtered"`
}

// Extractor cuts region sequences from an assembly.
type Extractor struct {
	// StrandAware reverse complements regions on the minus strand
	StrandAware bool

	// Labels limits extraction to regions with one of these labels. Empty for all
	Labels []scores.Label

	// MinSupport limits extraction to regions with at least this many tools
	MinSupport int
}

// NewExtractor returns an Extractor from the extraction settings.
func NewExtractor(conf *config.Config) *Extractor {
	e := &Extractor{StrandAware: conf.StrandAware, MinSupport: conf.MinSupport}
	for _, l := range conf.ExtractLabels {
		e.Labels = append(e.Labels, scores.Label(l))
	}
	return e
}

// Header returns the FASTA id of a region's sequence.
func Header(r consensus.Region) string {
	return fmt.Sprintf("%s_%d_%d_supp%d", r.Contig, r.Start, r.End, r.Support())
}

// Extract returns the sequence of every region that passes the filters.
// A region whose contig is not in the assembly, that runs past its contig's
// end or that has no matching score matrix row is a DesynchronizationError.
func (e *Extractor) Extract(regions []consensus.Region, m *scores.Matrix, asm *Assembly) ([]Sequence, Summary, error) {
	rows := make(map[string]scores.Row, len(m.Rows))
	for _, r := range m.Rows {
		rows[r.RegionID] = r
	}

	var seqs []Sequence
	sum := Summary{Total: len(regions)}
	for _, reg := range regions {
		desync := func(format string, args ...interface{}) error {
			return &DesynchronizationError{Contig: reg.Contig, Region: reg.ID, Reason: fmt.Sprintf(format, args...)}
		}

		row, ok := rows[reg.ID]
		if !ok {
			return nil, sum, desync("not in the score matrix")
		}
		if row.Contig != reg.Contig || row.Start != reg.Start || row.End != reg.End {
			return nil, sum, desync("score matrix has it at %s [%d, %d)", row.Contig, row.Start, row.End)
		}

		contig, ok := asm.Get(reg.Contig)
		if !ok {
			return nil, sum, desync("contig not in assembly %s", asm.Path)
		}
		if reg.Start < 0 || reg.Start >= reg.End || reg.End > contig.Len() {
			return nil, sum, desync("[%d, %d) outside contig of length %d", reg.Start, reg.End, contig.Len())
		}

		if !e.keep(reg, row) {
			sum.Filtered++
			continue
		}

		s := Sequence{
			RegionID: reg.ID,
			Contig:   reg.Contig,
			Start:    reg.Start,
			End:      reg.End,
			Header:   Header(reg),
			Desc:     fmt.Sprintf("label=%s tools=%s len=%d", row.Label, strings.Join(reg.Tools, ","), reg.Len()),
			Whole:    reg.Start == 0 && reg.End == contig.Len(),
		}

		var letters alphabet.Letters
		if s.Whole {
			letters = contig.Seq // re-tag the contig
			sum.WholeContig++
		} else {
			letters = contig.Seq[reg.Start:reg.End]
			sum.SubContig++
		}

		if e.StrandAware && reg.Strand == feat.Reverse {
			rc := linear.NewSeq(s.Header, append(alphabet.Letters(nil), letters...), contig.Alpha)
			rc.RevComp()
			letters = rc.Seq
		}

		s.Seq = string(alphabet.LettersToBytes(letters))
		seqs = append(seqs, s)
	}

	return seqs, sum, nil
}

// keep returns whether a region passes the label and support filters.
func (e *Extractor) keep(reg consensus.Region, row scores.Row) bool {
	if reg.Support() < e.MinSupport {
		return false
	}
	if len(e.Labels) == 0 {
		return true
	}
	for _, l := range e.Labels {
		if l == row.Label {
			return true
		}
	}
	return false
}

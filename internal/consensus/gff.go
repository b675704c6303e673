package consensus

import (
	"fmt"
	"strings"

	"github.com/biogo/biogo/feat"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
	"github.com/shenwei356/xopen"
)

// WriteGFF writes regions as GFF features, scored by their support.
func WriteGFF(path string, regions []Region) (err error) {
	f, err := xopen.Wopen(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", path, err)
	}
	// Close flushes the buffered output
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to write %s: %v", path, cerr)
		}
	}()

	w := gff.NewWriter(f, 60, true)
	for _, r := range regions {
		if _, err := w.Write(Feature(r)); err != nil {
			return fmt.Errorf("failed to write %s to %s: %v", r.ID, path, err)
		}
	}
	return nil
}

// Feature returns a region as a GFF feature.
func Feature(r Region) *gff.Feature {
	score := float64(r.Support())

	strand := seq.None
	switch r.Strand {
	case feat.Forward:
		strand = seq.Plus
	case feat.Reverse:
		strand = seq.Minus
	}

	return &gff.Feature{
		SeqName:    r.Contig,
		Source:     "vrecon",
		Feature:    "consensus_region",
		FeatStart:  r.Start,
		FeatEnd:    r.End,
		FeatScore:  &score,
		FeatStrand: strand,
		FeatFrame:  gff.NoFrame,
		FeatAttributes: gff.Attributes{
			{Tag: "ID", Value: r.ID},
			{Tag: "tools", Value: strings.Join(r.Tools, ",")},
			{Tag: "policy", Value: string(r.Policy)},
		},
	}
}

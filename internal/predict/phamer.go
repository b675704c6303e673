package predict

import (
	"os"
	"path/filepath"
)

// phamer reads PhaBOX's PhaMer prediction. A contig's score is its
// PhaMerScore weighted by the proportion of it that was scored.
type phamer struct {
	min float64
}

func (phamer) Name() string { return "phamer" }

func (p phamer) Parse(dir string) (raws []RawPrediction, warns Warnings, err error) {
	f := filepath.Join(dir, "final_prediction", "phamer_prediction.tsv")
	if _, err := os.Stat(f); os.IsNotExist(err) {
		return nil, Warnings{&MissingToolOutput{Tool: p.Name(), Path: f}}, nil
	}

	t, err := readTable(f, '\t')
	if err != nil {
		return nil, nil, err
	}
	if err := t.require("Phabox", "Accession", "PhaMerScore", "Proportion"); err != nil {
		return nil, nil, err
	}

	for i, row := range t.rows {
		name := t.get(row, "Accession")
		raw := RawPrediction{
			Tool:   "Phabox",
			Contig: baseContig(name),
			Whole:  true,
			Kind:   WeightedScore,
			File:   f,
			Line:   t.line(i),
		}

		score, errS := parseScore(t.get(row, "PhaMerScore"))
		proportion, errP := parseScore(t.get(row, "Proportion"))
		if errS != nil || errP != nil {
			warns = append(warns, malformedRaw(raw, name, "PhaMerScore or Proportion is not a number"))
			continue
		}

		if raw.Score = score * proportion; raw.Score > p.min {
			raws = append(raws, raw)
		}
	}

	return raws, warns, nil
}

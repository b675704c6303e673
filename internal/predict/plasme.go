package predict

// plasme reads PLASMe's comma separated reports. Calls are whole-contig.
type plasme struct {
	min float64
}

func (plasme) Name() string { return "plasme" }

func (p plasme) Parse(dir string) (raws []RawPrediction, warns Warnings, err error) {
	files := glob(dir, "*_plasmids.fasta_report.csv*")
	if len(files) == 0 {
		return nil, Warnings{&MissingToolOutput{Tool: p.Name(), Path: dir}}, nil
	}

	for _, f := range files {
		t, err := readTable(f, ',')
		if err != nil {
			return nil, nil, err
		}
		if err := t.require("Plasme", "contig", "score"); err != nil {
			return nil, nil, err
		}

		for i, row := range t.rows {
			name := t.get(row, "contig")
			raw := RawPrediction{
				Tool:   "Plasme",
				Contig: baseContig(name),
				Whole:  true,
				Kind:   Probability,
				File:   f,
				Line:   t.line(i),
			}
			if raw.Score, err = parseScore(t.get(row, "score")); err != nil {
				warns = append(warns, malformedRaw(raw, name, "score is not a number"))
				continue
			}
			if raw.Score >= p.min {
				raws = append(raws, raw)
			}
		}
	}

	return raws, warns, nil
}

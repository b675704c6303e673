package predict

import "strings"

// genomad reads geNomad's virus and plasmid summaries.
//
// Proviruses carry 1-based inclusive coordinates, either in a
// "coordinates" column ("120-5430") or in the sequence name
// ("k141_7|provirus_120_5430"). Everything else is a whole-contig call.
type genomad struct{}

func (genomad) Name() string { return "genomad" }

func (g genomad) Parse(dir string) (raws []RawPrediction, warns Warnings, err error) {
	virusFiles := glob(dir, "*_summary", "*virus_summary.tsv*")
	plasmidFiles := glob(dir, "*_summary", "*plasmid_summary.tsv*")
	if len(virusFiles)+len(plasmidFiles) == 0 {
		return nil, Warnings{&MissingToolOutput{Tool: g.Name(), Path: dir}}, nil
	}

	for _, f := range virusFiles {
		t, err := readTable(f, '\t')
		if err != nil {
			return nil, nil, err
		}
		if err := t.require("GenomadPH", "seq_name", "virus_score"); err != nil {
			return nil, nil, err
		}

		for i, row := range t.rows {
			name := t.get(row, "seq_name")
			raw := RawPrediction{
				Tool: "GenomadPH",
				Kind: Probability,
				File: f,
				Line: t.line(i),
			}

			if raw.Score, err = parseScore(t.get(row, "virus_score")); err != nil {
				warns = append(warns, malformedRaw(raw, name, "virus_score is not a number"))
				continue
			}

			if !strings.EqualFold(t.get(row, "topology"), "provirus") {
				raw.Contig = baseContig(name)
				raw.Whole = true
				raws = append(raws, raw)
				continue
			}

			raw.OneBased = true
			if coords := t.get(row, "coordinates"); strings.Contains(coords, "-") {
				raw.Contig = baseContig(name)
				if raw.Start, raw.End, err = parseSpan(coords); err != nil {
					warns = append(warns, malformedRaw(raw, name, err.Error()))
					continue
				}
			} else if contig, start, end, ok := regionName(name); ok {
				raw.Contig, raw.Start, raw.End = contig, start, end
			} else {
				warns = append(warns, malformedRaw(raw, name, "provirus without coordinates"))
				continue
			}
			raws = append(raws, raw)
		}
	}

	for _, f := range plasmidFiles {
		t, err := readTable(f, '\t')
		if err != nil {
			return nil, nil, err
		}
		if err := t.require("GenomadPL", "seq_name", "plasmid_score"); err != nil {
			return nil, nil, err
		}

		for i, row := range t.rows {
			name := t.get(row, "seq_name")
			raw := RawPrediction{
				Tool:   "GenomadPL",
				Contig: baseContig(name),
				Whole:  true,
				Kind:   Probability,
				File:   f,
				Line:   t.line(i),
			}
			if raw.Score, err = parseScore(t.get(row, "plasmid_score")); err != nil {
				warns = append(warns, malformedRaw(raw, name, "plasmid_score is not a number"))
				continue
			}
			raws = append(raws, raw)
		}
	}

	return raws, warns, nil
}

// malformedRaw is a MalformedRecord for a raw prediction that failed to parse.
func malformedRaw(r RawPrediction, name, reason string) error {
	contig := r.Contig
	if contig == "" {
		contig = name
	}
	return &MalformedRecord{Tool: r.Tool, Contig: contig, File: r.File, Line: r.Line, Reason: reason}
}

package predict

import (
	"strconv"
	"strings"
)

// vibrant reads VIBRANT's normalized summary, scored by "all VOG" (the
// count of viral genes). Integrated prophages are named as fragments of
// their scaffold, their coordinates are in a separate table.
type vibrant struct{}

func (vibrant) Name() string { return "vibrant" }

// vibrantFragment is a prophage fragment's scaffold and 1-based inclusive span.
type vibrantFragment struct {
	scaffold   string
	start, end int
}

func (v vibrant) Parse(dir string) (raws []RawPrediction, warns Warnings, err error) {
	summaries := glob(dir, "VIBRANT*", "VIBRANT_results*", "VIBRANT_summary_normalized*.tsv*")
	if len(summaries) == 0 {
		return nil, Warnings{&MissingToolOutput{Tool: v.Name(), Path: dir}}, nil
	}

	fragments := make(map[string]vibrantFragment)
	for _, f := range glob(dir, "VIBRANT*", "VIBRANT_results*", "VIBRANT_integrated_prophage_coordinates*.tsv*") {
		t, err := readTable(f, '\t')
		if err != nil {
			return nil, nil, err
		}
		if err := t.require("Vibrant", "fragment", "scaffold", "nucleotide start", "nucleotide stop"); err != nil {
			return nil, nil, err
		}

		for i, row := range t.rows {
			frag := t.get(row, "fragment")
			start, errS := strconv.Atoi(t.get(row, "nucleotide start"))
			end, errE := strconv.Atoi(t.get(row, "nucleotide stop"))
			if errS != nil || errE != nil {
				warns = append(warns, &MalformedRecord{
					Tool:   "Vibrant",
					Contig: t.get(row, "scaffold"),
					File:   f,
					Line:   t.line(i),
					Reason: "prophage coordinates are not numbers",
				})
				continue
			}
			fragments[frag] = vibrantFragment{scaffold: t.get(row, "scaffold"), start: start, end: end}
		}
	}

	for _, f := range summaries {
		t, err := readTable(f, '\t')
		if err != nil {
			return nil, nil, err
		}
		if err := t.require("Vibrant", "scaffold", "all VOG"); err != nil {
			return nil, nil, err
		}

		for i, row := range t.rows {
			name := t.get(row, "scaffold")
			raw := RawPrediction{
				Tool: "Vibrant",
				Kind: GeneCount,
				File: f,
				Line: t.line(i),
			}
			if raw.Score, err = parseScore(t.get(row, "all VOG")); err != nil {
				warns = append(warns, malformedRaw(raw, name, "all VOG is not a number"))
				continue
			}

			if frag, ok := fragments[name]; ok {
				raw.Contig, raw.Start, raw.End, raw.OneBased = frag.scaffold, frag.start, frag.end, true
			} else if contig, start, end, ok := regionName(name); ok {
				raw.Contig, raw.Start, raw.End, raw.OneBased = contig, start, end, true
			} else if strings.Contains(name, "_fragment_") {
				warns = append(warns, malformedRaw(raw, name, "prophage fragment without coordinates"))
				continue
			} else {
				raw.Contig, raw.Whole = name, true
			}
			raws = append(raws, raw)
		}
	}

	return raws, warns, nil
}

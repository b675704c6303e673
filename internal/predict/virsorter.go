package predict

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// virsorterGroups maps a VirSorter2 max_score_group to its declared tool id.
var virsorterGroups = map[string]string{
	"dsDNAphage":    "VirsorterDS",
	"ssDNA":         "VirsorterSS",
	"RNA":           "VirsorterRNA",
	"NCLDV":         "VirsorterNCLDV",
	"lavidaviridae": "VirsorterLAV",
}

// virsorter2 reads VirSorter2's final-viral-score.tsv. Each viral group is
// reported as its own tool. Trimmed proviruses ("k141_7||0_partial") get
// their 1-based inclusive span from final-viral-boundary.tsv.
type virsorter2 struct{}

func (virsorter2) Name() string { return "virsorter2" }

// virsorterBoundary is a trimmed sequence's contig and span.
type virsorterBoundary struct {
	contig     string
	start, end int
}

func (v virsorter2) Parse(dir string) (raws []RawPrediction, warns Warnings, err error) {
	scoreFile := filepath.Join(dir, "final-viral-score.tsv")
	if _, err := os.Stat(scoreFile); os.IsNotExist(err) {
		return nil, Warnings{&MissingToolOutput{Tool: v.Name(), Path: scoreFile}}, nil
	}

	boundaries := make(map[string]virsorterBoundary)
	boundaryFile := filepath.Join(dir, "final-viral-boundary.tsv")
	if _, err := os.Stat(boundaryFile); err == nil {
		t, err := readTable(boundaryFile, '\t')
		if err != nil {
			return nil, nil, err
		}
		if err := t.require("VirSorter2", "seqname", "seqname_new", "trim_bp_start", "trim_bp_end"); err != nil {
			return nil, nil, err
		}

		for i, row := range t.rows {
			start, errS := strconv.Atoi(t.get(row, "trim_bp_start"))
			end, errE := strconv.Atoi(t.get(row, "trim_bp_end"))
			if errS != nil || errE != nil {
				warns = append(warns, &MalformedRecord{
					Tool:   "VirSorter2",
					Contig: t.get(row, "seqname"),
					File:   boundaryFile,
					Line:   t.line(i),
					Reason: "trim coordinates are not numbers",
				})
				continue
			}
			boundaries[t.get(row, "seqname_new")] = virsorterBoundary{
				contig: t.get(row, "seqname"),
				start:  start,
				end:    end,
			}
		}
	}

	t, err := readTable(scoreFile, '\t')
	if err != nil {
		return nil, nil, err
	}
	if err := t.require("VirSorter2", "seqname", "max_score", "max_score_group"); err != nil {
		return nil, nil, err
	}

	for i, row := range t.rows {
		name := t.get(row, "seqname")
		raw := RawPrediction{
			Kind: Probability,
			File: scoreFile,
			Line: t.line(i),
		}

		group := t.get(row, "max_score_group")
		tool, ok := virsorterGroups[group]
		if !ok {
			raw.Tool = "VirSorter2"
			warns = append(warns, malformedRaw(raw, name, "unknown max_score_group "+group))
			continue
		}
		raw.Tool = tool

		if raw.Score, err = parseScore(t.get(row, "max_score")); err != nil {
			warns = append(warns, malformedRaw(raw, name, "max_score is not a number"))
			continue
		}

		switch b, trimmed := boundaries[name]; {
		case strings.HasSuffix(name, "||full"):
			raw.Contig, raw.Whole = baseContig(name), true
		case trimmed:
			raw.Contig, raw.Start, raw.End, raw.OneBased = baseContig(b.contig), b.start, b.end, true
		default:
			if contig, start, end, ok := regionName(name); ok {
				raw.Contig, raw.Start, raw.End, raw.OneBased = contig, start, end, true
			} else if strings.Contains(name, "||") && !strings.HasSuffix(name, "||lt2gene") {
				warns = append(warns, malformedRaw(raw, baseContig(name), "partial sequence without a boundary"))
				continue
			} else {
				raw.Contig, raw.Whole = baseContig(name), true
			}
		}
		raws = append(raws, raw)
	}

	return raws, warns, nil
}

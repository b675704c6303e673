package predict

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/shenwei356/xopen"
)

// deepMicroClass class columns, in file order after the sequence name.
const (
	dmcEukaryote = iota
	dmcEukaryoteVirus
	dmcPlasmid
	dmcProkaryote
	dmcProkaryoteVirus
	dmcClasses
)

// deepmc reads DeepMicroClass one-hot tables. Each row's class scores are
// converted to a softmax and a contig is called for the best class when its
// probability clears the configured threshold. Calls are whole-contig.
type deepmc struct {
	phageMin   float64
	plasmidMin float64
}

func (deepmc) Name() string { return "deepmicroclass" }

func (d deepmc) Parse(dir string) (raws []RawPrediction, warns Warnings, err error) {
	files := glob(dir, "*one-hot*.tsv*")
	if len(files) == 0 {
		return nil, Warnings{&MissingToolOutput{Tool: d.Name(), Path: dir}}, nil
	}

	for _, f := range files {
		fileRaws, fileWarns, err := d.parseFile(f)
		if err != nil {
			return nil, nil, err
		}
		raws = append(raws, fileRaws...)
		warns = append(warns, fileWarns...)
	}
	return raws, warns, nil
}

// parseFile reads one one-hot table. The header row is skipped and the
// columns are read by position.
func (d deepmc) parseFile(f string) (raws []RawPrediction, warns Warnings, err error) {
	r, err := xopen.Ropen(f)
	if errors.Is(err, xopen.ErrNoContent) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %v", f, err)
	}
	defer r.Close()

	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %v", f, err)
	}
	if len(header) != dmcClasses+1 {
		return nil, nil, &SchemaMismatch{
			Tool:    "DeepMicroClass",
			File:    f,
			Missing: []string{fmt.Sprintf("expected %d columns, found %d", dmcClasses+1, len(header))},
		}
	}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %v", f, err)
		}

		name := strings.TrimSpace(row[0])
		malformed := func(reason string) error {
			return &MalformedRecord{Tool: "DeepMicroClass", Contig: name, File: f, Line: line, Reason: reason}
		}
		if len(row) != dmcClasses+1 {
			warns = append(warns, malformed(fmt.Sprintf("%d columns", len(row))))
			continue
		}

		scores := make([]float64, dmcClasses)
		ok := true
		for i := range scores {
			if scores[i], err = parseScore(row[i+1]); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			warns = append(warns, malformed("class score is not a number"))
			continue
		}

		probs := softmax(scores)
		best := argmax(probs)
		raw := RawPrediction{
			Contig: baseContig(name),
			Whole:  true,
			Score:  probs[best],
			Kind:   Softmax,
			File:   f,
			Line:   line,
		}

		switch {
		case best == dmcProkaryoteVirus && probs[best] > d.phageMin:
			raw.Tool = "DeepmcPH"
		case best == dmcPlasmid && probs[best] > d.plasmidMin:
			raw.Tool = "DeepmcPL"
		default:
			continue
		}
		raws = append(raws, raw)
	}

	return raws, warns, nil
}

// softmax converts scores to probabilities, shifted by the max for stability.
func softmax(scores []float64) []float64 {
	top := scores[argmax(scores)]

	sum := 0.0
	probs := make([]float64, len(scores))
	for i, s := range scores {
		probs[i] = math.Exp(s - top)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// argmax is the index of the largest value, the first on ties.
func argmax(vals []float64) int {
	best := 0
	for i, v := range vals {
		if v > vals[best] {
			best = i
		}
	}
	return best
}

package predict

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vrecon/vrecon/config"
)

// Parser reads one tool family's native output for a combination.
type Parser interface {
	// Name is the tool family's directory under the prediction root
	Name() string

	// Parse reads the tool's output under dir
	Parse(dir string) ([]RawPrediction, Warnings, error)
}

// Families is the fixed order tool families are parsed in.
var Families = []string{"genomad", "vibrant", "virsorter2", "deepmicroclass", "phamer", "plasme"}

// Registry returns the parser for each tool family, keyed by family name.
func Registry(conf *config.Config) map[string]Parser {
	return map[string]Parser{
		"genomad":    genomad{},
		"vibrant":    vibrant{},
		"virsorter2": virsorter2{},
		"deepmicroclass": deepmc{
			phageMin:   conf.Thresholds.DeepmcPhageMin,
			plasmidMin: conf.Thresholds.DeepmcPlasmidMin,
		},
		"phamer": phamer{min: conf.Thresholds.PhaboxMin},
		"plasme": plasme{min: conf.Thresholds.PlasmeMin},
	}
}

// Result is the normalized output of every tool for one combination.
type Result struct {
	// Intervals by contig, each slice sorted by start, end, tool
	Intervals map[string][]Interval

	// Warnings are the skipped records and missing tool outputs
	Warnings Warnings
}

// Count returns the total number of intervals.
func (r *Result) Count() int {
	n := 0
	for _, ivs := range r.Intervals {
		n += len(ivs)
	}
	return n
}

// Normalize parses every tool family's output for a combination under the
// prediction root and returns canonical intervals by contig.
//
// A missing tool directory or malformed record is a warning. A missing
// prediction root or a SchemaMismatch is an error.
func Normalize(root string, combo config.Combo, contigs Contigs, conf *config.Config) (*Result, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("failed to find prediction directory %s: %v", root, err)
	}

	res := &Result{Intervals: make(map[string][]Interval)}
	registry := Registry(conf)
	undeclared := make(map[string]bool)

	for _, family := range Families {
		dir := filepath.Join(root, family, combo.String())
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			res.Warnings = append(res.Warnings, &MissingToolOutput{Tool: family, Path: dir})
			continue
		}

		raws, warns, err := registry[family].Parse(dir)
		if err != nil {
			return nil, err
		}
		res.Warnings = append(res.Warnings, warns...)

		for _, raw := range raws {
			if !conf.Declared(raw.Tool) {
				if !undeclared[raw.Tool] {
					res.Warnings = append(res.Warnings, fmt.Errorf("ignoring calls from undeclared tool %s", raw.Tool))
					undeclared[raw.Tool] = true
				}
				continue
			}

			iv, err := contigs.normalize(raw)
			if err != nil {
				res.Warnings = append(res.Warnings, err)
				continue
			}
			res.Intervals[iv.Contig] = append(res.Intervals[iv.Contig], iv)
		}
	}

	for _, ivs := range res.Intervals {
		SortIntervals(ivs)
	}

	return res, nil
}

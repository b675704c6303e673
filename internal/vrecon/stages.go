package vrecon

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vrecon/vrecon/config"
	"github.com/vrecon/vrecon/internal/consensus"
	"github.com/vrecon/vrecon/internal/extract"
	"github.com/vrecon/vrecon/internal/predict"
	"github.com/vrecon/vrecon/internal/scores"
)

// files written to each combination's output directory
const (
	IntervalsFile  = "normalized_intervals.tsv"
	RegionsFile    = "consensus_regions.tsv"
	GFFFile        = "consensus.gff"
	MatrixFile     = "score_matrix.tsv"
	CandidatesFile = extract.CandidatesFile
	ManifestFile   = "manifest.json"
)

// StageNames is the order stages run in.
var StageNames = []string{"normalize", "consensus", "scores", "extract"}

// loadAssembly reads the filtered assembly of the flags' combination.
func loadAssembly(flags *Flags) (*extract.Assembly, error) {
	path, err := extract.FindAssembly(flags.assemblyDir, flags.combo)
	if err != nil {
		return nil, err
	}

	asm, err := extract.LoadAssembly(path)
	if err != nil {
		return nil, err
	}
	log.Debugf("%s: read %d contigs from %s", flags.combo, asm.Len(), path)
	return asm, nil
}

// Normalize reads every tool's predictions for the combination and writes
// them as canonical intervals.
func Normalize(flags *Flags, conf *config.Config) (*predict.Result, error) {
	start := time.Now()

	asm, err := loadAssembly(flags)
	if err != nil {
		return nil, err
	}

	res, err := predict.Normalize(flags.in, flags.combo, asm.Lengths(), conf)
	if err != nil {
		return nil, err
	}
	warnings := logWarnings("normalize", res.Warnings)

	dir, err := flags.outDir()
	if err != nil {
		return nil, err
	}
	if err := predict.WriteTable(filepath.Join(dir, IntervalsFile), res.Intervals); err != nil {
		return nil, err
	}

	log.Infof("%s: %d intervals on %d contigs", flags.combo, res.Count(), len(res.Intervals))
	_, err = writeManifest(dir, flags.runID, flags.combo, "normalize", Stage{
		Time:      now(),
		Execution: time.Since(start).Seconds(),
		Counts:    map[string]int{"intervals": res.Count(), "contigs": len(res.Intervals)},
		Warnings:  warnings,
	})
	return res, err
}

// Consensus merges the normalized intervals of the combination into
// consensus regions.
func Consensus(flags *Flags, conf *config.Config) ([]consensus.Region, error) {
	start := time.Now()

	in, err := flags.inDir()
	if err != nil {
		return nil, err
	}
	byContig, err := predict.ReadTable(filepath.Join(in, IntervalsFile))
	if err != nil {
		return nil, err
	}

	resolver, err := consensus.NewResolver(conf)
	if err != nil {
		return nil, err
	}
	regions := resolver.Resolve(byContig)

	dir, err := flags.outDir()
	if err != nil {
		return nil, err
	}
	if err := consensus.WriteTable(filepath.Join(dir, RegionsFile), regions); err != nil {
		return nil, err
	}
	if err := consensus.WriteGFF(filepath.Join(dir, GFFFile), regions); err != nil {
		return nil, err
	}

	single := 0
	for _, r := range regions {
		if r.Support() == 1 {
			single++
		}
	}

	log.Infof("%s: %d consensus regions (%d single-tool) by %s", flags.combo, len(regions), single, resolver.Policy)
	_, err = writeManifest(dir, flags.runID, flags.combo, "consensus", Stage{
		Time:      now(),
		Execution: time.Since(start).Seconds(),
		Counts:    map[string]int{"regions": len(regions), "singleTool": single},
	})
	return regions, err
}

// Scores builds the score matrix of the combination's consensus regions.
func Scores(flags *Flags, conf *config.Config) (*scores.Matrix, error) {
	start := time.Now()

	in, err := flags.inDir()
	if err != nil {
		return nil, err
	}
	regions, err := consensus.ReadTable(filepath.Join(in, RegionsFile))
	if err != nil {
		return nil, err
	}
	byContig, err := predict.ReadTable(filepath.Join(in, IntervalsFile))
	if err != nil {
		return nil, err
	}

	m, err := scores.Build(regions, byContig, conf)
	if err != nil {
		return nil, err
	}

	dir, err := flags.outDir()
	if err != nil {
		return nil, err
	}
	if err := scores.WriteTable(filepath.Join(dir, MatrixFile), m, conf.Absent); err != nil {
		return nil, err
	}

	counts := map[string]int{"rows": len(m.Rows)}
	var labels []string
	for label, n := range m.Labels() {
		counts[string(label)] = n
		labels = append(labels, fmt.Sprintf("%s=%d", label, n))
	}
	sort.Strings(labels)

	log.Infof("%s: %d score matrix rows %s", flags.combo, len(m.Rows), strings.Join(labels, " "))
	_, err = writeManifest(dir, flags.runID, flags.combo, "scores", Stage{
		Time:      now(),
		Execution: time.Since(start).Seconds(),
		Counts:    counts,
	})
	return m, err
}

// Extract cuts the sequences of the combination's consensus regions from
// its filtered assembly.
func Extract(flags *Flags, conf *config.Config) ([]extract.Sequence, extract.Summary, error) {
	start := time.Now()

	in, err := flags.inDir()
	if err != nil {
		return nil, extract.Summary{}, err
	}
	regions, err := consensus.ReadTable(filepath.Join(in, RegionsFile))
	if err != nil {
		return nil, extract.Summary{}, err
	}
	m, err := scores.ReadTable(filepath.Join(in, MatrixFile), conf.Tools, conf.Absent)
	if err != nil {
		return nil, extract.Summary{}, err
	}
	asm, err := loadAssembly(flags)
	if err != nil {
		return nil, extract.Summary{}, err
	}

	seqs, sum, err := extract.NewExtractor(conf).Extract(regions, m, asm)
	if err != nil {
		return nil, sum, err
	}

	dir, err := flags.outDir()
	if err != nil {
		return nil, sum, err
	}
	if err := extract.Write(filepath.Join(dir, CandidatesFile), seqs, conf.FastaWidth); err != nil {
		return nil, sum, err
	}

	log.Infof(
		"%s: extracted %d sequences (%d sub-contig, %d whole-contig), %d filtered",
		flags.combo, len(seqs), sum.SubContig, sum.WholeContig, sum.Filtered,
	)
	_, err = writeManifest(dir, flags.runID, flags.combo, "extract", Stage{
		Time:      now(),
		Execution: time.Since(start).Seconds(),
		Counts: map[string]int{
			"total":       sum.Total,
			"subContig":   sum.SubContig,
			"wholeContig": sum.WholeContig,
			"filtered":    sum.Filtered,
		},
	})
	return seqs, sum, err
}

// Run executes the four stages in order for the combination. Stages after
// normalization read the previous stage's output from the output root.
func Run(flags *Flags, conf *config.Config) (*Manifest, error) {
	runID, err := newRunID()
	if err != nil {
		return nil, err
	}

	first := *flags
	first.runID = runID
	if _, err := Normalize(&first, conf); err != nil {
		return nil, err
	}

	rest := first
	rest.in = flags.out
	if _, err := Consensus(&rest, conf); err != nil {
		return nil, err
	}
	if _, err := Scores(&rest, conf); err != nil {
		return nil, err
	}
	if _, _, err := Extract(&rest, conf); err != nil {
		return nil, err
	}

	return ReadManifest(filepath.Join(flags.out, flags.combo.String(), ManifestFile))
}

// RunAll runs every deployed combination in turn. A failed combination is
// logged and the rest still run. The error lists the failed combinations.
func RunAll(flags *Flags, conf *config.Config) (map[string]*Manifest, error) {
	manifests := make(map[string]*Manifest)
	var failed []string
	for _, combo := range config.Deployed {
		m, err := Run(flags.withCombo(combo), conf)
		if err != nil {
			log.Errorf("%s failed: %v", combo, err)
			failed = append(failed, combo.String())
			continue
		}
		manifests[combo.String()] = m
	}

	if len(failed) > 0 {
		return manifests, fmt.Errorf("%d of %d combinations failed: %s", len(failed), len(config.Deployed), strings.Join(failed, ", "))
	}
	return manifests, nil
}

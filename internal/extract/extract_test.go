package extract

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/biogo/feat"
	"github.com/vrecon/vrecon/config"
	"github.com/vrecon/vrecon/internal/consensus"
	"github.com/vrecon/vrecon/internal/predict"
	"github.com/vrecon/vrecon/internal/scores"
)

func testConfig() *config.Config {
	return &config.Config{
		Tools: []string{"A", "B", "C", "D"},
		ToolClasses: map[string][]string{
			"phage":   {"A", "B", "D"},
			"plasmid": {"C"},
		},
		FastaWidth: 80,
		MinSupport: 1,
	}
}

// randomSeq is a random sequence of mixed case nucleotides.
func randomSeq(rng *rand.Rand, n int) string {
	const bases = "ACGTacgtN"
	b := make([]byte, n)
	for i := range b {
		b[i] = bases[rng.Intn(len(bases))]
	}
	return string(b)
}

// writeAssembly writes contigs to a FASTA file and loads it.
func writeAssembly(t *testing.T, contigs map[string]string) *Assembly {
	t.Helper()

	var sb strings.Builder
	for id, s := range contigs {
		fmt.Fprintf(&sb, ">%s some description\n", id)
		for i := 0; i < len(s); i += 60 {
			end := i + 60
			if end > len(s) {
				end = len(s)
			}
			sb.WriteString(s[i:end] + "\n")
		}
	}

	path := filepath.Join(t.TempDir(), "illumina.megahit.fa")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		t.Fatal(err)
	}
	asm, err := LoadAssembly(path)
	if err != nil {
		t.Fatal(err)
	}
	return asm
}

// resolve runs the resolver and matrix builder over intervals.
func resolve(t *testing.T, byContig map[string][]predict.Interval, conf *config.Config) ([]consensus.Region, *scores.Matrix) {
	regions := (&consensus.Resolver{Policy: consensus.Union}).Resolve(byContig)
	m, err := scores.Build(regions, byContig, conf)
	if err != nil {
		t.Fatal(err)
	}
	return regions, m
}

func TestExtractor_Extract(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	c1, c2 := randomSeq(rng, 10000), randomSeq(rng, 10000)
	asm := writeAssembly(t, map[string]string{"C1": c1, "C2": c2})

	conf := testConfig()
	regions, m := resolve(t, map[string][]predict.Interval{
		"C1": {
			{Tool: "A", Contig: "C1", Start: 100, End: 400, Confidence: 0.9},
			{Tool: "B", Contig: "C1", Start: 350, End: 500, Confidence: 0.7},
		},
		"C2": {
			{Tool: "C", Contig: "C2", Start: 0, End: 10000, Confidence: 0.95, Whole: true},
			{Tool: "D", Contig: "C2", Start: 2000, End: 3000, Confidence: 0.6},
		},
	}, conf)

	seqs, sum, err := NewExtractor(conf).Extract(regions, m, asm)
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 2 {
		t.Fatalf("Extract() = %d sequences, want 2", len(seqs))
	}

	if seqs[0].Header != "C1_100_500_supp2" || len(seqs[0].Seq) != 400 || seqs[0].Seq != c1[100:500] || seqs[0].Whole {
		t.Errorf("Extract() C1 = %s len %d", seqs[0].Header, len(seqs[0].Seq))
	}
	if seqs[0].Desc != "label=phage tools=A,B len=400" {
		t.Errorf("Extract() C1 desc = %q", seqs[0].Desc)
	}
	if seqs[1].Header != "C2_0_10000_supp2" || seqs[1].Seq != c2 || !seqs[1].Whole {
		t.Errorf("Extract() C2 = %s len %d", seqs[1].Header, len(seqs[1].Seq))
	}

	want := Summary{Total: 2, SubContig: 1, WholeContig: 1}
	if sum != want {
		t.Errorf("Extract() summary = %+v, want %+v", sum, want)
	}
}

func TestExtractor_Extract_exactSlices(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	conf := testConfig()

	for trial := 0; trial < 50; trial++ {
		length := 1 + rng.Intn(5000)
		contig := randomSeq(rng, length)
		asm := writeAssembly(t, map[string]string{"C1": contig})

		var ivs []predict.Interval
		for n := 1 + rng.Intn(10); n > 0; n-- {
			start := rng.Intn(length)
			end := start + 1 + rng.Intn(length-start)
			ivs = append(ivs, predict.Interval{Tool: "A", Contig: "C1", Start: start, End: end, Confidence: 1})
		}
		regions, m := resolve(t, map[string][]predict.Interval{"C1": ivs}, conf)

		seqs, _, err := NewExtractor(conf).Extract(regions, m, asm)
		if err != nil {
			t.Fatal(err)
		}
		if len(seqs) != len(regions) {
			t.Fatalf("Extract() = %d sequences for %d regions", len(seqs), len(regions))
		}
		for i, s := range seqs {
			r := regions[i]
			if len(s.Seq) != r.End-r.Start || s.Seq != contig[r.Start:r.End] {
				t.Fatalf("Extract() %s is not contig[%d:%d]", s.Header, r.Start, r.End)
			}
		}
	}
}

func TestExtractor_Extract_strandAware(t *testing.T) {
	asm := writeAssembly(t, map[string]string{"C1": "AACCGGTTAC"})
	conf := testConfig()
	regions, m := resolve(t, map[string][]predict.Interval{
		"C1": {{Tool: "A", Contig: "C1", Start: 0, End: 4, Confidence: 1, Strand: feat.Reverse}},
	}, conf)

	seqs, _, err := (&Extractor{}).Extract(regions, m, asm)
	if err != nil {
		t.Fatal(err)
	}
	if seqs[0].Seq != "AACC" {
		t.Errorf("Extract() = %s, want AACC", seqs[0].Seq)
	}

	seqs, _, err = (&Extractor{StrandAware: true}).Extract(regions, m, asm)
	if err != nil {
		t.Fatal(err)
	}
	if seqs[0].Seq != "GGTT" {
		t.Errorf("strand-aware Extract() = %s, want GGTT", seqs[0].Seq)
	}
}

func TestExtractor_Extract_desync(t *testing.T) {
	asm := writeAssembly(t, map[string]string{"C1": strings.Repeat("ACGT", 25)})
	conf := testConfig()

	okRegions, okMatrix := resolve(t, map[string][]predict.Interval{
		"C1": {{Tool: "A", Contig: "C1", Start: 0, End: 50, Confidence: 1}},
	}, conf)
	unknownRegions, unknownMatrix := resolve(t, map[string][]predict.Interval{
		"C9": {{Tool: "A", Contig: "C9", Start: 0, End: 50, Confidence: 1}},
	}, conf)
	longRegions, longMatrix := resolve(t, map[string][]predict.Interval{
		"C1": {{Tool: "A", Contig: "C1", Start: 50, End: 101, Confidence: 1}},
	}, conf)

	tests := []struct {
		name    string
		regions []consensus.Region
		matrix  *scores.Matrix
	}{
		{"contig not in assembly", unknownRegions, unknownMatrix},
		{"region past contig end", longRegions, longMatrix},
		{"region not in matrix", okRegions, &scores.Matrix{Tools: conf.Tools}},
		{"matrix from other regions", okRegions, longMatrix},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewExtractor(conf).Extract(tt.regions, tt.matrix, asm)
			var desync *DesynchronizationError
			if !errors.As(err, &desync) {
				t.Fatalf("Extract() error = %v, want a DesynchronizationError", err)
			}
			if desync.Region == "" || desync.Contig == "" {
				t.Errorf("DesynchronizationError = %+v", desync)
			}
		})
	}

	if _, _, err := NewExtractor(conf).Extract(okRegions, okMatrix, asm); err != nil {
		t.Errorf("Extract() = %v", err)
	}
}

func TestExtractor_Extract_filters(t *testing.T) {
	asm := writeAssembly(t, map[string]string{"C1": strings.Repeat("ACGT", 500)})
	conf := testConfig()
	regions, m := resolve(t, map[string][]predict.Interval{
		"C1": {
			{Tool: "A", Contig: "C1", Start: 0, End: 100, Confidence: 1},
			{Tool: "B", Contig: "C1", Start: 50, End: 150, Confidence: 1},
			{Tool: "C", Contig: "C1", Start: 500, End: 600, Confidence: 1},
			{Tool: "A", Contig: "C1", Start: 1000, End: 1100, Confidence: 1},
		},
	}, conf)

	tests := []struct {
		name    string
		e       *Extractor
		headers []string
	}{
		{"all", &Extractor{}, []string{"C1_0_150_supp2", "C1_500_600_supp1", "C1_1000_1100_supp1"}},
		{"min support", &Extractor{MinSupport: 2}, []string{"C1_0_150_supp2"}},
		{"labels", &Extractor{Labels: []scores.Label{scores.Plasmid}}, []string{"C1_500_600_supp1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seqs, sum, err := tt.e.Extract(regions, m, asm)
			if err != nil {
				t.Fatal(err)
			}
			var headers []string
			for _, s := range seqs {
				headers = append(headers, s.Header)
			}
			if strings.Join(headers, " ") != strings.Join(tt.headers, " ") {
				t.Errorf("Extract() = %v, want %v", headers, tt.headers)
			}
			if sum.Filtered != len(regions)-len(tt.headers) {
				t.Errorf("Extract() filtered = %d", sum.Filtered)
			}
		})
	}
}

func TestNewExtractor(t *testing.T) {
	conf := testConfig()
	conf.StrandAware = true
	conf.ExtractLabels = []string{"phage", "PP"}
	conf.MinSupport = 2

	e := NewExtractor(conf)
	if !e.StrandAware || e.MinSupport != 2 || len(e.Labels) != 2 || e.Labels[1] != scores.PP {
		t.Errorf("NewExtractor() = %+v", e)
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.fasta")
	seqs := []Sequence{
		{Header: "C1_0_10_supp1", Desc: "label=phage tools=A len=10", Seq: "ACGTACGTAC"},
	}

	if err := Write(path, seqs, 4); err != nil {
		t.Fatal(err)
	}
	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := ">C1_0_10_supp1 label=phage tools=A len=10\nACGT\nACGT\nAC\n"
	if string(out) != want {
		t.Errorf("Write() = %q, want %q", out, want)
	}
}

func TestWrite_fullDisk(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}

	seqs := []Sequence{{Header: "C1_0_4_supp1", Seq: "ACGT"}}
	if err := Write("/dev/full", seqs, 80); err == nil {
		t.Error("Write() to a full disk returned no error")
	}
}

package vrecon

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/biogo/biogo/alphabet"
	"github.com/spf13/viper"
	"github.com/vrecon/vrecon/config"
	"github.com/vrecon/vrecon/internal/consensus"
	"github.com/vrecon/vrecon/internal/extract"
	"github.com/vrecon/vrecon/internal/scores"
)

var (
	predictions = filepath.Join("testdata", "predictions")
	assemblies  = filepath.Join("testdata", "assembly")
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	viper.Reset()
	return config.New()
}

func Test_Run(t *testing.T) {
	conf := testConfig(t)
	out := t.TempDir()

	flags, err := NewFlags(predictions, out, assemblies, "illumina", "megahit")
	if err != nil {
		t.Fatal(err)
	}

	m, err := Run(flags, conf)
	if err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(out, "illumina.megahit")
	for _, f := range []string{IntervalsFile, RegionsFile, GFFFile, MatrixFile, CandidatesFile, ManifestFile} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("Run() did not write %s", f)
		}
	}

	t.Run("regions", func(t *testing.T) {
		regions, err := consensus.ReadTable(filepath.Join(dir, RegionsFile))
		if err != nil {
			t.Fatal(err)
		}

		type region struct {
			id         string
			start, end int
			tools      string
		}
		want := []region{
			{"C1_region_1", 100, 500, "GenomadPH,Vibrant"},
			{"C2_region_1", 0, 1500, "DeepmcPH,Phabox,VirsorterDS"},
			{"C3_region_1", 0, 800, "GenomadPH,VirsorterSS"},
			{"P1_region_1", 0, 1200, "DeepmcPL,GenomadPL,Plasme"},
		}
		var got []region
		for _, r := range regions {
			got = append(got, region{r.ID, r.Start, r.End, strings.Join(r.Tools, ",")})
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Run() regions = %+v, want %+v", got, want)
		}
	})

	t.Run("score matrix", func(t *testing.T) {
		matrix, err := scores.ReadTable(filepath.Join(dir, MatrixFile), conf.Tools, conf.Absent)
		if err != nil {
			t.Fatal(err)
		}

		labels := map[string]scores.Label{
			"C1_region_1": scores.Phage,
			"C2_region_1": scores.Phage,
			"C3_region_1": scores.Uncertain,
			"P1_region_1": scores.Plasmid,
		}
		for id, want := range labels {
			row, ok := matrix.Get(id)
			if !ok || row.Label != want {
				t.Errorf("Run() %s label = %s, want %s", id, row.Label, want)
			}
		}

		row, _ := matrix.Get("C1_region_1")
		if row.Values[1] != 0.9 || row.Values[4] != 7 || row.PhageCount != 2 {
			t.Errorf("Run() C1_region_1 scores = %+v", row)
		}
	})

	t.Run("candidates", func(t *testing.T) {
		asm, err := extract.LoadAssembly(filepath.Join(assemblies, "illumina.megahit.fa"))
		if err != nil {
			t.Fatal(err)
		}
		candidates, err := extract.LoadAssembly(filepath.Join(dir, CandidatesFile))
		if err != nil {
			t.Fatal(err)
		}

		want := map[string][3]interface{}{
			"C1_100_500_supp2": {"C1", 100, 500},
			"C2_0_1500_supp3":  {"C2", 0, 1500},
			"C3_0_800_supp2":   {"C3", 0, 800},
			"P1_0_1200_supp3":  {"P1", 0, 1200},
		}
		if candidates.Len() != len(want) {
			t.Fatalf("Run() wrote %d candidates: %v", candidates.Len(), candidates.IDs())
		}
		for header, w := range want {
			got, ok := candidates.Get(header)
			if !ok {
				t.Fatalf("Run() missing candidate %s", header)
			}
			contig, _ := asm.Get(w[0].(string))
			source := string(alphabet.LettersToBytes(contig.Seq[w[1].(int):w[2].(int)]))
			if string(alphabet.LettersToBytes(got.Seq)) != source {
				t.Errorf("Run() candidate %s is not %s[%d:%d]", header, w[0], w[1], w[2])
			}
		}
	})

	t.Run("manifest", func(t *testing.T) {
		if m.RunID == "" || m.Combo != "illumina.megahit" || len(m.Stages) != len(StageNames) {
			t.Fatalf("Run() manifest = %+v", m)
		}
		if n := m.Stages["normalize"].Counts["intervals"]; n != 10 {
			t.Errorf("Run() normalized %d intervals, want 10", n)
		}
		if got := m.Stages["extract"].Counts; got["subContig"] != 1 || got["wholeContig"] != 3 {
			t.Errorf("Run() extract counts = %v", got)
		}
	})
}

func Test_RunAll(t *testing.T) {
	conf := testConfig(t)
	out := t.TempDir()

	flags, err := NewFlags(predictions, out, assemblies, "illumina", "megahit")
	if err != nil {
		t.Fatal(err)
	}

	// only illumina.megahit has an assembly, the others fail without stopping the run
	manifests, err := RunAll(flags, conf)
	if err == nil || !strings.Contains(err.Error(), "7 of 8") {
		t.Errorf("RunAll() error = %v", err)
	}
	if len(manifests) != 1 || manifests["illumina.megahit"] == nil {
		t.Errorf("RunAll() manifests = %v", manifests)
	}
}

func Test_Extract_desync(t *testing.T) {
	conf := testConfig(t)
	out := t.TempDir()

	flags, err := NewFlags(predictions, out, assemblies, "illumina", "megahit")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Run(flags, conf); err != nil {
		t.Fatal(err)
	}

	// an assembly that lost a contig since the predictions were made
	stale := t.TempDir()
	contents := ">C1\n" + strings.Repeat("A", 2000) + "\n>C2\n" + strings.Repeat("C", 1500) + "\n"
	if err := os.WriteFile(filepath.Join(stale, "illumina.megahit.fa"), []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	extractFlags, err := NewFlags(out, t.TempDir(), stale, "illumina", "megahit")
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = Extract(extractFlags, conf)

	var desync *extract.DesynchronizationError
	if !errors.As(err, &desync) || desync.Contig != "C3" {
		t.Errorf("Extract() error = %v, want a DesynchronizationError for C3", err)
	}
}

func Test_Extract_defaultAssemblyDir(t *testing.T) {
	conf := testConfig(t)
	out := t.TempDir()

	flags, err := NewFlags(predictions, out, assemblies, "illumina", "megahit")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Run(flags, conf); err != nil {
		t.Fatal(err)
	}

	// without -f the assembly is looked for beside the previous candidates
	rerun, err := NewFlags(out, out, "", "illumina", "megahit")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := Extract(rerun, conf); err == nil {
		t.Error("Extract() read its own candidates as the assembly")
	}
}

func Test_Consensus_missingInput(t *testing.T) {
	conf := testConfig(t)

	flags, err := NewFlags(t.TempDir(), t.TempDir(), "", "ont", "flye")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Consensus(flags, conf); err == nil {
		t.Error("Consensus() should fail without an input directory")
	}
}

func Test_NewFlags(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		out     string
		tech    string
		asm     string
		wantErr bool
	}{
		{"valid", "in", "out", "pacbio", "hifiasm", false},
		{"assembler not used with tech", "in", "out", "illumina", "flye", true},
		{"unknown tech", "in", "out", "sanger", "spades", true},
		{"missing out", "in", "", "ont", "flye", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFlags(tt.in, tt.out, "", tt.tech, tt.asm)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && f.assemblyDir != tt.in {
				t.Errorf("NewFlags() assembly dir = %s, want %s", f.assemblyDir, tt.in)
			}
		})
	}
}

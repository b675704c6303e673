package vrecon

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vrecon/vrecon/config"
)

func Test_writeManifest(t *testing.T) {
	dir := t.TempDir()
	combo := config.Combo{Tech: "ont", Assembler: "hifiasm"}

	// lone stages share whatever manifest is there
	first, err := writeManifest(dir, "", combo, "normalize", Stage{Execution: 1.5, Warnings: 2})
	if err != nil {
		t.Fatal(err)
	}
	second, err := writeManifest(dir, "", combo, "consensus", Stage{Execution: 0.5, Counts: map[string]int{"regions": 3}})
	if err != nil {
		t.Fatal(err)
	}
	if first.RunID == "" || second.RunID != first.RunID {
		t.Errorf("writeManifest() run ids = %s, %s", first.RunID, second.RunID)
	}
	if second.Execution != 2 || second.Warnings != 2 || len(second.Stages) != 2 {
		t.Errorf("writeManifest() = %+v", second)
	}

	// a new run replaces it
	third, err := writeManifest(dir, "run-2", combo, "normalize", Stage{Execution: 1})
	if err != nil {
		t.Fatal(err)
	}
	if third.RunID != "run-2" || len(third.Stages) != 1 {
		t.Errorf("writeManifest() = %+v", third)
	}

	read, err := ReadManifest(filepath.Join(dir, ManifestFile))
	if err != nil {
		t.Fatal(err)
	}
	if read.RunID != "run-2" || read.Combo != "ont.hifiasm" {
		t.Errorf("ReadManifest() = %+v", read)
	}
}

func Test_writeSummary(t *testing.T) {
	var out bytes.Buffer
	writeSummary(&out, map[string]*Manifest{
		"illumina.megahit": {
			Stages: map[string]Stage{
				"normalize": {Counts: map[string]int{"intervals": 10, "contigs": 4}, Warnings: 1},
				"extract":   {Counts: map[string]int{"total": 4}},
			},
		},
	})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("writeSummary() = %q", out.String())
	}
	if !strings.Contains(lines[1], "normalize") || !strings.Contains(lines[1], "contigs=4 intervals=10") {
		t.Errorf("writeSummary() normalize line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "extract") {
		t.Errorf("writeSummary() extract line = %q", lines[2])
	}
}

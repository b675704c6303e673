package scores

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vrecon/vrecon/internal/predict"
)

func TestWriteTable_ReadTable(t *testing.T) {
	nan := math.NaN()
	m := &Matrix{
		Tools: []string{"A", "B", "C"},
		Rows: []Row{
			{RegionID: "C1_region_1", Contig: "C1", Start: 100, End: 500, Support: 2, Values: []float64{0.9, 7, nan}, PhageCount: 2, Label: Phage},
			{RegionID: "C2_region_1", Contig: "C2", Start: 0, End: 10000, Support: 1, Values: []float64{nan, nan, 0.95}, PlasmidCount: 1, Label: Plasmid},
		},
	}

	for _, absent := range []string{"NaN", "", "NA"} {
		path := filepath.Join(t.TempDir(), "score_matrix.tsv")
		if err := WriteTable(path, m, absent); err != nil {
			t.Fatal(err)
		}

		got, err := ReadTable(path, m.Tools, absent)
		if err != nil {
			t.Fatal(err)
		}
		if len(got.Rows) != len(m.Rows) {
			t.Fatalf("ReadTable() = %d rows", len(got.Rows))
		}
		for i := range got.Rows {
			g, w := got.Rows[i], m.Rows[i]
			if !equal(g.Values, w.Values) {
				t.Errorf("ReadTable(%q) values = %v, want %v", absent, g.Values, w.Values)
			}
			g.Values, w.Values = nil, nil
			if !reflect.DeepEqual(g, w) {
				t.Errorf("ReadTable(%q) = %+v, want %+v", absent, g, w)
			}
		}
	}
}

func TestWriteTable_header(t *testing.T) {
	path := filepath.Join(t.TempDir(), "score_matrix.tsv")
	if err := WriteTable(path, &Matrix{Tools: []string{"Phabox", "GenomadPH"}}, "NaN"); err != nil {
		t.Fatal(err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "region_id\tcontig_id\tstart0\tend0\tn_supporting\tPhabox\tGenomadPH\tphage_count\tplasmid_count\tother_count\tlabel\n"
	if string(out) != want {
		t.Errorf("WriteTable() header = %q, want %q", out, want)
	}
}

func TestReadTable_columnOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "score_matrix.tsv")
	header := strings.Join(Header([]string{"B", "A"}), "\t") + "\n"
	if err := os.WriteFile(path, []byte(header), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadTable(path, []string{"A", "B"}, "NaN")
	var mismatch *predict.SchemaMismatch
	if !errors.As(err, &mismatch) {
		t.Errorf("ReadTable() error = %v, want a SchemaMismatch", err)
	}
}

func TestWriteTable_fullDisk(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}

	m := &Matrix{
		Tools: []string{"A"},
		Rows:  []Row{{RegionID: "C1_region_1", Contig: "C1", Start: 0, End: 10, Support: 1, Values: []float64{0.9}, PhageCount: 1, Label: Phage}},
	}
	if err := WriteTable("/dev/full", m, "NaN"); err == nil {
		t.Error("WriteTable() to a full disk returned no error")
	}
}

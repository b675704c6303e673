package extract

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/shenwei356/xopen"
	"github.com/vrecon/vrecon/config"
	"github.com/vrecon/vrecon/internal/predict"
)

// fastaExts are the file extensions of an assembly, before any ".gz".
var fastaExts = []string{".fa", ".fasta", ".fna"}

// CandidatesFile is the name of the extracted sequences in a combination's
// output directory. It is never taken for an assembly.
const CandidatesFile = "candidates.fasta"

// Assembly is the filtered assembly of a combination, its contigs by id.
type Assembly struct {
	// Path the assembly was read from
	Path string

	// contig ids in file order
	ids []string

	seqs map[string]*linear.Seq
}

// FindAssembly returns the path of a combination's filtered assembly FASTA
// under dir. It is either dir/<combo>.fa or the first FASTA file in
// dir/<combo>/ other than CandidatesFile, each optionally gzipped.
func FindAssembly(dir string, combo config.Combo) (string, error) {
	var candidates []string
	for _, pattern := range []string{combo.String() + ".*", filepath.Join(combo.String(), "*")} {
		matches, _ := filepath.Glob(filepath.Join(dir, pattern))
		sort.Strings(matches)
		candidates = append(candidates, matches...)
	}

	for _, c := range candidates {
		name := strings.TrimSuffix(c, ".gz")
		if filepath.Base(name) == CandidatesFile {
			continue
		}

		ext := filepath.Ext(name)
		for _, e := range fastaExts {
			if strings.EqualFold(ext, e) {
				return c, nil
			}
		}
	}

	return "", fmt.Errorf("failed to find an assembly FASTA for %s in %s", combo, dir)
}

// LoadAssembly reads every contig of a FASTA file. Sequences are kept
// as written, case included.
func LoadAssembly(path string) (*Assembly, error) {
	r, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open assembly %s: %v", path, err)
	}
	defer r.Close()

	a := &Assembly{Path: path, seqs: make(map[string]*linear.Seq)}
	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNAredundant)))
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		if _, ok := a.seqs[s.ID]; ok {
			return nil, fmt.Errorf("contig %s is in %s twice", s.ID, path)
		}
		a.ids = append(a.ids, s.ID)
		a.seqs[s.ID] = s
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("failed to read assembly %s: %v", path, err)
	}

	return a, nil
}

// Get returns a contig by id.
func (a *Assembly) Get(id string) (*linear.Seq, bool) {
	s, ok := a.seqs[id]
	return s, ok
}

// Len is the number of contigs.
func (a *Assembly) Len() int {
	return len(a.ids)
}

// IDs returns the contig ids in file order.
func (a *Assembly) IDs() []string {
	return append([]string(nil), a.ids...)
}

// Lengths returns the length of every contig.
func (a *Assembly) Lengths() predict.Contigs {
	lengths := make(predict.Contigs, len(a.seqs))
	for id, s := range a.seqs {
		lengths[id] = s.Len()
	}
	return lengths
}

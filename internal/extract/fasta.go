package extract

import (
	"fmt"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/shenwei356/xopen"
)

// Write writes the sequences to a FASTA file, width bases per line.
func Write(path string, seqs []Sequence, width int) (err error) {
	f, err := xopen.Wopen(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", path, err)
	}
	// Close flushes the buffered output
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to write %s: %v", path, cerr)
		}
	}()

	w := fasta.NewWriter(f, width)
	for _, s := range seqs {
		out := linear.NewSeq(s.Header, alphabet.BytesToLetters([]byte(s.Seq)), alphabet.DNAredundant)
		out.Desc = s.Desc
		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("failed to write %s to %s: %v", s.Header, path, err)
		}
	}
	return nil
}

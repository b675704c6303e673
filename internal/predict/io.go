package predict

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/biogo/biogo/feat"
	"github.com/shenwei356/xopen"
)

// TableHeader is the column order of the normalized interval table.
var TableHeader = []string{"tool_id", "contig_id", "start0", "end0", "confidence", "is_whole_contig", "score_kind", "strand"}

// WriteTable writes intervals, contig by contig in lexical order, to a
// tab separated file.
func WriteTable(path string, byContig map[string][]Interval) (err error) {
	w, err := xopen.Wopen(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", path, err)
	}
	// Close flushes the buffered output
	defer func() {
		if cerr := w.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to write %s: %v", path, cerr)
		}
	}()

	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(TableHeader); err != nil {
		return err
	}

	for _, contig := range SortedContigs(byContig) {
		for _, iv := range byContig[contig] {
			err := cw.Write([]string{
				iv.Tool,
				iv.Contig,
				strconv.Itoa(iv.Start),
				strconv.Itoa(iv.End),
				strconv.FormatFloat(iv.Confidence, 'f', -1, 64),
				strconv.FormatBool(iv.Whole),
				string(iv.Kind),
				StrandString(iv.Strand),
			})
			if err != nil {
				return fmt.Errorf("failed to write %s: %v", path, err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadTable reads a table written by WriteTable back into intervals by contig.
func ReadTable(path string) (map[string][]Interval, error) {
	r, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open normalized intervals %s: %v", path, err)
	}
	defer r.Close()

	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = len(TableHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %v", path, err)
	}
	for i, h := range TableHeader {
		if header[i] != h {
			return nil, &SchemaMismatch{Tool: "normalized intervals", File: path, Missing: []string{h}}
		}
	}

	byContig := make(map[string][]Interval)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %v", path, err)
		}

		iv := Interval{Tool: row[0], Contig: row[1], Kind: ScoreKind(row[6])}
		var errs [4]error
		iv.Start, errs[0] = strconv.Atoi(row[2])
		iv.End, errs[1] = strconv.Atoi(row[3])
		iv.Confidence, errs[2] = strconv.ParseFloat(row[4], 64)
		iv.Whole, errs[3] = strconv.ParseBool(row[5])
		for _, e := range errs {
			if e != nil {
				return nil, fmt.Errorf("bad interval at %s:%d: %v", path, line, e)
			}
		}
		if iv.Start < 0 || iv.Start >= iv.End {
			return nil, fmt.Errorf("bad interval at %s:%d: [%d, %d)", path, line, iv.Start, iv.End)
		}
		if math.IsNaN(iv.Confidence) || math.IsInf(iv.Confidence, 0) {
			return nil, fmt.Errorf("bad interval at %s:%d: confidence %s", path, line, row[4])
		}
		iv.Strand = ParseStrand(row[7])

		byContig[iv.Contig] = append(byContig[iv.Contig], iv)
	}

	for _, ivs := range byContig {
		SortIntervals(ivs)
	}
	return byContig, nil
}

// StrandString formats an orientation as "+", "-" or ".".
func StrandString(o feat.Orientation) string {
	switch o {
	case feat.Forward:
		return "+"
	case feat.Reverse:
		return "-"
	}
	return "."
}

// ParseStrand parses "+", "-" or "." to an orientation.
func ParseStrand(s string) feat.Orientation {
	switch s {
	case "+":
		return feat.Forward
	case "-":
		return feat.Reverse
	}
	return feat.NotOriented
}

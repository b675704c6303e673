package scores

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/shenwei356/xopen"
	"github.com/vrecon/vrecon/internal/predict"
)

// leading and trailing columns around the tool columns
var (
	leadColumns  = []string{"region_id", "contig_id", "start0", "end0", "n_supporting"}
	trailColumns = []string{"phage_count", "plasmid_count", "other_count", "label"}
)

// Header is the column order of a matrix over the tools.
func Header(tools []string) []string {
	header := append([]string{}, leadColumns...)
	header = append(header, tools...)
	return append(header, trailColumns...)
}

// WriteTable writes the matrix to a tab separated file. Missing scores are
// written as the absent sentinel.
func WriteTable(path string, m *Matrix, absent string) (err error) {
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
	if err := cw.Write(Header(m.Tools)); err != nil {
		return err
	}

	for _, r := range m.Rows {
		record := []string{
			r.RegionID,
			r.Contig,
			strconv.Itoa(r.Start),
			strconv.Itoa(r.End),
			strconv.Itoa(r.Support),
		}
		for _, v := range r.Values {
			if math.IsNaN(v) {
				record = append(record, absent)
			} else {
				record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
			}
		}
		record = append(record,
			strconv.Itoa(r.PhageCount),
			strconv.Itoa(r.PlasmidCount),
			strconv.Itoa(r.OtherCount),
			string(r.Label),
		)

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write %s: %v", path, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadTable reads a matrix written by WriteTable. Its columns must match the
// tools exactly and in order: downstream readers rely on column position.
func ReadTable(path string, tools []string, absent string) (*Matrix, error) {
	r, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open score matrix %s: %v", path, err)
	}
	defer r.Close()

	want := Header(tools)
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %v", path, err)
	}
	if len(header) != len(want) {
		return nil, &predict.SchemaMismatch{
			Tool:    "score matrix",
			File:    path,
			Missing: []string{fmt.Sprintf("expected %d columns, found %d", len(want), len(header))},
		}
	}
	for i, h := range want {
		if header[i] != h {
			return nil, &predict.SchemaMismatch{Tool: "score matrix", File: path, Missing: []string{h}}
		}
	}

	m := &Matrix{Tools: append([]string(nil), tools...)}
	nLead := len(leadColumns)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %v", path, err)
		}
		if len(record) != len(want) {
			return nil, fmt.Errorf("bad row at %s:%d: %d columns", path, line, len(record))
		}

		row := Row{
			RegionID: record[0],
			Contig:   record[1],
			Values:   make([]float64, len(tools)),
			Label:    Label(record[len(record)-1]),
		}

		ints := []*int{&row.Start, &row.End, &row.Support}
		for i, p := range ints {
			if *p, err = strconv.Atoi(record[2+i]); err != nil {
				return nil, fmt.Errorf("bad row at %s:%d: %v", path, line, err)
			}
		}

		for i := range tools {
			cell := record[nLead+i]
			if cell == absent || cell == "" {
				row.Values[i] = math.NaN()
				continue
			}
			if row.Values[i], err = strconv.ParseFloat(cell, 64); err != nil {
				return nil, fmt.Errorf("bad score at %s:%d: %v", path, line, err)
			}
		}

		counts := []*int{&row.PhageCount, &row.PlasmidCount, &row.OtherCount}
		for i, p := range counts {
			if *p, err = strconv.Atoi(record[nLead+len(tools)+i]); err != nil {
				return nil, fmt.Errorf("bad count at %s:%d: %v", path, line, err)
			}
		}

		m.Rows = append(m.Rows, row)
	}

	return m, nil
}

package consensus

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shenwei356/xopen"
	"github.com/vrecon/vrecon/internal/predict"
)

// TableHeader is the column order of the consensus region table.
var TableHeader = []string{"region_id", "contig_id", "start0", "end0", "n_supporting", "supporting_tools", "strand", "policy", "merged_start0", "merged_end0"}

// WriteTable writes regions to a tab separated file, one row per region.
func WriteTable(path string, regions []Region) (err error) {
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

	for _, r := range regions {
		err := cw.Write([]string{
			r.ID,
			r.Contig,
			strconv.Itoa(r.Start),
			strconv.Itoa(r.End),
			strconv.Itoa(r.Support()),
			strings.Join(r.Tools, ","),
			predict.StrandString(r.Strand),
			string(r.Policy),
			strconv.Itoa(r.MergedStart),
			strconv.Itoa(r.MergedEnd),
		})
		if err != nil {
			return fmt.Errorf("failed to write %s: %v", path, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadTable reads a table written by WriteTable. Rows with start >= end, a
// merged span that doesn't contain the region or a support count that
// disagrees with their tools are rejected.
func ReadTable(path string) ([]Region, error) {
	r, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open consensus regions %s: %v", path, err)
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
			return nil, &predict.SchemaMismatch{Tool: "consensus regions", File: path, Missing: []string{h}}
		}
	}

	var regions []Region
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %v", path, err)
		}

		reg := Region{
			ID:     row[0],
			Contig: row[1],
			Tools:  strings.Split(row[5], ","),
			Strand: predict.ParseStrand(row[6]),
			Policy: Policy(row[7]),
		}
		var errs [5]error
		var support int
		reg.Start, errs[0] = strconv.Atoi(row[2])
		reg.End, errs[1] = strconv.Atoi(row[3])
		support, errs[2] = strconv.Atoi(row[4])
		reg.MergedStart, errs[3] = strconv.Atoi(row[8])
		reg.MergedEnd, errs[4] = strconv.Atoi(row[9])
		for _, e := range errs {
			if e != nil {
				return nil, fmt.Errorf("bad region at %s:%d: %v", path, line, e)
			}
		}

		if reg.Start < 0 || reg.Start >= reg.End {
			return nil, fmt.Errorf("bad region at %s:%d: [%d, %d)", path, line, reg.Start, reg.End)
		}
		if reg.MergedStart > reg.Start || reg.MergedEnd < reg.End {
			return nil, fmt.Errorf("bad region at %s:%d: merged span [%d, %d) does not contain [%d, %d)", path, line, reg.MergedStart, reg.MergedEnd, reg.Start, reg.End)
		}
		if row[5] == "" || support != reg.Support() {
			return nil, fmt.Errorf("bad region at %s:%d: n_supporting %d for tools %q", path, line, support, row[5])
		}

		regions = append(regions, reg)
	}

	return regions, nil
}

// ByContig groups regions by contig id, keeping their order.
func ByContig(regions []Region) map[string][]Region {
	byContig := make(map[string][]Region)
	for _, r := range regions {
		byContig[r.Contig] = append(byContig[r.Contig], r)
	}
	return byContig
}

package predict

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shenwei356/xopen"
)

// table is a delimited tool output read into memory.
type table struct {
	// path to the file on the local fs
	path string

	// columns maps a header name to its index
	columns map[string]int

	// rows after the header
	rows [][]string
}

// readTable reads a delimited file with a header row. Files may be gzipped.
func readTable(path string, comma rune) (*table, error) {
	t := &table{path: path, columns: make(map[string]int)}

	r, err := xopen.Ropen(path)
	if errors.Is(err, xopen.ErrNoContent) {
		return t, nil // empty output, no predictions
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %v", path, err)
	}
	defer r.Close()

	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return t, nil // empty output, no predictions
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %v", path, err)
	}
	for i, h := range header {
		t.columns[strings.TrimSpace(h)] = i
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %v", path, err)
		}
		t.rows = append(t.rows, row)
	}

	return t, nil
}

// require returns a SchemaMismatch if any column is missing from the header.
// Empty files have no header and pass.
func (t *table) require(tool string, cols ...string) error {
	if len(t.columns) == 0 && len(t.rows) == 0 {
		return nil
	}

	var missing []string
	for _, c := range cols {
		if _, ok := t.columns[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaMismatch{Tool: tool, File: t.path, Missing: missing}
	}
	return nil
}

// get returns the value of a column in a row, or "" if the row is short.
func (t *table) get(row []string, col string) string {
	i, ok := t.columns[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// line is the 1-based file line of the i-th row, counting the header.
func (t *table) line(i int) int {
	return i + 2
}

// glob returns the sorted files under dir matching the pattern elements.
func glob(dir string, pattern ...string) []string {
	matches, _ := filepath.Glob(filepath.Join(append([]string{dir}, pattern...)...))
	sort.Strings(matches)
	return matches
}

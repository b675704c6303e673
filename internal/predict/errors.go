package predict

import (
	"fmt"
	"strings"
)

// MissingToolOutput is a tool that produced nothing for a combination.
// It is recoverable: the tool contributes zero intervals.
type MissingToolOutput struct {
	Tool string
	Path string
}

func (e *MissingToolOutput) Error() string {
	return fmt.Sprintf("no %s output at %s", e.Tool, e.Path)
}

// MalformedRecord is one prediction that could not be used. The record is
// skipped and the rest of the tool's output is still read.
type MalformedRecord struct {
	Tool   string
	Contig string
	File   string
	Line   int
	Reason string
}

func (e *MalformedRecord) Error() string {
	return fmt.Sprintf("skipping %s record for contig %q (%s:%d): %s", e.Tool, e.Contig, e.File, e.Line, e.Reason)
}

// SchemaMismatch is a tool output in an unexpected format. It is fatal:
// parsing the wrong columns could fabricate coordinates.
type SchemaMismatch struct {
	Tool    string
	File    string
	Missing []string
}

func (e *SchemaMismatch) Error() string {
	return fmt.Sprintf("unexpected %s output format in %s: missing column(s) %s", e.Tool, e.File, strings.Join(e.Missing, ", "))
}

// Warnings are the recoverable problems met while normalizing.
type Warnings []error

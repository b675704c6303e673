package config

import (
	"fmt"
	"strings"
)

// Technologies maps each sequencing technology to the assemblers run on it.
var Technologies = map[string][]string{
	"illumina": {"megahit", "spades"},
	"pacbio":   {"flye", "hifiasm", "autocycler"},
	"ont":      {"flye", "hifiasm", "autocycler"},
}

// Deployed is every (technology, assembler) combination, in run order.
var Deployed = []Combo{
	{"illumina", "megahit"},
	{"illumina", "spades"},
	{"pacbio", "flye"},
	{"pacbio", "hifiasm"},
	{"pacbio", "autocycler"},
	{"ont", "flye"},
	{"ont", "hifiasm"},
	{"ont", "autocycler"},
}

// Combo is one (technology, assembler) pair. Each is processed independently.
type Combo struct {
	Tech      string
	Assembler string
}

// NewCombo returns a validated Combo from its labels.
func NewCombo(tech, assembler string) (Combo, error) {
	c := Combo{
		Tech:      strings.ToLower(strings.TrimSpace(tech)),
		Assembler: strings.ToLower(strings.TrimSpace(assembler)),
	}
	return c, c.Validate()
}

// Validate checks that the technology is known and the assembler is one used with it.
func (c Combo) Validate() error {
	assemblers, ok := Technologies[c.Tech]
	if !ok {
		return fmt.Errorf("unknown technology %q: expected one of illumina, pacbio, ont", c.Tech)
	}

	for _, a := range assemblers {
		if a == c.Assembler {
			return nil
		}
	}

	return fmt.Errorf(
		"assembler %q is not used with %s: expected one of %s",
		c.Assembler,
		c.Tech,
		strings.Join(assemblers, ", "),
	)
}

// String is the "tech.assembler" label used in directory and file names.
func (c Combo) String() string {
	return c.Tech + "." + c.Assembler
}

// Package vrecon runs the stages of the pipeline for one (technology,
// assembler) combination and backs the cobra commands in /cmd.
package vrecon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vrecon/vrecon/config"
)

// Flags contains the parsed cobra flags shared by every stage command.
type Flags struct {
	// in is the prediction root (normalize) or the root of a previous stage's output
	in string

	// out is the output root. Each combination writes to out/<tech.assembler>
	out string

	// assemblyDir holds the filtered assembly FASTA of each combination
	assemblyDir string

	// combo is the (technology, assembler) being processed
	combo config.Combo

	// all runs every deployed combination
	all bool

	// runID is shared by the stages of one run, empty for a lone stage
	runID string
}

// NewFlags makes a new Flags object manually. for testing.
func NewFlags(in, out, assemblyDir, tech, assembler string) (*Flags, error) {
	combo, err := config.NewCombo(tech, assembler)
	if err != nil {
		return nil, err
	}
	if in == "" || out == "" {
		return nil, fmt.Errorf("both an input and an output directory are required")
	}
	if assemblyDir == "" {
		assemblyDir = in
	}

	return &Flags{in: in, out: out, assemblyDir: assemblyDir, combo: combo}, nil
}

// parseCmdFlags gathers the in and out paths and the combination from a
// cobra cmd object. It returns Flags and the Config for the stage.
func parseCmdFlags(cmd *cobra.Command) (*Flags, *config.Config) {
	conf := config.New()
	SetupLogging(conf.Verbose)

	get := func(name string) string {
		v, err := cmd.Flags().GetString(name)
		if err != nil {
			cmd.Help()
			log.Fatalf("failed to parse %s flag: %v", name, err)
		}
		return v
	}

	fs := &Flags{
		in:          get("in"),
		out:         get("out"),
		assemblyDir: get("assembly-dir"),
	}
	if fs.in == "" || fs.out == "" {
		cmd.Help()
		log.Fatal("both --in and --out are required")
	}
	if fs.assemblyDir == "" {
		fs.assemblyDir = fs.in
	}

	if f := cmd.Flags().Lookup("all"); f != nil {
		fs.all, _ = cmd.Flags().GetBool("all")
	}
	if fs.all {
		return fs, conf
	}

	combo, err := config.NewCombo(get("tech"), get("assembler"))
	if err != nil {
		cmd.Help()
		log.Fatal(err)
	}
	fs.combo = combo

	return fs, conf
}

// withCombo returns a copy of the flags for another combination.
func (f *Flags) withCombo(combo config.Combo) *Flags {
	c := *f
	c.combo = combo
	return &c
}

// inDir is the combination's directory under the input root. It must exist.
func (f *Flags) inDir() (string, error) {
	dir := filepath.Join(f.in, f.combo.String())
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("failed to find input directory %s: %v", dir, err)
	}
	return dir, nil
}

// outDir is the combination's directory under the output root, created if missing.
func (f *Flags) outDir() (string, error) {
	dir := filepath.Join(f.out, f.combo.String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %v", dir, err)
	}
	return dir, nil
}

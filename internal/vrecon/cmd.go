package vrecon

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NormalizeCmd takes a cobra command (with its flags) and runs Normalize.
func NormalizeCmd(cmd *cobra.Command, args []string) {
	if _, err := Normalize(parseCmdFlags(cmd)); err != nil {
		log.Fatal(err)
	}
}

// ConsensusCmd takes a cobra command (with its flags) and runs Consensus.
func ConsensusCmd(cmd *cobra.Command, args []string) {
	if _, err := Consensus(parseCmdFlags(cmd)); err != nil {
		log.Fatal(err)
	}
}

// ScoresCmd takes a cobra command (with its flags) and runs Scores.
func ScoresCmd(cmd *cobra.Command, args []string) {
	if _, err := Scores(parseCmdFlags(cmd)); err != nil {
		log.Fatal(err)
	}
}

// ExtractCmd takes a cobra command (with its flags) and runs Extract.
func ExtractCmd(cmd *cobra.Command, args []string) {
	if _, _, err := Extract(parseCmdFlags(cmd)); err != nil {
		log.Fatal(err)
	}
}

// RunCmd takes a cobra command (with its flags) and runs every stage for one
// combination, or for all of them with --all. A summary is written to stdout.
func RunCmd(cmd *cobra.Command, args []string) {
	flags, conf := parseCmdFlags(cmd)

	if !flags.all {
		m, err := Run(flags, conf)
		if err != nil {
			log.Fatal(err)
		}
		writeSummary(os.Stdout, map[string]*Manifest{m.Combo: m})
		return
	}

	manifests, err := RunAll(flags, conf)
	writeSummary(os.Stdout, manifests)
	if err != nil {
		log.Fatal(err)
	}
}

// writeSummary writes one line per combination and stage with its counts.
func writeSummary(out io.Writer, manifests map[string]*Manifest) {
	var combos []string
	for c := range manifests {
		combos = append(combos, c)
	}
	sort.Strings(combos)

	w := tabwriter.NewWriter(out, 0, 4, 3, ' ', 0)
	fmt.Fprintf(w, "combo\tstage\tcounts\twarnings\tseconds\t\n")
	for _, c := range combos {
		m := manifests[c]
		for _, name := range StageNames {
			s, ok := m.Stages[name]
			if !ok {
				continue
			}

			var counts []string
			for k, v := range s.Counts {
				counts = append(counts, fmt.Sprintf("%s=%d", k, v))
			}
			sort.Strings(counts)

			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t\n", c, name, strings.Join(counts, " "), s.Warnings, s.Execution)
		}
	}
	w.Flush()
}

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vrecon/vrecon/internal/vrecon"
)

var (
	inHelp = `root of the tool predictions (normalize, run) or of a
previous stage's output (consensus, scores, extract)`

	assemblyHelp = `directory with the filtered assembly FASTA of each combination,
named <tech>.<assembler>.fa(.gz) (defaults to --in; candidates.fasta is never
read as the assembly)`

	policyHelp = `boundary policy for overlapping calls: union, intersect or edgewise`
)

// settingsFlags maps a viper settings key to the flag that overrides it.
var settingsFlags = map[string]string{
	"merge-policy":   "policy",
	"merge-gap":      "gap",
	"strand-aware":   "strand-aware",
	"extract-labels": "labels",
	"min-support":    "min-support",
}

// normalizeCmd is for converting each tool's raw output into the interval table
var normalizeCmd = &cobra.Command{
	Use:                        "normalize",
	Short:                      "Normalize tool outputs into one interval table",
	Run:                        vrecon.NormalizeCmd,
	PreRun:                     bindSettings,
	SuggestionsMinimumDistance: 3,
	Long: `Read each detection tool's output for one (technology, assembler)
combination and write a single table of 0-based half-open intervals.
Missing tool outputs and malformed records are logged and skipped.`,
	Aliases: []string{"norm"},
}

// consensusCmd is for merging overlapping intervals into consensus regions
var consensusCmd = &cobra.Command{
	Use:                        "consensus",
	Short:                      "Merge intervals into consensus regions",
	Run:                        vrecon.ConsensusCmd,
	PreRun:                     bindSettings,
	SuggestionsMinimumDistance: 3,
	Long: `Merge overlapping (or nearby, with --gap) intervals on each contig into
non-overlapping consensus regions. Writes a region table and a GFF file.`,
	Aliases: []string{"merge"},
}

// scoresCmd is for building the region by tool score matrix
var scoresCmd = &cobra.Command{
	Use:                        "scores",
	Short:                      "Build the score matrix of consensus regions",
	Run:                        vrecon.ScoresCmd,
	PreRun:                     bindSettings,
	SuggestionsMinimumDistance: 3,
	Long: `Fill one row per consensus region with the best score of every declared
tool and label each region by the classes of its supporting tools.`,
	Aliases: []string{"matrix"},
}

// extractCmd is for writing consensus region sequences to FASTA
var extractCmd = &cobra.Command{
	Use:                        "extract",
	Short:                      "Extract consensus region sequences from the assembly",
	Run:                        vrecon.ExtractCmd,
	PreRun:                     bindSettings,
	SuggestionsMinimumDistance: 3,
	Long: `Slice every consensus region from the filtered assembly and write them
as FASTA. Fails if the regions, score matrix and assembly disagree.`,
}

// runCmd is for running every stage in order
var runCmd = &cobra.Command{
	Use:                        "run",
	Short:                      "Run normalize, consensus, scores and extract",
	Run:                        vrecon.RunCmd,
	PreRun:                     bindSettings,
	SuggestionsMinimumDistance: 3,
	Long: `Run every stage for one (technology, assembler) combination, or for all
deployed combinations with --all. With --all, a failed combination is logged
and the rest still run.`,
	Example: "  vrecon run -i predictions -o consolidated -t illumina -a megahit",
}

// set flags
func init() {
	for _, c := range []*cobra.Command{normalizeCmd, consensusCmd, scoresCmd, extractCmd, runCmd} {
		c.Flags().StringP("in", "i", "", inHelp)
		c.Flags().StringP("out", "o", "", "output root, one directory per combination")
		c.Flags().StringP("tech", "t", "", "sequencing technology: illumina, pacbio or ont")
		c.Flags().StringP("assembler", "a", "", "assembler: megahit, spades, flye, hifiasm or autocycler")
		c.Flags().StringP("assembly-dir", "f", "", assemblyHelp)

		RootCmd.AddCommand(c)
	}

	for _, c := range []*cobra.Command{consensusCmd, runCmd} {
		c.Flags().StringP("policy", "p", "", policyHelp)
		c.Flags().IntP("gap", "g", 0, "merge calls closer than this many bp")
	}

	for _, c := range []*cobra.Command{extractCmd, runCmd} {
		c.Flags().Bool("strand-aware", false, "reverse complement minus strand regions")
		c.Flags().StringSliceP("labels", "l", nil, "only extract regions with these labels")
		c.Flags().IntP("min-support", "m", 1, "only extract regions with at least this many tools")
	}

	runCmd.Flags().Bool("all", false, "run every deployed combination")
}

// bindSettings binds the running command's settings flags to viper. Binding
// happens per invocation since several commands share a key.
func bindSettings(cmd *cobra.Command, args []string) {
	for key, name := range settingsFlags {
		if f := cmd.Flags().Lookup(name); f != nil {
			viper.BindPFlag(key, f)
		}
	}
}

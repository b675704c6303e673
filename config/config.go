// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"bytes"
	_ "embed" // default settings
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// defaultSettings is the settings.yaml shipped with the binary. A user's
// --settings file is merged over it.
//
//go:embed settings.yaml
var defaultSettings []byte

// ThresholdConfig holds the minimum scores for whole-contig classifiers.
type ThresholdConfig struct {
	// minimum PhaMerScore * Proportion for a PhaBOX call
	PhaboxMin float64 `mapstructure:"phabox-min"`

	// minimum PLASMe score for a plasmid call
	PlasmeMin float64 `mapstructure:"plasme-min"`

	// minimum softmax probability for a DeepMicroClass prokaryote virus call
	DeepmcPhageMin float64 `mapstructure:"deepmc-phage-min"`

	// minimum softmax probability for a DeepMicroClass plasmid call
	DeepmcPlasmidMin float64 `mapstructure:"deepmc-plasmid-min"`
}

// Config is the root-level settings struct and is a mix
// of settings available in settings.yaml and those
// available from the command line
type Config struct {
	// Tools is the ordered list of declared tool ids. It fixes the
	// score matrix's column order
	Tools []string `mapstructure:"tools"`

	// ToolClasses maps a class (phage, plasmid, other) to its tools
	ToolClasses map[string][]string `mapstructure:"tool-classes"`

	// Thresholds for whole-contig classifiers
	Thresholds ThresholdConfig `mapstructure:"thresholds"`

	// MergePolicy is the boundary policy for overlapping calls
	MergePolicy string `mapstructure:"merge-policy"`

	// MergeGap is the distance (bp) under which non-overlapping calls merge
	MergeGap int `mapstructure:"merge-gap"`

	// EdgeTolerance is the bp window for edgewise boundary agreement
	EdgeTolerance int `mapstructure:"edge-tolerance"`

	// Absent is the score matrix sentinel for "no call"
	Absent string `mapstructure:"absent"`

	// FastaWidth is the line width of extracted FASTA records
	FastaWidth int `mapstructure:"fasta-width"`

	// StrandAware reverse complements minus strand regions on extraction
	StrandAware bool `mapstructure:"strand-aware"`

	// ExtractLabels limits extraction to regions with these labels
	ExtractLabels []string `mapstructure:"extract-labels"`

	// MinSupport limits extraction to regions with this many tools
	MinSupport int `mapstructure:"min-support"`

	// Verbose logs debug output
	Verbose bool `mapstructure:"verbose"`
}

// New returns a new Config struct populated by the embedded
// settings.yaml, a user settings file (--settings) and any
// flags bound to viper
func New() *Config {
	viper.SetConfigType("yaml")
	if err := viper.ReadConfig(bytes.NewBuffer(defaultSettings)); err != nil {
		log.Fatalf("failed to read default settings: %v", err)
	}

	if userSettings := viper.GetString("settings"); userSettings != "" {
		viper.SetConfigFile(userSettings)
		if err := viper.MergeInConfig(); err != nil {
			log.Fatalf("failed to read settings file %s: %v", userSettings, err)
		}
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		log.Fatalf("unable to decode into struct, %v", err)
	}

	if err := c.Validate(); err != nil {
		log.Fatalf("invalid settings: %v", err)
	}

	return c
}

// Validate checks the settings that every stage depends on.
func (c *Config) Validate() error {
	if len(c.Tools) == 0 {
		return fmt.Errorf("no tools declared")
	}

	seen := make(map[string]bool)
	for _, t := range c.Tools {
		if seen[t] {
			return fmt.Errorf("tool %s declared twice", t)
		}
		seen[t] = true
	}

	for class, tools := range c.ToolClasses {
		for _, t := range tools {
			if !seen[t] {
				return fmt.Errorf("tool %s in class %s is not declared", t, class)
			}
		}
	}

	if c.MergeGap < 0 {
		return fmt.Errorf("merge-gap must be >= 0, got %d", c.MergeGap)
	}

	if c.FastaWidth < 1 {
		return fmt.Errorf("fasta-width must be > 0, got %d", c.FastaWidth)
	}

	return nil
}

// Declared returns whether the tool is one of the declared tools.
func (c *Config) Declared(tool string) bool {
	for _, t := range c.Tools {
		if t == tool {
			return true
		}
	}
	return false
}

// ToolClass returns the class (phage, plasmid, other) of a tool or
// an empty string if it isn't in any.
func (c *Config) ToolClass(tool string) string {
	for class, tools := range c.ToolClasses {
		for _, t := range tools {
			if t == tool {
				return class
			}
		}
	}
	return ""
}

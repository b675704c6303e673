// Package cmd is for command line interactions with the vrecon application
package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "vrecon",
	Short: `Reconcile viral and plasmid predictions across detection tools.
Merge calls into consensus regions, score them and extract their sequences`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	// settings is an optional settings file merged over the embedded defaults
	RootCmd.PersistentFlags().StringP("settings", "s", "", "settings file (YAML)")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output")
	viper.BindPFlag("settings", RootCmd.PersistentFlags().Lookup("settings"))
	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))
}

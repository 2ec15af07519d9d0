// Package cmd is for command line interactions with the rafft application
package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "rafft",
	Short: `Predict RNA secondary structure and approximate folding pathways.
Candidate helices are scored for all offsets at once with an FFT-based
correlation, then grown into a tree of structures ranked by free energy`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

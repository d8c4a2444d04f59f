// Package cmd provides the command-line interface for memsim.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "memsim",
	Short: "memsim simulates memory systems cycle by cycle.",
	Long: `memsim builds a memory system from a JSON config, drives it with ` +
		`random reads and writes, and checks that every response carries ` +
		`the expected data.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

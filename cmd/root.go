// Package cmd wires the shapetrace CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shapetrace",
	Short: "Discover the wire shape of sum-typed schemas by exhaustive sampling",
	Long: `shapetrace repeatedly constructs sample values of a schema's root type
until every enum variant, including variants of nested and self-referential
enums, has been realized at least once, then emits the discovered format
registry and a coverage report.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

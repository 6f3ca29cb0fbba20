package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentic-research/shapetrace/internal/ingest"
)

var checkCmd = &cobra.Command{
	Use:   "check [schema.json]",
	Short: "Validate a schema document and list its types",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := ingest.LoadSchema(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (root %s)\n", args[0], schema.Root)
		for _, name := range schema.TypeNames() {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-24s %s\n", name, schema.Types[name].Kind())
		}
		return nil
	},
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

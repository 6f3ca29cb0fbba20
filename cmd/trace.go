package cmd

import (
	"fmt"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/agentic-research/shapetrace/internal/ingest"
	"github.com/agentic-research/shapetrace/internal/sample"
)

var (
	traceFormat    string
	traceRoot      string
	traceReport    bool
	traceSample    bool
	traceMaxPasses int
	traceOutput    string
)

var traceCmd = &cobra.Command{
	Use:   "trace [schema.json]",
	Short: "Trace a schema to full enum coverage and emit the format registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := ingest.LoadSchema(args[0])
		if err != nil {
			return err
		}
		if traceRoot != "" {
			schema.Root = traceRoot
			if err := schema.Validate(); err != nil {
				return err
			}
		}

		sampler := sample.New(schema)
		sampler.MaxPasses = traceMaxPasses
		result, err := sampler.Trace()
		if err != nil {
			return err
		}

		var out []byte
		switch traceFormat {
		case "yaml":
			out, err = yaml.Marshal(result.Registry)
			if err != nil {
				return fmt.Errorf("encode registry: %w", err)
			}
		case "json":
			out = []byte(oj.JSON(result.Registry, 2))
		default:
			return fmt.Errorf("unknown format %q (want yaml or json)", traceFormat)
		}

		if traceOutput != "" {
			if err := writeFile(traceOutput, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s after %d passes\n", traceOutput, result.Passes)
		} else {
			fmt.Fprint(cmd.OutOrStdout(), string(out))
		}

		if traceReport {
			fmt.Fprintf(cmd.OutOrStdout(), "\ncoverage after %d passes:\n%s", result.Passes, result.Report.Summary())
		}
		if traceSample {
			fmt.Fprintf(cmd.OutOrStdout(), "\nsample value:\n%s\n", oj.JSON(result.Sample, 2))
		}
		return nil
	},
}

func init() {
	traceCmd.Flags().StringVarP(&traceFormat, "format", "f", "yaml", "Registry output format (yaml|json)")
	traceCmd.Flags().StringVarP(&traceOutput, "output", "o", "", "Write the registry to a file instead of stdout")
	traceCmd.Flags().StringVar(&traceRoot, "root", "", "Override the schema's root type")
	traceCmd.Flags().BoolVar(&traceReport, "report", false, "Print the per-enum coverage table")
	traceCmd.Flags().BoolVar(&traceSample, "sample", false, "Print the final sample value as JSON")
	traceCmd.Flags().IntVar(&traceMaxPasses, "max-passes", 0, "Cap on sampling passes (0 = default)")
	rootCmd.AddCommand(traceCmd)
}

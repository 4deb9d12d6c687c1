package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/credsift/internal/config"
	"github.com/bimmerbailey/credsift/internal/output"
	"github.com/bimmerbailey/credsift/internal/pipeline"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <input> <output>",
	Short: "Normalize a credential dump into a JSONL record stream",
	Long: `Normalize reads a credential dump line by line, classifies each line,
and writes one JSON record per extracted credential to the output file.
Lines that classify as headers, comments, separators, or garbage are
counted but produce no record. Use "-" as the output path to write
records to stdout.

A processing report is printed to stderr when the run completes.`,
	Args: cobra.ExactArgs(2),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().Float64P("min-confidence", "m", 0.5, "minimum confidence for emitted records (0.0-1.0)")
	_ = viper.BindPFlag("min_confidence", normalizeCmd.Flags().Lookup("min-confidence"))
}

func runNormalize(cmd *cobra.Command, args []string) error {
	inputPath, outputPath := args[0], args[1]

	heur, err := heuristicsFromConfig()
	if err != nil {
		return err
	}

	normalizer, err := pipeline.New(viper.GetFloat64("min_confidence"), heur)
	if err != nil {
		return err
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "-" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	stats, err := normalizeStream(in, out, normalizer)
	if err != nil {
		return err
	}

	writeReport(cmd.ErrOrStderr(), inputPath, stats)
	return nil
}

// normalizeStream runs the pipeline from r to w, emitting JSONL records.
func normalizeStream(r io.Reader, w io.Writer, n *pipeline.Normalizer) (config.Stats, error) {
	records := output.NewRecordWriter(w)
	return n.Run(r, records.Write)
}

// writeReport prints the per-file processing report.
func writeReport(w io.Writer, path string, stats config.Stats) {
	writer := output.New(w, output.ParseFormat(viper.GetString("format")))
	fmt.Fprintf(w, "Processed %s\n", path)
	_ = writer.WriteStats(stats)
}

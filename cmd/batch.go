package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/credsift/internal/config"
	"github.com/bimmerbailey/credsift/internal/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch <pattern> <output-dir>",
	Short: "Normalize every dump matching a glob pattern",
	Long: `Batch expands a glob pattern, normalizes each matching dump, and writes
one <name>_normalized.jsonl file per input into the output directory.
A failing file is reported and skipped; the remaining files still run.
Aggregated statistics are printed when all files have been processed.

Example:
  credsift batch "./dumps/*.txt" ./normalized/`,
	Args: cobra.ExactArgs(2),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Float64P("min-confidence", "m", 0.5, "minimum confidence for emitted records (0.0-1.0)")
	_ = viper.BindPFlag("min_confidence", batchCmd.Flags().Lookup("min-confidence"))
}

func runBatch(cmd *cobra.Command, args []string) error {
	pattern, outDir := args[0], args[1]

	files, err := config.ExpandGlobs([]string{pattern})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	heur, err := heuristicsFromConfig()
	if err != nil {
		return err
	}

	normalizer, err := pipeline.New(viper.GetFloat64("min_confidence"), heur)
	if err != nil {
		return err
	}

	total := config.NewStats()
	failed := 0

	for _, path := range files {
		outPath := filepath.Join(outDir, outputName(path))

		stats, err := normalizeFile(path, outPath, normalizer)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "Failed %s: %v\n", path, err)
			continue
		}

		if viper.GetBool("verbose") {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d credentials from %d lines\n",
				path, stats.ValidCredentials, stats.TotalLines)
		}
		total.Add(stats)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Processed %d file(s), %d failed\n", len(files)-failed, failed)
	writeReport(cmd.ErrOrStderr(), pattern, total)
	return nil
}

// outputName derives the per-file output name: dump.txt -> dump_normalized.jsonl.
func outputName(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "_normalized.jsonl"
}

func normalizeFile(inputPath, outputPath string, n *pipeline.Normalizer) (config.Stats, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return config.Stats{}, err
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return config.Stats{}, err
	}
	defer out.Close()

	return normalizeStream(in, out, n)
}

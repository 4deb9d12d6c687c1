package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/credsift/internal/config"
	"github.com/bimmerbailey/credsift/internal/output"
	"github.com/bimmerbailey/credsift/internal/pipeline"
)

var statsCmd = &cobra.Command{
	Use:   "stats <input>",
	Short: "Report line category statistics for a dump without writing records",
	Long: `Stats runs the full classification pass over a dump and reports how many
lines fall into each category, without writing any credential records.
Use it to judge dump quality before a normalization run.`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Float64P("min-confidence", "m", 0.5, "minimum confidence for counting a credential as valid (0.0-1.0)")
	_ = viper.BindPFlag("min_confidence", statsCmd.Flags().Lookup("min-confidence"))
}

func runStats(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

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

	// Discard the records; only the counters matter here.
	stats, err := normalizer.Run(in, func(config.CredentialEntry) error { return nil })
	if err != nil {
		return err
	}

	writer := output.New(cmd.OutOrStdout(), output.ParseFormat(viper.GetString("format")))
	return writer.WriteStats(stats)
}

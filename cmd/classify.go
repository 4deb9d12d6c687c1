package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/credsift/internal/classify"
	"github.com/bimmerbailey/credsift/internal/config"
	"github.com/bimmerbailey/credsift/internal/features"
	"github.com/bimmerbailey/credsift/internal/output"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <line>",
	Short: "Classify a single line and show the matched rules",
	Long: `Classify runs the rule classifier against one line given on the command
line and reports the category, confidence, and which rules fired. Useful
for debugging why a dump line was or was not treated as a credential.

Example:
  credsift classify "admin@example.com:5f4dcc3b5aa765d61d8327deb882cf99"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	line := strings.Join(args, " ")

	heur, err := heuristicsFromConfig()
	if err != nil {
		return err
	}
	classifier := classifierFor(heur)
	result := classifier.Classify(line, features.Extract(line))

	format := output.ParseFormat(viper.GetString("format"))
	if format == output.FormatJSON {
		writer := output.New(cmd.OutOrStdout(), format)
		return writer.WriteJSON(result)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Category:   %s\n", result.Category)
	fmt.Fprintf(out, "Confidence: %.2f\n", result.Confidence)
	if len(result.MatchedRules) > 0 {
		fmt.Fprintf(out, "Rules:      %s\n", strings.Join(result.MatchedRules, ", "))
	}
	return nil
}

// classifierFor builds a classifier, falling back to the shipped calibration
// when the config carries no heuristics at all.
func classifierFor(heur config.Heuristics) *classify.Classifier {
	if heur == (config.Heuristics{}) {
		heur = config.DefaultHeuristics()
	}
	return classify.New(heur)
}

package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/credsift/internal/decode"
	"github.com/bimmerbailey/credsift/internal/features"
	"github.com/bimmerbailey/credsift/internal/output"
)

var previewCmd = &cobra.Command{
	Use:   "preview <input>",
	Short: "Show how the first lines of a dump would classify",
	Long: `Preview classifies the first N lines of a dump without writing any
records. Each line is printed with its number, an extractability marker,
the detected category, and the confidence score. Output is colorized
when stdout is a terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().IntP("lines", "n", 20, "number of lines to preview")
	previewCmd.Flags().Bool("no-color", false, "disable colored output")
	_ = viper.BindPFlag("preview_lines", previewCmd.Flags().Lookup("lines"))
}

func runPreview(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	maxLines := viper.GetInt("preview_lines")
	if maxLines <= 0 {
		return fmt.Errorf("line count must be positive, got %d", maxLines)
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	mode := output.ColorAuto
	if noColor {
		mode = output.ColorNever
	}

	heur, err := heuristicsFromConfig()
	if err != nil {
		return err
	}
	classifier := classifierFor(heur)

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	writer := output.New(cmd.OutOrStdout(), output.FormatText)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() && lineNum < maxLines {
		lineNum++
		line := decode.Line(scanner.Bytes())

		result := classifier.Classify(line, features.Extract(line))
		if err := writer.WritePreviewLine(lineNum, result.Category, result.Confidence, line, mode); err != nil {
			return err
		}
	}

	return scanner.Err()
}

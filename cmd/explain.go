package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/credsift/internal/decode"
	"github.com/bimmerbailey/credsift/internal/features"
	"github.com/bimmerbailey/credsift/internal/llm"
	"github.com/bimmerbailey/credsift/internal/output"
	"github.com/bimmerbailey/credsift/internal/pipeline"
)

var explainCmd = &cobra.Command{
	Use:   "explain <input>",
	Short: "Ask a local LLM to describe line formats the normalizer rejected",
	Long: `Explain collects a sample of lines that classified below the confidence
threshold or failed extraction, then asks a local LLM (via Ollama) to
describe their format and suggest how they could be parsed.

The core normalizer never consults the LLM; this command is a separate,
opt-in diagnostic for dumps with unrecognized layouts.

Examples:
  credsift explain dump.txt
  credsift explain dump.txt --sample 50 --min-confidence 0.7`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)

	explainCmd.Flags().Int("sample", 25, "maximum number of rejected lines to send")
	explainCmd.Flags().Float64P("min-confidence", "m", 0.5, "confidence threshold used to pick rejected lines")
	_ = viper.BindPFlag("min_confidence", explainCmd.Flags().Lookup("min-confidence"))
}

func runExplain(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	sampleSize, _ := cmd.Flags().GetInt("sample")
	if sampleSize <= 0 {
		return fmt.Errorf("sample size must be positive, got %d", sampleSize)
	}

	verbose := viper.GetBool("verbose")
	ctx := cmd.Context()

	heur, err := heuristicsFromConfig()
	if err != nil {
		return err
	}

	normalizer, err := pipeline.New(viper.GetFloat64("min_confidence"), heur)
	if err != nil {
		return err
	}

	sample, err := collectRejected(inputPath, normalizer, sampleSize)
	if err != nil {
		return err
	}
	if len(sample) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No rejected lines found; the dump normalizes cleanly.")
		return nil
	}

	logLevel := slog.LevelError
	if verbose {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider, err := llm.NewProvider(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w\n\nTroubleshooting:\n- Ensure Ollama is running: ollama serve\n- Check provider config in ~/.credsift.yaml", err)
	}

	if err := provider.Heartbeat(ctx); err != nil {
		return fmt.Errorf("cannot connect to Ollama at %s: %w\n\nStart Ollama with: ollama serve",
			cfg.LLM.Ollama.Host, err)
	}

	messages := []llm.Message{
		{Role: "system", Content: buildExplainSystemPrompt()},
		{Role: "user", Content: buildExplainUserPrompt(inputPath, sample)},
	}

	chatOpts := &llm.ChatOptions{
		Model:       cfg.LLM.Ollama.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}

	stream, err := provider.ChatStream(ctx, messages, chatOpts)
	if err != nil {
		return fmt.Errorf("failed to start LLM stream: %w", err)
	}

	format := output.ParseFormat(viper.GetString("format"))
	if format == output.FormatText {
		fmt.Fprintf(cmd.OutOrStdout(), "=== Format Analysis (%d sampled lines) ===\n\n", len(sample))
	}

	var fullResponse strings.Builder
	for event := range stream {
		if event.Error != nil {
			if fullResponse.Len() > 0 {
				fmt.Fprintf(os.Stderr, "\n\nError during streaming: %v\n", event.Error)
			}
			return event.Error
		}
		if event.Content != "" {
			if format == output.FormatText {
				fmt.Fprint(cmd.OutOrStdout(), event.Content)
			}
			fullResponse.WriteString(event.Content)
		}
	}

	if format == output.FormatText {
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	}

	result := map[string]interface{}{
		"file":          inputPath,
		"sampled_lines": len(sample),
		"analysis":      fullResponse.String(),
		"metadata": map[string]string{
			"provider": cfg.LLM.Provider,
			"model":    chatOpts.Model,
		},
	}
	writer := output.New(cmd.OutOrStdout(), output.FormatJSON)
	return writer.WriteJSON(result)
}

// rejectedLine is one sampled input line the normalizer could not use.
type rejectedLine struct {
	LineNumber int
	Category   string
	Confidence float64
	Text       string
}

// collectRejected scans the dump and samples lines that look like
// credentials but fell below the confidence threshold, plus garbage lines
// that carry delimited fields and so might be an unrecognized format.
func collectRejected(path string, n *pipeline.Normalizer, limit int) ([]rejectedLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	var sample []rejectedLine

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() && len(sample) < limit {
		lineNum++
		line := decode.Line(scanner.Bytes())
		if line == "" {
			continue
		}

		entry, result := n.NormalizeLine(line, lineNum)
		if entry != nil {
			continue
		}

		interesting := result.Confidence < n.MinConfidence() ||
			features.Extract(line).FieldCount >= 2
		if !interesting {
			continue
		}

		sample = append(sample, rejectedLine{
			LineNumber: lineNum,
			Category:   string(result.Category),
			Confidence: result.Confidence,
			Text:       truncateLine(line, 200),
		})
	}

	return sample, scanner.Err()
}

func truncateLine(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

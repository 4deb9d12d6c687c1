package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/credsift/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "credsift",
	Short: "Parse and normalize credential dumps",
	Long: `Credsift ingests poorly formatted credential dumps and emits a
normalized JSONL record stream with per-record confidence scores.

Classification is deterministic: each line is scored by a table of
heuristic rules over extracted features (character ratios, entropy,
delimiters, pattern matches) and either normalized or counted as noise.

Examples:
  credsift normalize dump.txt output.jsonl --min-confidence 0.7
  credsift batch "./dumps/*.txt" ./output/
  credsift preview dump.txt --lines 50
  credsift stats dump.txt --format table`,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.credsift.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "output format (text, json, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".credsift")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CREDSIFT")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("format", "text")
	viper.SetDefault("verbose", false)
	viper.SetDefault("min_confidence", 0.5)
	viper.SetDefault("preview_lines", 20)
	viper.SetDefault("heuristics.email_hash_weight", 0.95)
	viper.SetDefault("heuristics.email_field_weight", 0.90)
	viper.SetDefault("heuristics.hash_field_weight", 0.85)
	viper.SetDefault("heuristics.username_pair_weight", 0.70)
	viper.SetDefault("heuristics.bare_pattern_weight", 0.50)
	viper.SetDefault("heuristics.separator_weight", 0.90)
	viper.SetDefault("heuristics.header_weight", 0.80)
	viper.SetDefault("heuristics.footer_weight", 0.70)
	viper.SetDefault("heuristics.comment_weight", 0.90)
	viper.SetDefault("heuristics.low_entropy", 1.0)
	viper.SetDefault("heuristics.high_entropy", 5.5)
	viper.SetDefault("llm.provider", "ollama")
	viper.SetDefault("llm.ollama.host", "http://localhost:11434")
	viper.SetDefault("llm.ollama.model", "llama3.2")

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// heuristicsFromConfig loads the classifier calibration from viper. Keys not
// present in the config file keep the viper defaults set in initConfig.
func heuristicsFromConfig() (config.Heuristics, error) {
	heur := config.DefaultHeuristics()
	if err := viper.UnmarshalKey("heuristics", &heur); err != nil {
		return heur, fmt.Errorf("invalid heuristics configuration: %w", err)
	}
	return heur, nil
}

// loadConfig unmarshals the full viper state into a Config.
func loadConfig() (*config.Config, error) {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

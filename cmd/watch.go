package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/credsift/internal/output"
	"github.com/bimmerbailey/credsift/internal/pipeline"
	"github.com/bimmerbailey/credsift/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Follow a growing dump and stream records as lines arrive",
	Long: `Watch follows a dump file like "tail -f", normalizing each newly
appended line and streaming JSONL records to stdout. By default only
lines appended after startup are processed; use --from-start to
normalize the existing content first. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Bool("from-start", false, "process existing file content before following")
	watchCmd.Flags().Bool("follow-rotate", false, "keep following through file rotation")
	watchCmd.Flags().Float64P("min-confidence", "m", 0.5, "minimum confidence for emitted records (0.0-1.0)")
	_ = viper.BindPFlag("min_confidence", watchCmd.Flags().Lookup("min-confidence"))
}

func runWatch(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	fromStart, _ := cmd.Flags().GetBool("from-start")
	followRotate, _ := cmd.Flags().GetBool("follow-rotate")

	heur, err := heuristicsFromConfig()
	if err != nil {
		return err
	}

	normalizer, err := pipeline.New(viper.GetFloat64("min_confidence"), heur)
	if err != nil {
		return err
	}

	records := output.NewRecordWriter(cmd.OutOrStdout())

	watcher := watch.New(watch.Options{
		FilePath:     filePath,
		FromStart:    fromStart,
		FollowRotate: followRotate,
		EmitFunc:     records.Write,
	}, normalizer)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(cmd.ErrOrStderr(), "\nStopping...")
		cancel()
	}()

	fmt.Fprintf(cmd.ErrOrStderr(), "==> Watching %s <==\n", filePath)
	return watcher.Run(ctx)
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/hindiname/internal/cli"
	"codeberg.org/snonux/hindiname/internal/models"
	"codeberg.org/snonux/hindiname/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	cli.ApplyConfig(flags)
	ctx := cmd.Context()

	logger, err := cli.NewLogger(flags.LogLevel, flags.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels(ctx, os.Stdout, flags.OpenAIModel)
	}

	// Create processor
	proc, err := processor.NewProcessor(flags, logger, os.Stdout)
	if err != nil {
		return err
	}
	defer proc.Close()

	switch {
	case flags.ListTemplates:
		proc.ListTemplates()
	case flags.ListTerms:
		proc.ListTerms()
	case flags.Lookup != "":
		return proc.Lookup(ctx, flags.Lookup)
	case flags.ListFlagged:
		return proc.ListFlagged(ctx)
	case flags.BatchFile != "":
		return proc.ProcessBatch(ctx)
	case len(args) > 0:
		return proc.ProcessSingleName(ctx, args[0])
	default:
		return cmd.Help()
	}
	return nil
}

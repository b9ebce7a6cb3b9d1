package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fxstory/internal/app"
)

const shutdownTimeout = 10 * time.Second

// Execute runs the command line and returns the process exit status.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	rootCmd := &cobra.Command{
		Use:   "fxstory",
		Short: "Tell the story of the euro against the dollar and the real",
		Long: `fxstory reads the European Central Bank reference-rate history,
cleans it, computes rolling averages and renders one chart per
administration of the United States and Brazil.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runStory(ctx, cmd.OutOrStdout(), opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "YAML configuration file (default: $FXS_CONFIG or ./fxstory.yaml)")
	flags.StringVarP(&opts.InputPath, "input", "i", "", "rate history CSV (overrides input.path)")
	flags.StringVarP(&opts.OutputDir, "output", "o", "", "directory for charts and reports (overrides output.dir)")

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func runStory(ctx context.Context, out io.Writer, opts app.Options) error {
	application, err := app.NewApplication(opts)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = application.Shutdown(shutdownCtx)
	}()

	report, err := application.Run(ctx)
	if err != nil {
		return err
	}

	if report.State.Aborted {
		_, _ = fmt.Fprintf(out, "%s could not be loaded; see %s\n",
			report.State.InputPath, application.Paths.LogFile)
		return nil
	}
	for _, path := range report.State.Charts {
		_, _ = fmt.Fprintf(out, "chart  %s\n", path)
	}
	for _, path := range report.State.Reports {
		_, _ = fmt.Fprintf(out, "report %s\n", path)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the fxstory version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "fxstory version %s (build %s, %s)\n",
				app.Version, app.BuildID, app.BuildTime)
			return nil
		},
	}
}

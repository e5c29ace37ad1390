package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vertti/childproc/pkg/config"
	"github.com/vertti/childproc/pkg/output"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	debug bool
	cfg   *config.Config
)

var rootCmd = &cobra.Command{
	Use:               "childproc",
	Short:             "Spawn child processes and drain their pipes without blocking",
	Long:              "Childproc runs child processes with piped stdio, polls their output without ever blocking, and reports how they exited.",
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	if cfg, err = config.Parse(); err != nil {
		return err
	}
	logrus.SetOutput(cmd.ErrOrStderr())
	cfg.ConfigureLogging(debug)
	if cfg.NoColor {
		output.DisableColor()
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var exitErr *ExitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

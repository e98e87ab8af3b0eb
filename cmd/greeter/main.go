package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/0xReLogic/Greeter/internal/environ"
	"github.com/0xReLogic/Greeter/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "greeter",
	Short:         "Serve Hello, World! over HTTP",
	Long:          "Print the process environment, then answer GET / with Hello, World!",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return run(ctx, options{
			configPath:     configPath,
			configRequired: cmd.Flags().Changed("config"),
			stdout:         cmd.OutOrStdout(),
			env:            environ.OS(),
		})
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "greeter.yaml", "path to the YAML config file")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		l := logging.L()
		l.Error().Err(err).Msg("greeter exited")
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/denizgursoy/kosu/internal/logging"
	"github.com/denizgursoy/kosu/pkg/kosu"
)

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

type rootOptions struct {
	logLevel  string
	logFormat string
}

// logger builds the logger selected by the persistent flags, writing to
// the command's error output.
func (o *rootOptions) logger(cmd *cobra.Command) (*slog.Logger, error) {
	return logging.New(o.logLevel, o.logFormat, cmd.ErrOrStderr())
}

// newRootCmd creates the kosu command with all of its subcommands.
func newRootCmd() *cobra.Command {
	options := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "kosu",
		Short: "Generate and run kosu test entry points",
		Long: `kosu runs specifications of tests and Gherkin feature files through a
single engine. The gen command scans Go sources for @kosu annotations and
writes the kosu_test.go file that runs them with go test.`,
		Version: kosu.Version,
		// Errors are printed once by Execute.
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate(`{{printf "kosu version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVar(&options.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&options.logFormat, "log-format", logging.FormatText, "log format: text or json")

	rootCmd.AddCommand(newGenCmd(options))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func execute(args []string) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "kosu:", err)
		return ExitCodeError
	}
	return ExitCodeSuccess
}

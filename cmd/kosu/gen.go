package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/denizgursoy/kosu/internal/comment_parser"
	"github.com/denizgursoy/kosu/internal/generator"
)

func newGenCmd(options *rootOptions) *cobra.Command {
	var (
		code string
		dir  string
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate the kosu test entry point",
		Long: `Scans the code directories for functions annotated with @kosu suite,
@kosu step, @kosu hooks and @kosu config and writes kosu_test.go into the
output directory. Run it again whenever annotations change.`,
		Example: `  kosu gen
  kosu gen --code ./steps,./suites --dir ./e2e`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := options.logger(cmd)
			if err != nil {
				return err
			}

			outputDir := dir
			if outputDir == "" {
				if outputDir, err = os.Getwd(); err != nil {
					return fmt.Errorf("could not get working directory: %w", err)
				}
			}

			g := generator.New(comment_parser.NewGoSourceFileParser(), logger)
			path, err := g.Run(cmd.Context(), generator.SplitDirectories(code), outputDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generated %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "comma separated directories to scan, the output directory by default")
	cmd.Flags().StringVar(&dir, "dir", "", "output directory, the working directory by default")
	return cmd
}

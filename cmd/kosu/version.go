package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denizgursoy/kosu/pkg/kosu"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of kosu",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kosu version %s\n", kosu.Version)
		},
	}
}

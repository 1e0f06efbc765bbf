package main

import (
	"fmt"
	"runtime"

	"github.com/njchilds90/gonewton"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of gonewton",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gonewton version %s (%s)\n", gonewton.Version, runtime.Version())
		},
	}
}

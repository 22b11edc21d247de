package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd prints the promptproxy version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "promptproxy %s\n", Version)
	},
}

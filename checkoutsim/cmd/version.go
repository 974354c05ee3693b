package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at link time.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of checkoutsim.",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "checkoutsim", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

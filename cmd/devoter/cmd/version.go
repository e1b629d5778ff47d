package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s\n", version.ToDetailVersion())
	},
}

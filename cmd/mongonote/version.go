package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notekeeper/mongonote"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mongonote",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mongonote version %s\n", mongonote.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

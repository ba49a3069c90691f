package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/notekeeper/mongonote"
)

var statusCmd = &cobra.Command{
	Use:   "status <password>",
	Short: "Connect and print the service state as JSON",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		password := requirePassword(args)

		service := connect(cmd.Context(), password, mongonote.WithReadOnly(true))

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(service.State()); err != nil {
			fatal("Failed to encode state", err)
		}

		closeService(service)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

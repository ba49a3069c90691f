package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var addImportant bool

var addCmd = &cobra.Command{
	Use:   "add <password> <content>",
	Short: "Save a new note dated now",
	Long: `Save a new note with the given content and the current date.
Extra arguments are joined with spaces, so quoting the content is optional.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		password := requirePassword(args)
		content := strings.TrimSpace(strings.Join(args[1:], " "))
		if content == "" {
			usageExit("Usage: " + cmd.UseLine())
		}

		service := connect(cmd.Context(), password)
		saved, err := service.AddNote(cmd.Context(), content, addImportant)
		if err != nil {
			fatal("Failed to save note", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "note saved!")
		cmd.PrintErrf("id: %s\n", saved.ID)
		closeService(service)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().BoolVar(&addImportant, "important", false, "Mark the note as important")
}

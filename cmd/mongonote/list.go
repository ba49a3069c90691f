package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/notekeeper/mongonote"
	"github.com/notekeeper/mongonote/pkg/core"
)

var (
	listFormat    string
	importantOnly bool
)

var listCmd = &cobra.Command{
	Use:   "list <password>",
	Short: "List all notes",
	Long: `List every note in store order. Same as running mongonote with only a password,
but usable when the password collides with a subcommand name.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runList(cmd, args)
	},
}

func runList(cmd *cobra.Command, args []string) {
	password := requirePassword(args)
	if err := checkFormat(listFormat); err != nil {
		usageExit(err.Error())
	}

	service := connect(cmd.Context(), password, mongonote.WithReadOnly(true))

	opts := core.ListOptions{ImportantOnly: importantOnly}
	if err := printListing(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), service, listFormat, opts); err != nil {
		fatal("Failed to list notes", err)
	}

	closeService(service)
}

// printListing writes the status line followed by the notes. For json and yaml
// the status line goes to status so that out holds a single document.
func printListing(ctx context.Context, out, status io.Writer, service *core.Service, format string, opts core.ListOptions) error {
	if format == formatText {
		status = out
	}
	fmt.Fprintln(status, "connected")

	notes, err := service.ListNotes(ctx, opts)
	if err != nil {
		return err
	}
	return printNotes(out, format, notes)
}

// addListFlags binds the listing flags to cmd; root and list share them.
func addListFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&listFormat, "format", "f", formatText, "Output format (text, json, yaml)")
	cmd.Flags().BoolVar(&importantOnly, "important", false, "Only list important notes")
}

func init() {
	rootCmd.AddCommand(listCmd)
	addListFlags(listCmd)
}

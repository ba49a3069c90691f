package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notekeeper/mongonote"
	lifecycleadapter "github.com/notekeeper/mongonote/pkg/adapters/lifecycle"
	"github.com/notekeeper/mongonote/pkg/core"
)

var watchImportant bool

var watchCmd = &cobra.Command{
	Use:   "watch <password>",
	Short: "Print note changes as they happen",
	Long: `Subscribe to the notes collection and print one line per change
(CREATE, MODIFY or DELETE) until interrupted. Requires a replica set or a
sharded cluster, as change streams are unavailable on standalone servers.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		password := requirePassword(args)

		streamErr := make(chan error, 1)
		service := connect(cmd.Context(), password,
			mongonote.WithReadOnly(true),
			mongonote.WithWatcherErrorHandler(func(err error) {
				select {
				case streamErr <- err:
				default:
				}
			}),
		)

		events, err := service.Watch(cmd.Context())
		if err != nil {
			fatal("Failed to watch notes", err)
		}

		var opts []lifecycleadapter.SourceOption
		if watchImportant {
			opts = append(opts, lifecycleadapter.WithFilter(func(e core.Event) bool {
				return e.Note == nil || e.Note.Important
			}))
		}
		source := lifecycleadapter.NewSource(events, opts...)
		if err := source.Start(cmd.Context()); err != nil {
			fatal("Failed to start event source", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "connected")
		for e := range source.Events() {
			fmt.Fprintln(out, formatEvent(e))
		}

		select {
		case err := <-streamErr:
			fatal("Change stream failed", err)
		default:
		}
		closeService(service)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchImportant, "important", false, "Only print changes to important notes")
}

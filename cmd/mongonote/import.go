package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/notekeeper/mongonote/pkg/adapters/seed"
	"github.com/notekeeper/mongonote/pkg/core"
)

var importWatch bool

var importCmd = &cobra.Command{
	Use:   "import <password> <pattern>",
	Short: "Save notes read from YAML, JSON or Markdown files",
	Long: `Load notes from every file matching the glob pattern and save them.
Patterns support "**" to descend into subdirectories, e.g. "seed/**/*.yaml".

With --watch the command keeps running and imports matching files again
whenever they are created or written, until interrupted.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		password := requirePassword(args)
		if len(args) < 2 {
			usageExit("Usage: " + cmd.UseLine())
		}
		pattern := args[1]

		loader := seed.NewLoader(slog.Default())
		notes, err := loader.Load(pattern)
		if err != nil {
			fatal("Failed to load seed files", err)
		}

		ctx := cmd.Context()
		service := connect(ctx, password)
		out := cmd.OutOrStdout()

		saved, err := saveAll(ctx, service, notes)
		if err != nil {
			fatal("Failed to import notes", err)
		}
		fmt.Fprintf(out, "imported %d notes\n", saved)

		if !importWatch {
			closeService(service)
			return
		}

		watcher := seed.NewWatcher(loader, pattern, func(ctx context.Context, path string, notes []core.Note) error {
			n, err := saveAll(ctx, service, notes)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "imported %d notes from %s\n", n, path)
			return nil
		})
		if err := watcher.Start(ctx); err != nil {
			fatal("Failed to watch seed files", err)
		}
		slog.Info("watching for changes", "pattern", pattern)

		<-ctx.Done()

		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := watcher.Stop(stopCtx); err != nil {
			slog.Warn("watcher did not stop cleanly", "error", err)
		}
		closeService(service)
	},
}

// saveAll stores notes in order and stops at the first failure.
func saveAll(ctx context.Context, service *core.Service, notes []core.Note) (int, error) {
	for i, n := range notes {
		if _, err := service.SaveNote(ctx, n); err != nil {
			return i, err
		}
	}
	return len(notes), nil
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVarP(&importWatch, "watch", "w", false, "Keep importing files as they change")
}

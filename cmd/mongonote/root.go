package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/greyxor/slogor"

	"github.com/notekeeper/mongonote"
	"github.com/notekeeper/mongonote/pkg/core"
)

var (
	verbose    bool
	user       string
	host       string
	database   string
	collection string
	scheme     string
	uriOptions string
	timeout    time.Duration
)

// rootCmd lists every note when called with just a password.
var rootCmd = &cobra.Command{
	Use:   "mongonote <password>",
	Short: "List the notes stored in the hosted MongoDB cluster",
	Long: `mongonote connects to the notes cluster with the given password,
prints "connected" and then one line per stored note.

With --format json or yaml, "connected" is written to stderr so that stdout
holds only the notes.

A password starting with "-" would be read as a flag; put it after "--":

  mongonote --format json -- -s3cret`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		slog.SetDefault(slog.New(slogor.NewHandler(os.Stderr, slogor.Options{
			Level:      level,
			TimeFormat: time.Stamp,
		})))
	},
	Run: func(cmd *cobra.Command, args []string) {
		runList(cmd, args)
	},
}

// Execute runs the root command with a context cancelled on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(exitUsage)
	}
}

func init() {
	defaults := mongonote.DefaultTarget("")

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&user, "user", defaults.User, "Database user")
	flags.StringVar(&host, "host", defaults.Host, "Cluster host")
	flags.StringVar(&database, "database", defaults.Database, "Database name")
	flags.StringVar(&collection, "collection", "notes", "Collection holding the notes")
	flags.StringVar(&scheme, "scheme", defaults.Scheme, "Connection string scheme (mongodb or mongodb+srv)")
	flags.StringVar(&uriOptions, "options", defaults.Options, "Connection string query options")
	flags.DurationVar(&timeout, "timeout", 0, "Connect and server selection timeout (0 keeps the driver default)")

	addListFlags(rootCmd)
}

// requirePassword returns the first positional argument or exits with usage.
// An empty string is still a password and is passed on as given.
func requirePassword(args []string) string {
	if len(args) == 0 {
		usageExit(usageText)
	}
	return args[0]
}

func targetFor(password string) mongonote.Target {
	return mongonote.Target{
		Scheme:   scheme,
		User:     user,
		Password: password,
		Host:     host,
		Database: database,
		Options:  uriOptions,
	}
}

// openService connects to the target built from the flags and password.
func openService(ctx context.Context, password string, opts ...mongonote.Option) (*core.Service, error) {
	target := targetFor(password)
	slog.Debug("connecting", "uri", target.Redacted())

	base := []mongonote.Option{
		mongonote.WithLogger(slog.Default()),
		mongonote.WithCollection(collection),
		mongonote.WithConnectTimeout(timeout),
	}
	return mongonote.New(ctx, target.URI(), append(base, opts...)...)
}

// connect opens the service or terminates the process with the runtime failure code.
func connect(ctx context.Context, password string, opts ...mongonote.Option) *core.Service {
	service, err := openService(ctx, password, opts...)
	if err != nil {
		fatal("Failed to connect", err)
	}
	return service
}

func closeService(service *core.Service) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := service.Close(ctx); err != nil {
		fatal("Failed to disconnect", err)
	}
}

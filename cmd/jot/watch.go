package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	jotlifecycle "github.com/aretw0/jot/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes made to the slot by other processes",
	Long: `Watch the slot for writes made outside this process and print one line per change.
Only the fs adapter supports watching.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		repo, _, err := openRepository(ctx, cmd)
		if err != nil {
			fatal("Failed to open store", err)
		}
		defer repo.Close()

		events, err := repo.Watch(ctx)
		if err != nil {
			fatal("Failed to watch", err)
		}

		source := jotlifecycle.NewSource(events, jotlifecycle.WithLister(repo))
		if err := source.Start(ctx); err != nil {
			fatal("Failed to start watcher", err)
		}

		fmt.Fprintln(os.Stderr, "Watching for changes. Press Ctrl+C to stop.")
		for e := range source.Events() {
			fmt.Printf("%s %s\n", time.Now().Format(time.TimeOnly), e)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

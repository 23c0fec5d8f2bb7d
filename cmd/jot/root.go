package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot/internal/platform"
	"github.com/aretw0/jot/pkg/core"
)

var (
	verbose  bool
	adapter  string
	home     string
	slotKey  string
	readOnly bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jot",
	Short: "A personal note store with CSV and XML exchange",
	Long: `jot keeps titled notes in a single key-value slot (a file, a bbolt database
or a MongoDB document) and moves them in and out as CSV, XML or YAML.
Imports never overwrite a note that is already stored.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Storage adapter: fs, bolt, memory or mongo")
	rootCmd.PersistentFlags().StringVar(&home, "home", "", "Storage location (directory, database file or connection string)")
	rootCmd.PersistentFlags().StringVar(&slotKey, "key", "", "Slot key the notes are stored under")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Reject every change")
}

// loadConfig resolves jot.yaml and the environment, then applies the global flags.
func loadConfig(cmd *cobra.Command) (string, platform.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", platform.Config{}, err
	}

	root, cfg, err := platform.Resolve(wd, os.Getenv)
	if err != nil {
		return "", platform.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("adapter") {
		cfg.Adapter = adapter
	}
	if flags.Changed("home") {
		if cfg.Adapter == platform.AdapterMongo {
			cfg.Mongo.URI = home
		} else {
			cfg.Path = home
		}
	}
	if flags.Changed("key") {
		cfg.Key = slotKey
	}
	if flags.Changed("read-only") {
		cfg.ReadOnly = readOnly
	}
	return root, cfg, nil
}

// openRepository opens the repository configured for the working directory.
func openRepository(ctx context.Context, cmd *cobra.Command) (*core.Repository, platform.Config, error) {
	root, cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}

	opts := append(cfg.Options(), platform.WithLogger(slog.Default()))
	repo, err := platform.New(ctx, cfg.URI(root), opts...)
	if err != nil {
		return nil, cfg, err
	}
	return repo, cfg, nil
}

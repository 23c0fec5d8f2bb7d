package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot/internal/platform"
	"github.com/aretw0/jot/pkg/codec"
	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/transfer"
)

var importFormat string

var importCmd = &cobra.Command{
	Use:   "import [file|glob]...",
	Short: "Merge notes from CSV, XML or YAML files",
	Long: `Merge notes from exported files into the store. Each argument is a file or a
glob pattern ("exports/**/*.csv"); the format follows the extension.
With no arguments the payload is read from stdin and --format is required.

Notes already stored always win: an incoming note whose id is taken is dropped.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		repo, cfg, err := openRepository(ctx, cmd)
		if err != nil {
			fatal("Failed to open store", err)
		}
		defer repo.Close()

		svc := newTransfer(repo, cfg)

		if len(args) == 0 {
			if importFormat == "" {
				fatal("Failed to import", fmt.Errorf("--format is required when reading stdin"))
			}
			content, err := io.ReadAll(os.Stdin)
			if err != nil {
				fatal("Failed to read stdin", err)
			}
			report, err := svc.ImportPayload(ctx, content, importFormat)
			if err != nil {
				fatal("Failed to import", err)
			}
			report.Source = "stdin"
			printReport(report)
			return
		}

		for _, arg := range args {
			reports, err := svc.ImportGlob(ctx, arg)
			for _, report := range reports {
				printReport(report)
			}
			if err != nil {
				fatal("Failed to import", err)
			}
			if len(reports) == 0 {
				slog.Warn("no importable files matched", "pattern", arg)
			}
		}
	},
}

func printReport(r *transfer.Report) {
	fmt.Printf("%s (%s): added %d, dropped %d duplicates, skipped %d, total %d\n",
		r.Source, r.Format, r.Stats.Added, r.Stats.Duplicates, len(r.Skipped), r.Stats.Total)
}

// newTransfer builds the import/export service with the configured markup root tag.
func newTransfer(repo *core.Repository, cfg platform.Config) *transfer.Service {
	opts := []transfer.Option{transfer.WithLogger(slog.Default())}
	if cfg.Export.RootTag != "" {
		opts = append(opts, transfer.WithCodec(codec.NewMarkup(cfg.Export.RootTag)))
	}
	return transfer.New(repo, opts...)
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Format of stdin: csv, xml, yaml or a media type")
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot/pkg/codec"
	"github.com/aretw0/jot/pkg/transfer"
)

var (
	exportName   string
	exportDir    string
	exportFormat string
	exportStdout bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the notes as CSV and XML",
	Long: `Write one snapshot of the store as <name>.csv and <name>.xml in --dir.
With --format only that rendition is produced; --stdout prints it instead of writing a file.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		repo, cfg, err := openRepository(ctx, cmd)
		if err != nil {
			fatal("Failed to open store", err)
		}
		defer repo.Close()

		name := exportName
		if !cmd.Flags().Changed("name") && cfg.Export.Name != "" {
			name = cfg.Export.Name
		}

		svc := newTransfer(repo, cfg)
		notes, err := svc.Snapshot(ctx)
		if err != nil {
			fatal("Failed to read notes", err)
		}

		var files []transfer.File
		if exportFormat != "" {
			f, err := codec.ParseFormat(exportFormat)
			if err != nil {
				fatal("Failed to export", err)
			}
			content, err := svc.Export(notes, f)
			if err != nil {
				fatal("Failed to export", err)
			}
			files = []transfer.File{{Name: name + f.Extension(), MediaType: f.MediaType(), Content: content}}
		} else {
			all, err := svc.ExportAll(notes)
			if err != nil {
				fatal("Failed to export", err)
			}
			files = all.Files(name)
		}

		if exportStdout {
			for _, f := range files {
				os.Stdout.Write(f.Content)
				fmt.Println()
			}
			return
		}

		paths, err := transfer.WriteFiles(exportDir, files)
		if err != nil {
			fatal("Failed to write export", err)
		}
		for _, p := range paths {
			fmt.Println(p)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportName, "name", "notes", "Base file name")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", ".", "Output directory")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Export a single format: csv, xml or yaml")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Print to stdout instead of writing files")
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot/pkg/core"
)

var (
	saveID       int64
	saveTitle    string
	saveBody     string
	saveBodyFile string
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create or update a note",
	Long: `Create a note, or replace the title and body of the note with --id.
An --id that is not stored creates a new note with a fresh id.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		body := saveBody
		if saveBodyFile != "" {
			var data []byte
			var err error
			if saveBodyFile == "-" {
				data, err = io.ReadAll(os.Stdin)
			} else {
				data, err = os.ReadFile(saveBodyFile)
			}
			if err != nil {
				fatal("Failed to read body", err)
			}
			body = string(data)
		}

		ctx := context.Background()
		repo, _, err := openRepository(ctx, cmd)
		if err != nil {
			fatal("Failed to open store", err)
		}
		defer repo.Close()

		note, err := repo.Save(ctx, core.Note{ID: saveID, Title: saveTitle, Body: body})
		if err != nil {
			fatal("Failed to save note", err)
		}

		fmt.Printf("Note %d saved.\n", note.ID)
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
	saveCmd.Flags().Int64Var(&saveID, "id", 0, "Id of the note to update")
	saveCmd.Flags().StringVarP(&saveTitle, "title", "t", "", "Title of the note")
	saveCmd.Flags().StringVarP(&saveBody, "body", "b", "", "Body of the note")
	saveCmd.Flags().StringVar(&saveBodyFile, "body-file", "", "Read the body from a file (- for stdin)")
	saveCmd.MarkFlagsMutuallyExclusive("body", "body-file")
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot/pkg/core"
)

var (
	listJSON  bool
	listLimit int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, most recently updated first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		repo, _, err := openRepository(ctx, cmd)
		if err != nil {
			fatal("Failed to open store", err)
		}
		defer repo.Close()

		notes, err := repo.List(ctx)
		if err != nil {
			fatal("Failed to list notes", err)
		}
		if listLimit > 0 && listLimit < len(notes) {
			notes = notes[:listLimit]
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(notes); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, note := range notes {
			fmt.Printf("%d\t%s\t%s\n", note.ID, core.FormatTimestamp(note.UpdatedAt), note.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Show at most n notes")
}

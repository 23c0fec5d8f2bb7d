package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Long:  `Delete a note by its id. Deleting an id that is not stored does nothing.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fatal("Invalid id", err)
		}

		ctx := context.Background()
		repo, _, err := openRepository(ctx, cmd)
		if err != nil {
			fatal("Failed to open store", err)
		}
		defer repo.Close()

		if err := repo.Delete(ctx, id); err != nil {
			fatal("Failed to delete note", err)
		}

		fmt.Printf("Note %d deleted.\n", id)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot/internal/render"
)

var (
	readJSON bool
	readHTML bool
)

var readCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Read a note",
	Long:  `Read a note by its id. Prints the body by default, the full note with --json, or the body rendered from Markdown with --html.`,
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

		note, err := repo.Get(ctx, id)
		if err != nil {
			fatal("Failed to read note", err)
		}

		switch {
		case readJSON:
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(note); err != nil {
				fatal("Failed to encode JSON", err)
			}
		case readHTML:
			html, err := render.HTML(note.Body)
			if err != nil {
				fatal("Failed to render note", err)
			}
			fmt.Print(html)
		default:
			fmt.Println(note.Body)
		}
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Output in JSON format")
	readCmd.Flags().BoolVar(&readHTML, "html", false, "Render the body from Markdown to HTML")
	readCmd.MarkFlagsMutuallyExclusive("json", "html")
}

package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the state of the repository and its store",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		repo, _, err := openRepository(ctx, cmd)
		if err != nil {
			fatal("Failed to open store", err)
		}
		defer repo.Close()

		state := repo.State()
		if inspectJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(state); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		printer := pp.New()
		printer.SetColoringEnabled(isTerminal(os.Stdout))
		printer.Println(state)
	},
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Output in JSON format")
}

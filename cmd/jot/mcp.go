package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot"
	"github.com/aretw0/jot/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the notes as MCP tools over stdio",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		repo, cfg, err := openRepository(ctx, cmd)
		if err != nil {
			fatal("Failed to open store", err)
		}
		defer repo.Close()

		s := mcpserver.NewServer(repo, newTransfer(repo, cfg), strings.TrimSpace(jot.Version))
		if err := mcpserver.Serve(s); err != nil {
			fatal("MCP server failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

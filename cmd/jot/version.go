package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/jot"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of jot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jot version %s\n", strings.TrimSpace(jot.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/regolith"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of regolith",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "regolith version %s\n", strings.TrimSpace(regolith.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

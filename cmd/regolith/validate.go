package main

import (
	"github.com/aretw0/regolith/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration",
	Long:  `Loads the configuration file and --set overrides and reports every invalid field.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		overrides, _ := cmd.Flags().GetStringArray("set")
		_, err := cli.Validate(cmd.OutOrStdout(), path, overrides)
		return err
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

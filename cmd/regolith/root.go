package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "regolith",
	Short: "Regolith simulates bedrock weathering with a continuous-time cellular automaton",
	Long: `Regolith grows saprolite from fractures in a rock grid.
Fluid enters along random fracture lines and weathers rock into saprolite
as Poisson-timed transitions fire between neighbouring nodes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringArray("set", nil, "Override a config key (key=value, repeatable)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

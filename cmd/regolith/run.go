package main

import (
	"context"

	"github.com/aretw0/regolith/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the weathering simulation",
	Long: `Runs the simulation with the reference parameters (300x300 grid, 20 s plotted every 0.5 s)
unless a config file, --set overrides or flags change them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RunOptions{
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		}
		opts.ConfigPath, _ = cmd.Flags().GetString("config")
		opts.Overrides, _ = cmd.Flags().GetStringArray("set")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.PlotMode, _ = cmd.Flags().GetString("plot")
		opts.OutDir, _ = cmd.Flags().GetString("out")
		opts.StoreKind, _ = cmd.Flags().GetString("store")
		opts.RedisAddr, _ = cmd.Flags().GetString("redis-addr")
		opts.BadgerDir, _ = cmd.Flags().GetString("badger-dir")
		opts.ServeAddr, _ = cmd.Flags().GetString("serve")
		opts.RunID, _ = cmd.Flags().GetString("run-id")
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetInt64("seed")
			opts.Seed = &seed
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		_, err := cli.RunSimulation(ctx, opts)
		return cli.HandleExecutionError(err)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)

	// Running the simulation is the default when no command is given.
	addRunFlags(rootCmd)
	rootCmd.RunE = runCmd.RunE
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("seed", 0, "Random seed for fractures and transitions (0 picks one)")
	cmd.Flags().String("plot", "", "Display: terminal, images or none")
	cmd.Flags().StringP("out", "o", "", "Output directory for images")
	cmd.Flags().String("store", "", "Frame store: none, memory, redis or badger")
	cmd.Flags().String("redis-addr", "", "Redis address for the redis store")
	cmd.Flags().String("badger-dir", "", "Database directory for the badger store")
	cmd.Flags().String("serve", "", "Serve the live view over HTTP on this address (e.g. :8080)")
	cmd.Flags().String("run-id", "", "Run identifier (defaults to a random UUID)")
}

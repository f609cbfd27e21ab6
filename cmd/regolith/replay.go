package main

import (
	"context"
	"fmt"

	"github.com/aretw0/regolith/internal/cli"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Re-render the stored frames of a run",
	Long:  `Loads every frame of a run from the frame store and plays it through the configured display.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.ReplayOptions{
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		}
		opts.ConfigPath, _ = cmd.Flags().GetString("config")
		opts.Overrides, _ = cmd.Flags().GetStringArray("set")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.RunID, _ = cmd.Flags().GetString("run-id")
		opts.StoreKind, _ = cmd.Flags().GetString("store")
		opts.RedisAddr, _ = cmd.Flags().GetString("redis-addr")
		opts.BadgerDir, _ = cmd.Flags().GetString("badger-dir")
		opts.PlotMode, _ = cmd.Flags().GetString("plot")
		opts.OutDir, _ = cmd.Flags().GetString("out")
		opts.Delay, _ = cmd.Flags().GetDuration("delay")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		n, err := cli.Replay(ctx, opts)
		if err = cli.HandleExecutionError(err); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), ">>> Replayed %d frames of %s.\n", n, opts.RunID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().String("run-id", "", "Run to replay")
	replayCmd.Flags().String("store", "", "Frame store: memory, redis or badger")
	replayCmd.Flags().String("redis-addr", "", "Redis address for the redis store")
	replayCmd.Flags().String("badger-dir", "", "Database directory for the badger store")
	replayCmd.Flags().String("plot", "", "Display: terminal, images or none")
	replayCmd.Flags().StringP("out", "o", "", "Output directory for images")
	replayCmd.Flags().Duration("delay", 0, "Pause between frames (e.g. 200ms)")
	_ = replayCmd.MarkFlagRequired("run-id")
}

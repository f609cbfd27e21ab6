package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/regolith/internal/config"
	"github.com/aretw0/regolith/internal/logging"
)

// createLogger configures the application logger.
// Logs go to w (stderr in the CLI) so stdout keeps only progress and plots.
// --debug wins over the configured level.
func createLogger(w io.Writer, level string, debug bool) *slog.Logger {
	if debug {
		return logging.NewWithWriter(w, slog.LevelDebug)
	}
	return logging.NewWithWriter(w, logging.ParseLevel(level))
}

// loadConfig reads path (defaults when empty), applies key=value overrides and validates.
func loadConfig(path string, overrides []string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyOverrides(overrides); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

// HandleExecutionError maps user interruptions to a clean exit.
func HandleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}

// logCompletion tells the user how the run ended.
func logCompletion(w io.Writer, simTime float64, err error, sig os.Signal) {
	switch {
	case err == nil:
		printSystemMessage(w, "Finished at t=%.1f s.", simTime)
	case isInterrupted(err) && sig == os.Interrupt:
		fmt.Fprintf(w, "[CTRL+C]\n")
		printSystemMessage(w, "Interrupted at t=%.1f s.", simTime)
	case isInterrupted(err) && sig != nil:
		fmt.Fprintln(w)
		printSystemMessage(w, "Terminated at t=%.1f s.", simTime)
	case isInterrupted(err):
		printSystemMessage(w, "Interrupted at t=%.1f s.", simTime)
	}
}

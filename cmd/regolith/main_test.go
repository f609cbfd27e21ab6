package main

import (
	"bytes"
	"testing"

	"github.com/aretw0/regolith/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// StringArray flags append once changed, so clear --set between executions.
	set := rootCmd.PersistentFlags().Lookup("set")
	require.NoError(t, set.Value.(interface{ Replace([]string) error }).Replace(nil))
	set.Changed = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "regolith version ")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "--set", "rows=12")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid: 12x300 grid")

	_, err = execute(t, "validate", "--set", "plot_interval=-1")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestRunCommand_Small(t *testing.T) {
	out, err := execute(t, "run",
		"--set", "rows=4", "--set", "cols=6", "--set", "run_duration=1",
		"--plot", "none", "--seed", "3", "--run-id", "cmd-test")
	require.NoError(t, err)
	assert.Contains(t, out, ">>> Finished at t=1.0 s.")
}

func TestReplayCommand_RequiresRunID(t *testing.T) {
	_, err := execute(t, "replay")
	assert.ErrorContains(t, err, "run-id")
}

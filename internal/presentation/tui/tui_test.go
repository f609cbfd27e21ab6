package tui_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/regolith/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary_Markdown(t *testing.T) {
	s := tui.Summary{
		RunID:             "abc",
		Rows:              300,
		Cols:              300,
		Seed:              9,
		Steps:             40,
		SimTime:           20,
		RunDuration:       20,
		Transitions:       1234,
		SaproliteFraction: 0.5,
		Elapsed:           1500 * time.Millisecond,
		Outputs:           []string{"out/regolith.avi"},
	}

	md := s.Markdown()
	assert.Contains(t, md, "# Run complete")
	assert.Contains(t, md, "| Grid | 300 x 300 |")
	assert.Contains(t, md, "20.0 / 20.0 s (40 steps)")
	assert.Contains(t, md, "| Saprolite | 50.00% |")
	assert.Contains(t, md, "- out/regolith.avi")

	s.Err = errors.New("context canceled")
	assert.Contains(t, s.Markdown(), "# Run interrupted")
}

func TestRenderer(t *testing.T) {
	render := tui.NewRenderer()
	out, err := render("# Title\n\nbody")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|___/")
}

package tui

import (
	"fmt"
	"strings"
	"time"
)

// Summary is what a finished run reports to the user.
type Summary struct {
	RunID             string
	Rows, Cols        int
	Seed              int64
	Steps             int
	SimTime           float64
	RunDuration       float64
	Transitions       uint64
	SaproliteFraction float64
	Elapsed           time.Duration
	Outputs           []string
	Err               error
}

// Markdown formats the summary as a small markdown document.
func (s Summary) Markdown() string {
	var b strings.Builder
	if s.Err != nil {
		b.WriteString("# Run interrupted\n\n")
		fmt.Fprintf(&b, "> %v\n\n", s.Err)
	} else {
		b.WriteString("# Run complete\n\n")
	}

	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Run | `%s` |\n", s.RunID)
	fmt.Fprintf(&b, "| Grid | %d x %d |\n", s.Rows, s.Cols)
	fmt.Fprintf(&b, "| Seed | %d |\n", s.Seed)
	fmt.Fprintf(&b, "| Simulated time | %.1f / %.1f s (%d steps) |\n", s.SimTime, s.RunDuration, s.Steps)
	fmt.Fprintf(&b, "| Transitions | %d |\n", s.Transitions)
	fmt.Fprintf(&b, "| Saprolite | %.2f%% |\n", 100*s.SaproliteFraction)
	fmt.Fprintf(&b, "| Wall time | %s |\n", s.Elapsed.Round(time.Millisecond))

	if len(s.Outputs) > 0 {
		b.WriteString("\n## Outputs\n\n")
		for _, o := range s.Outputs {
			fmt.Fprintf(&b, "- %s\n", o)
		}
	}
	return b.String()
}

package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the regolith banner in earth tones.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text string
		hex  string
	}{
		{`                       _ _ _   _     `, "#D0E4F2"},
		{`  _ __ ___  __ _  ___ | (_) |_| |__  `, "#B8C4C8"},
		{` | '__/ _ \/ _' |/ _ \| | | __| '_ \ `, "#9C9A92"},
		{` | | |  __/ (_| | (_) | | | |_| | | |`, "#857C6E"},
		{` |_|  \___|\__, |\___/|_|_|\__|_| |_|`, "#6E665A"},
		{`           |___/                     `, "#5F594D"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.hex)))
	}
	fmt.Fprintln(w)
}

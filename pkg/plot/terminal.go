package plot

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/regolith/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	defaultTermWidth  = 80
	defaultTermHeight = 24
	halfBlock         = "▀"
)

// Terminal draws frames in place using half-block characters, two grid rows per
// text line. Grids larger than the terminal are downsampled; a block shows its
// most weathered node so thin fractures stay visible.
type Terminal struct {
	out    *termenv.Output
	cmap   Colormap
	width  int
	height int

	mu    sync.Mutex
	drawn bool
}

// TerminalOption configures a Terminal.
type TerminalOption func(*terminalOptions)

type terminalOptions struct {
	width, height int
	profile       *termenv.Profile
}

// WithTerminalSize fixes the drawing area instead of querying the terminal.
func WithTerminalSize(width, height int) TerminalOption {
	return func(o *terminalOptions) {
		o.width = width
		o.height = height
	}
}

// WithColorProfile forces a colour profile, e.g. termenv.TrueColor in tests.
func WithColorProfile(p termenv.Profile) TerminalOption {
	return func(o *terminalOptions) {
		o.profile = &p
	}
}

// NewTerminal creates a terminal plotter writing to w.
func NewTerminal(w io.Writer, cmap Colormap, opts ...TerminalOption) *Terminal {
	var o terminalOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.width <= 0 || o.height <= 0 {
		o.width, o.height = terminalSize(w)
	}

	var outOpts []termenv.OutputOption
	if o.profile != nil {
		outOpts = append(outOpts, termenv.WithProfile(*o.profile))
	}

	return &Terminal{
		out:    termenv.NewOutput(w, outOpts...),
		cmap:   cmap,
		width:  o.width,
		height: o.height,
	}
}

func terminalSize(w io.Writer) (int, int) {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, height, err := term.GetSize(int(f.Fd())); err == nil && width > 0 && height > 2 {
			return width, height
		}
	}
	return defaultTermWidth, defaultTermHeight
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Update redraws the whole grid from the top-left corner.
func (t *Terminal) Update(ctx context.Context, frame *domain.Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.drawn {
		t.out.HideCursor()
		t.out.ClearScreen()
		t.drawn = true
	}
	t.out.MoveCursor(1, 1)

	var b strings.Builder
	fmt.Fprintf(&b, "%s  saprolite %5.1f%%\n", TimeLabel(frame.Time), 100*frame.SaproliteFraction())
	t.draw(&b, Downsample(frame, t.width, 2*(t.height-2)))
	_, err := io.WriteString(t.out, b.String())
	return err
}

// Finalize restores the cursor below the last drawing.
func (t *Terminal) Finalize(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.drawn {
		t.out.ShowCursor()
	}
	return nil
}

// draw writes the frame top row first, pairing rows into half blocks.
func (t *Terminal) draw(b *strings.Builder, f *domain.Frame) {
	for row := f.Rows - 1; row >= 0; row -= 2 {
		for col := 0; col < f.Cols; col++ {
			upper := t.out.Color(t.cmap.Hex(f.At(row, col)))
			s := t.out.String(halfBlock).Foreground(upper)
			if row > 0 {
				s = s.Background(t.out.Color(t.cmap.Hex(f.At(row-1, col))))
			}
			b.WriteString(s.String())
		}
		b.WriteString("\n")
	}
}

// Downsample shrinks frame to fit within maxCols x maxRows, keeping its aspect
// ratio. Each output node takes the highest state of the block it covers.
func Downsample(frame *domain.Frame, maxCols, maxRows int) *domain.Frame {
	if maxCols < 1 {
		maxCols = 1
	}
	if maxRows < 1 {
		maxRows = 1
	}
	factor := max(ceilDiv(frame.Cols, maxCols), ceilDiv(frame.Rows, maxRows), 1)
	if factor == 1 {
		return frame
	}

	rows := ceilDiv(frame.Rows, factor)
	cols := ceilDiv(frame.Cols, factor)
	states := make([]domain.NodeState, rows*cols)
	for r := 0; r < frame.Rows; r++ {
		for c := 0; c < frame.Cols; c++ {
			i := (r/factor)*cols + c/factor
			if s := frame.At(r, c); s > states[i] {
				states[i] = s
			}
		}
	}
	return &domain.Frame{RunID: frame.RunID, Step: frame.Step, Time: frame.Time, Rows: rows, Cols: cols, States: states}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

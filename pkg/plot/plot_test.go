package plot_test

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/plot"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2 rows x 3 cols; the bottom row is fully weathered.
func sampleFrame(step int, t float64) *domain.Frame {
	return domain.NewFrame("plot", step, t, 2, 3, []domain.NodeState{1, 1, 1, 0, 0, 1})
}

func TestColormap(t *testing.T) {
	c := plot.DefaultColormap()
	require.Len(t, c, 2)
	assert.Equal(t, color.RGBA{R: 0xD0, G: 0xE4, B: 0xF2, A: 255}, c.Color(domain.Rock))
	assert.Equal(t, color.RGBA{R: 0x5F, G: 0x59, B: 0x4D, A: 255}, c.Color(domain.Saprolite))
	assert.Equal(t, "#5f594d", c.Hex(domain.Saprolite))
	assert.Equal(t, c.Color(domain.Saprolite), c.Color(domain.NodeState(7)), "out of range uses the last entry")

	short, err := plot.ParseColormap("#fff", "000")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, short.Color(0))
	assert.Equal(t, color.RGBA{A: 255}, short.Color(1))

	_, err = plot.ParseColormap("#12345")
	assert.Error(t, err)
	_, err = plot.ParseColormap("#zzzzzz")
	assert.Error(t, err)
	_, err = plot.ParseColormap()
	assert.Error(t, err)
}

func TestRender_BottomRowAtBottom(t *testing.T) {
	cmap := plot.DefaultColormap()
	img := plot.Render(sampleFrame(0, 0), cmap, 2)

	require.Equal(t, 6, img.Bounds().Dx())
	require.Equal(t, 4, img.Bounds().Dy())

	grain := cmap.Color(domain.Saprolite)
	fluid := cmap.Color(domain.Rock)
	// Image row 3 is grid row 0.
	assert.Equal(t, grain, img.RGBAAt(0, 3))
	assert.Equal(t, grain, img.RGBAAt(3, 2))
	// Image row 0 is grid row 1: rock, rock, saprolite.
	assert.Equal(t, fluid, img.RGBAAt(0, 0))
	assert.Equal(t, fluid, img.RGBAAt(3, 1))
	assert.Equal(t, grain, img.RGBAAt(5, 0))
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, plot.WritePNG(&buf, sampleFrame(0, 0), plot.DefaultColormap(), 1))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
}

func TestStamp(t *testing.T) {
	frame := domain.NewFrame("s", 0, 0, 40, 80, make([]domain.NodeState, 40*80))
	img := plot.Render(frame, plot.DefaultColormap(), 1)
	plot.Stamp(img, plot.TimeLabel(0.5))

	assert.Equal(t, "t = 0.5 s", plot.TimeLabel(0.5))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.RGBAAt(2, 2), "label box")

	dark := 0
	for y := 4; y < 17; y++ {
		for x := 4; x < 4+7*9; x++ {
			if img.RGBAAt(x, y).R < 128 {
				dark++
			}
		}
	}
	assert.Positive(t, dark, "glyphs drawn")
}

func TestDownsample(t *testing.T) {
	states := make([]domain.NodeState, 8*8)
	states[5*8+6] = domain.Saprolite // row 5, col 6
	frame := domain.NewFrame("d", 0, 0, 8, 8, states)

	small := plot.Downsample(frame, 4, 4)
	assert.Equal(t, 4, small.Rows)
	assert.Equal(t, 4, small.Cols)
	assert.Equal(t, 1, small.Count(domain.Saprolite), "a single weathered node survives")
	assert.Equal(t, domain.Saprolite, small.At(2, 3))

	assert.Same(t, frame, plot.Downsample(frame, 100, 100))
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	term := plot.NewTerminal(&buf, plot.DefaultColormap(),
		plot.WithTerminalSize(20, 10),
		plot.WithColorProfile(termenv.TrueColor),
	)
	ctx := context.Background()

	require.NoError(t, term.Update(ctx, sampleFrame(0, 0)))
	require.NoError(t, term.Update(ctx, sampleFrame(1, 0.5)))
	require.NoError(t, term.Finalize(ctx))

	out := buf.String()
	assert.Contains(t, out, "t = 0.5 s")
	assert.Contains(t, out, "saprolite  66.7%")
	assert.Contains(t, out, "▀")
	// Saprolite 5f594d = 95;89;77 as a background on the lower half.
	assert.Contains(t, out, "48;2;95;89;77")
	assert.Equal(t, 1, strings.Count(out, "\x1b[?25l"), "cursor hidden once")
	assert.Contains(t, out, "\x1b[?25h")
}

func TestImages(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	images, err := plot.NewImages(plot.ImagesConfig{
		Dir:    dir,
		Frames: true,
		Movie:  true,
		Chart:  true,
		FPS:    5,
		Scale:  4,
	}, plot.DefaultColormap())
	require.NoError(t, err)

	ctx := context.Background()
	for step := 0; step < 3; step++ {
		require.NoError(t, images.Update(ctx, sampleFrame(step, float64(step)*0.5)))
	}
	require.NoError(t, images.Finalize(ctx))

	for _, name := range []string{"frame_00000.png", "frame_00002.png", plot.MovieFile, plot.ChartFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}

	f, err := os.Open(filepath.Join(dir, "frame_00001.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 12, img.Bounds().Dx())
}

func TestImages_RequiresDir(t *testing.T) {
	_, err := plot.NewImages(plot.ImagesConfig{}, plot.DefaultColormap())
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

type countingPlotter struct {
	updates, finals int
	err             error
}

func (c *countingPlotter) Update(context.Context, *domain.Frame) error { c.updates++; return c.err }
func (c *countingPlotter) Finalize(context.Context) error              { c.finals++; return c.err }

func TestMulti(t *testing.T) {
	ok := &countingPlotter{}
	bad := &countingPlotter{err: errors.New("broken")}
	m := plot.Multi(ok, nil, bad)
	ctx := context.Background()

	assert.Error(t, m.Update(ctx, sampleFrame(0, 0)))
	assert.Error(t, m.Finalize(ctx))
	assert.Equal(t, 1, ok.updates, "a failing plotter doesn't starve the others")
	assert.Equal(t, 1, ok.finals)

	single := plot.Multi(ok)
	assert.Same(t, ok, single)

	assert.NoError(t, plot.Nop{}.Update(ctx, sampleFrame(0, 0)))
}

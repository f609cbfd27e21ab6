package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/aretw0/regolith/pkg/domain"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Render draws frame with one scale x scale square per node.
// Row 0 of the grid is the bottom of the image.
func Render(frame *domain.Frame, cmap Colormap, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, frame.Cols*scale, frame.Rows*scale))
	for row := 0; row < frame.Rows; row++ {
		y0 := (frame.Rows - 1 - row) * scale
		for col := 0; col < frame.Cols; col++ {
			c := cmap.Color(frame.At(row, col))
			if scale == 1 {
				img.SetRGBA(col, y0, c)
				continue
			}
			rect := image.Rect(col*scale, y0, (col+1)*scale, y0+scale)
			draw.Draw(img, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
		}
	}
	return img
}

// Stamp writes label in the top-left corner on a white box.
func Stamp(img *image.RGBA, label string) {
	face := basicfont.Face7x13
	x, y := 4, 4
	textWidth := len(label) * 7
	textHeight := 13

	box := image.Rect(x-2, y-2, x+textWidth+2, y+textHeight+2)
	draw.Draw(img, box, &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y + textHeight - 3)},
	}
	d.DrawString(label)
}

// TimeLabel formats the stamp for simulated time t.
func TimeLabel(t float64) string {
	return fmt.Sprintf("t = %.1f s", t)
}

// WritePNG renders frame and encodes it as PNG.
func WritePNG(w io.Writer, frame *domain.Frame, cmap Colormap, scale int) error {
	return png.Encode(w, Render(frame, cmap, scale))
}

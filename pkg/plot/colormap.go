package plot

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/aretw0/regolith/pkg/domain"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Default colours of the two-state weathering map.
const (
	DefaultFluid = "#D0E4F2"
	DefaultGrain = "#5F594D"
)

// Colormap is a listed colormap: entry i is the colour of node state i.
type Colormap []color.RGBA

// DefaultColormap maps rock to the fluid colour and saprolite to the grain colour.
func DefaultColormap() Colormap {
	c, _ := ParseColormap(DefaultFluid, DefaultGrain)
	return c
}

// ParseColormap builds a colormap from "#RRGGBB" or "#RGB" strings.
func ParseColormap(hexes ...string) (Colormap, error) {
	if len(hexes) == 0 {
		return nil, fmt.Errorf("colormap needs at least one colour")
	}
	c := make(Colormap, 0, len(hexes))
	for i, h := range hexes {
		if !isHexColor(h) {
			return nil, fmt.Errorf("colour %d: %q is not a hex colour", i, h)
		}
		d := drawing.ColorFromHex(h)
		c = append(c, color.RGBA{R: d.R, G: d.G, B: d.B, A: 255})
	}
	return c, nil
}

func isHexColor(s string) bool {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 3 && len(s) != 6 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// Color returns the colour of state s. States past the end use the last entry.
func (c Colormap) Color(s domain.NodeState) color.RGBA {
	if len(c) == 0 {
		return color.RGBA{A: 255}
	}
	if int(s) >= len(c) {
		return c[len(c)-1]
	}
	return c[s]
}

// Hex returns the colour of state s as "#rrggbb".
func (c Colormap) Hex(s domain.NodeState) string {
	rgba := c.Color(s)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

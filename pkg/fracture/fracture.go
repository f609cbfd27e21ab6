// Package fracture generates the initial fracture-line pattern of the weathering model.
package fracture

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/ports"
)

// Generator draws straight fracture lines across a grid.
type Generator struct {
	seed uint64
}

var _ ports.FractureGenerator = (*Generator)(nil)

// New creates a generator. A zero seed is replaced by the wall clock, so patterns differ between runs.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{seed: uint64(seed)}
}

// Seed returns the effective seed.
func (g *Generator) Seed() int64 {
	return int64(g.seed)
}

// Count returns how many fractures Generate draws for the given shape.
func Count(spacing, rows, cols int) int {
	if spacing <= 0 || rows < 1 || cols < 1 {
		return 0
	}
	return max((rows+cols)/spacing, 1)
}

// Generate zeroes target and sets every node crossed by a fracture to Saprolite.
// target is reallocated when its length does not match rows*cols.
func (g *Generator) Generate(spacing, rows, cols int, target []domain.NodeState) []domain.NodeState {
	if len(target) != rows*cols {
		target = make([]domain.NodeState, max(rows*cols, 0))
	}
	clear(target)

	for i := range Count(spacing, rows, cols) {
		rng := subGenerator(g.seed + uint64(i))
		y, x := startPosition(rng, rows, cols)
		ang := orientation(rng, y, x, rows, cols)
		dy, dx := stepSizes(ang)
		trace(target, rows, cols, float64(y), float64(x), dy, dx)
	}
	return target
}

// subGenerator returns the random source of one fracture line.
func subGenerator(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xf4ac7e))
}

// startPosition picks a random node on one of the four sides.
func startPosition(rng *rand.Rand, rows, cols int) (int, int) {
	switch rng.IntN(4) {
	case 0: // bottom
		return 0, rng.IntN(cols)
	case 1: // left
		return rng.IntN(rows), 0
	case 2: // top
		return rows - 1, rng.IntN(cols)
	default: // right
		return rng.IntN(rows), cols - 1
	}
}

// orientation picks an angle (radians, counter-clockwise from +x) pointing into the grid.
func orientation(rng *rand.Rand, y, x, rows, cols int) float64 {
	ang := math.Pi * rng.Float64()
	switch {
	case y == 0:
		// Pointing up: (0, pi)
	case x == 0:
		ang -= math.Pi / 2
	case y == rows-1:
		ang += math.Pi
	case x == cols-1:
		ang += math.Pi / 2
	}
	return ang
}

// stepSizes returns a unit step along the major axis of the fracture.
func stepSizes(ang float64) (float64, float64) {
	sin, cos := math.Sincos(ang)
	if math.Abs(sin) >= math.Abs(cos) {
		return math.Copysign(1, sin), cos / math.Abs(sin)
	}
	return sin / math.Abs(cos), math.Copysign(1, cos)
}

func trace(target []domain.NodeState, rows, cols int, y, x, dy, dx float64) {
	for {
		r, c := int(math.Round(y)), int(math.Round(x))
		if r < 0 || r >= rows || c < 0 || c >= cols {
			return
		}
		target[r*cols+c] = domain.Saprolite
		y += dy
		x += dx
	}
}

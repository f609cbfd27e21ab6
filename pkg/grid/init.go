package grid

import (
	"context"
	"fmt"

	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/ports"
)

// NodeStateField is the name of the node field holding the automaton state.
const NodeStateField = "node_state_map"

// InitSpec describes the grid to build.
type InitSpec struct {
	Rows    int
	Cols    int
	Spacing float64
	// FractureSpacing controls the fracture density: (Rows+Cols)/FractureSpacing lines.
	FractureSpacing int
}

// Initialize builds a walled grid seeded with a fracture pattern.
// Every closed boundary node ends in the Rock state.
func Initialize(ctx context.Context, spec InitSpec, gen ports.FractureGenerator) (*Raster, []domain.NodeState, error) {
	if gen == nil {
		return nil, nil, fmt.Errorf("%w: fracture generator is required", domain.ErrInvalidGrid)
	}
	g, err := NewRaster(spec.Rows, spec.Cols, spec.Spacing)
	if err != nil {
		return nil, nil, err
	}
	g.CloseBoundaries(true, true, true, true)

	field, err := g.AddNodeField(NodeStateField)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	states := gen.Generate(spec.FractureSpacing, spec.Rows, spec.Cols, field)
	if len(states) != g.NumNodes() {
		return nil, nil, fmt.Errorf("%w: generator returned %d nodes, want %d", domain.ErrInvalidState, len(states), g.NumNodes())
	}
	g.fields[NodeStateField] = states

	// Walls are drawn as rock.
	for _, id := range g.ClosedBoundaryNodes() {
		states[id] = domain.Rock
	}
	return g, states, nil
}

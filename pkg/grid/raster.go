package grid

import (
	"errors"
	"fmt"

	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/ports"
)

// ErrFieldExists is returned when a node field is allocated twice.
var ErrFieldExists = errors.New("field already exists")

// NodeStatus is the boundary condition of a node.
type NodeStatus uint8

const (
	Core   NodeStatus = iota // Takes part in transitions
	Closed                   // Wall, no flux
)

// Raster is a rectangular grid of nodes.
type Raster struct {
	rows, cols int
	spacing    float64
	status     []NodeStatus
	fields     map[string][]domain.NodeState

	links     []ports.Link // Active links, rebuilt when boundaries change
	nodeLinks [][]int
}

var _ ports.Grid = (*Raster)(nil)

// NewRaster creates a rows x cols grid with every node open.
func NewRaster(rows, cols int, spacing float64) (*Raster, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: shape %dx%d", domain.ErrInvalidGrid, rows, cols)
	}
	if !(spacing > 0) {
		return nil, fmt.Errorf("%w: spacing must be positive, got %v", domain.ErrInvalidGrid, spacing)
	}
	g := &Raster{
		rows:    rows,
		cols:    cols,
		spacing: spacing,
		status:  make([]NodeStatus, rows*cols),
		fields:  make(map[string][]domain.NodeState),
	}
	g.buildLinks()
	return g, nil
}

func (g *Raster) Rows() int        { return g.rows }
func (g *Raster) Cols() int        { return g.cols }
func (g *Raster) Spacing() float64 { return g.spacing }
func (g *Raster) NumNodes() int    { return g.rows * g.cols }

// Node returns the id of the node at (row, col).
func (g *Raster) Node(row, col int) int {
	return row*g.cols + col
}

// Status returns the boundary condition of a node.
func (g *Raster) Status(node int) NodeStatus {
	return g.status[node]
}

// CloseBoundaries marks the nodes of the selected edges as closed.
func (g *Raster) CloseBoundaries(north, east, south, west bool) {
	for col := 0; col < g.cols; col++ {
		if south {
			g.status[g.Node(0, col)] = Closed
		}
		if north {
			g.status[g.Node(g.rows-1, col)] = Closed
		}
	}
	for row := 0; row < g.rows; row++ {
		if west {
			g.status[g.Node(row, 0)] = Closed
		}
		if east {
			g.status[g.Node(row, g.cols-1)] = Closed
		}
	}
	g.buildLinks()
}

// ClosedBoundaryNodes lists closed nodes in ascending order.
func (g *Raster) ClosedBoundaryNodes() []int {
	return g.nodesWith(Closed)
}

// CoreNodes lists open nodes in ascending order.
func (g *Raster) CoreNodes() []int {
	return g.nodesWith(Core)
}

func (g *Raster) nodesWith(s NodeStatus) []int {
	var ids []int
	for id, st := range g.status {
		if st == s {
			ids = append(ids, id)
		}
	}
	return ids
}

// AddNodeField allocates a zeroed node-state array attached to the grid.
func (g *Raster) AddNodeField(name string) ([]domain.NodeState, error) {
	if _, ok := g.fields[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldExists, name)
	}
	f := make([]domain.NodeState, g.NumNodes())
	g.fields[name] = f
	return f, nil
}

// Field returns a previously allocated node field.
func (g *Raster) Field(name string) ([]domain.NodeState, bool) {
	f, ok := g.fields[name]
	return f, ok
}

// ActiveLinks returns the links whose endpoints are both open.
func (g *Raster) ActiveLinks() []ports.Link {
	return g.links
}

// NodeLinks returns the active link IDs touching a node.
func (g *Raster) NodeLinks(node int) []int {
	return g.nodeLinks[node]
}

func (g *Raster) buildLinks() {
	g.links = nil
	g.nodeLinks = make([][]int, g.NumNodes())

	add := func(tail, head int, o domain.Orientation) {
		if g.status[tail] == Closed || g.status[head] == Closed {
			return
		}
		id := len(g.links)
		g.links = append(g.links, ports.Link{ID: id, Tail: tail, Head: head, Orientation: o})
		g.nodeLinks[tail] = append(g.nodeLinks[tail], id)
		g.nodeLinks[head] = append(g.nodeLinks[head], id)
	}

	for row := 0; row < g.rows; row++ {
		for col := 0; col+1 < g.cols; col++ {
			add(g.Node(row, col), g.Node(row, col+1), domain.Horizontal)
		}
	}
	for row := 0; row+1 < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			add(g.Node(row, col), g.Node(row+1, col), domain.Vertical)
		}
	}
}

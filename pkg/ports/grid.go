package ports

import "github.com/aretw0/regolith/pkg/domain"

// Link joins two adjacent nodes. Tail is the left/bottom node, Head the right/top node.
type Link struct {
	ID          int
	Tail        int
	Head        int
	Orientation domain.Orientation
}

// Grid is the raster topology the engine runs on.
type Grid interface {
	Rows() int
	Cols() int
	NumNodes() int
	// ClosedBoundaryNodes lists the nodes that never take part in transitions.
	ClosedBoundaryNodes() []int
	// ActiveLinks lists links whose endpoints are both open.
	ActiveLinks() []Link
	// NodeLinks returns the IDs of the active links touching a node.
	NodeLinks(node int) []int
}

// FractureGenerator writes a fracture-line seed pattern into target.
type FractureGenerator interface {
	Generate(spacing, rows, cols int, target []domain.NodeState) []domain.NodeState
}

package domain

import "fmt"

// NodeState is the discrete label assigned to a grid cell.
type NodeState uint8

const (
	Rock      NodeState = 0 // Fresh bedrock
	Saprolite NodeState = 1 // Weathered rock
)

// Orientation of a link between two adjacent nodes.
type Orientation uint8

const (
	Horizontal Orientation = 0 // Tail is the left node, head is the right node
	Vertical   Orientation = 1 // Tail is the bottom node, head is the top node
)

// PairState is the joint state of the two nodes of a link plus its orientation.
type PairState struct {
	Tail        NodeState
	Head        NodeState
	Orientation Orientation
}

// Pair is shorthand for building a PairState from a (tail, head, orientation) tuple.
func Pair(tail, head NodeState, o Orientation) PairState {
	return PairState{Tail: tail, Head: head, Orientation: o}
}

func (p PairState) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.Tail, p.Head, p.Orientation)
}

// Index encodes the pair state as a dense integer for n node states.
func (p PairState) Index(n int) int {
	return int(p.Orientation)*n*n + int(p.Tail)*n + int(p.Head)
}

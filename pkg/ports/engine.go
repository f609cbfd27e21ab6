package ports

import (
	"context"

	"github.com/aretw0/regolith/pkg/domain"
)

// Engine is a continuous-time cellular automaton.
type Engine interface {
	// Run advances the automaton until simulated time `until`, mutating states in place.
	// plotEachTransition asks the engine to report every individual transition.
	Run(ctx context.Context, until float64, states []domain.NodeState, plotEachTransition bool) error

	// NodeState returns the live node-state array.
	NodeState() []domain.NodeState

	// Time returns the current simulated time.
	Time() float64

	// Transitions returns the number of transitions fired so far.
	Transitions() uint64
}

package domain

import (
	"errors"
	"fmt"
	"math"
)

// Transition moves a link from one pair state to another at a fixed rate.
type Transition struct {
	From PairState `json:"from"`
	To   PairState `json:"to"`
	// Rate is in events per unit of simulated time (1/s).
	Rate float64 `json:"rate"`
	Name string  `json:"name"`
}

// Validate checks that the rule is usable by an engine.
func (t Transition) Validate() error {
	if !(t.Rate > 0) || math.IsInf(t.Rate, 1) {
		return fmt.Errorf("%w: %s -> %s: rate must be positive and finite, got %v", ErrInvalidTransition, t.From, t.To, t.Rate)
	}
	if t.From.Orientation != t.To.Orientation {
		return fmt.Errorf("%w: %s -> %s: orientation cannot change", ErrInvalidTransition, t.From, t.To)
	}
	if t.From == t.To {
		return fmt.Errorf("%w: %s: from and to are identical", ErrInvalidTransition, t.From)
	}
	return nil
}

// ValidateTransitions validates every rule and joins the failures.
func ValidateTransitions(xns []Transition) error {
	if len(xns) == 0 {
		return fmt.Errorf("%w: empty transition list", ErrInvalidTransition)
	}
	var errs []error
	for _, xn := range xns {
		if err := xn.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

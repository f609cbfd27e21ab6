// Package rules declares the transition table of the weathering automaton.
package rules

import "github.com/aretw0/regolith/pkg/domain"

// SaproliteFormation is the label shared by both weathering rules.
const SaproliteFormation = "saprolite formation"

// Rate of each weathering rule, in events per simulated second.
const Rate = 1.0

// StateNames maps node states to their labels.
func StateNames() map[domain.NodeState]string {
	return map[domain.NodeState]string{
		domain.Rock:      "rock",
		domain.Saprolite: "saprolite",
	}
}

// Weathering returns the two link transitions of the unbiased weathering walk.
//
//	Pair state   Transition to   Process
//	(1,0,0)      (1,1,0)         weathering front moves right
//	(0,1,0)      (1,1,0)         weathering front moves left
//
// Tuples are (left/bottom node, right/top node, orientation).
func Weathering() []domain.Transition {
	return []domain.Transition{
		{
			From: domain.Pair(domain.Saprolite, domain.Rock, domain.Horizontal),
			To:   domain.Pair(domain.Saprolite, domain.Saprolite, domain.Horizontal),
			Rate: Rate,
			Name: SaproliteFormation,
		},
		{
			From: domain.Pair(domain.Rock, domain.Saprolite, domain.Horizontal),
			To:   domain.Pair(domain.Saprolite, domain.Saprolite, domain.Horizontal),
			Rate: Rate,
			Name: SaproliteFormation,
		},
	}
}

package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxRunIDLength bounds run IDs so they stay usable inside store keys.
const MaxRunIDLength = 128

// runIDSeparators delimit the segments of frame keys in the persistent stores.
const runIDSeparators = "/:"

// ValidateRunID rejects IDs that are empty, too long, or contain key separators,
// spaces or control characters.
func ValidateRunID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidRunID)
	}
	if len(id) > MaxRunIDLength {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidRunID, MaxRunIDLength)
	}
	for _, r := range id {
		if strings.ContainsRune(runIDSeparators, r) || unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidRunID, id, r)
		}
	}
	return nil
}

// Frame is a snapshot of the node-state array at a point in simulated time.
type Frame struct {
	RunID  string      `json:"run_id"`
	Step   int         `json:"step"`
	Time   float64     `json:"time"`
	Rows   int         `json:"rows"`
	Cols   int         `json:"cols"`
	States []NodeState `json:"states"`
}

// NewFrame copies states so the frame stays valid after the engine mutates the array.
func NewFrame(runID string, step int, t float64, rows, cols int, states []NodeState) *Frame {
	cp := make([]NodeState, len(states))
	copy(cp, states)
	return &Frame{RunID: runID, Step: step, Time: t, Rows: rows, Cols: cols, States: cp}
}

// At returns the state of the node at (row, col). Row 0 is the bottom row.
func (f *Frame) At(row, col int) NodeState {
	return f.States[row*f.Cols+col]
}

// Count returns the number of nodes in state s.
func (f *Frame) Count(s NodeState) int {
	n := 0
	for _, v := range f.States {
		if v == s {
			n++
		}
	}
	return n
}

// SaproliteFraction is the share of nodes already weathered.
func (f *Frame) SaproliteFraction() float64 {
	if len(f.States) == 0 {
		return 0
	}
	return float64(f.Count(Saprolite)) / float64(len(f.States))
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	return NewFrame(f.RunID, f.Step, f.Time, f.Rows, f.Cols, f.States)
}

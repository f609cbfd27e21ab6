package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStart      EventType = "start"
	EventStep       EventType = "step"
	EventReport     EventType = "report"
	EventFinish     EventType = "finish"
	EventTransition EventType = "transition"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// StepEvent is emitted after each engine advance.
type StepEvent struct {
	EventBase
	Step              int           `json:"step"`
	SimTime           float64       `json:"sim_time"`
	Transitions       uint64        `json:"transitions"` // Fired during this step
	SaproliteFraction float64       `json:"saprolite_fraction"`
	Duration          time.Duration `json:"duration"`
}

// ReportEvent is emitted when a progress report is printed.
type ReportEvent struct {
	EventBase
	SimTime float64 `json:"sim_time"`
	Percent int     `json:"percent"`
}

// RunEvent marks the start and end of a run.
type RunEvent struct {
	EventBase
	Rows        int     `json:"rows"`
	Cols        int     `json:"cols"`
	RunDuration float64 `json:"run_duration"`
	SimTime     float64 `json:"sim_time"`
	Err         error   `json:"-"`
}

// TransitionEvent describes a single fired link transition.
type TransitionEvent struct {
	Time float64
	Link int
	Tail int
	Head int
	Rule Transition
}

// LifecycleHooks defines callbacks for simulation observability.
type LifecycleHooks struct {
	OnStart  func(context.Context, *RunEvent)
	OnStep   func(context.Context, *StepEvent)
	OnReport func(context.Context, *ReportEvent)
	OnFinish func(context.Context, *RunEvent)
}
